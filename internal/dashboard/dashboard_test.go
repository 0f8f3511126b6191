package dashboard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mmynk/allotment/internal/client"
	"github.com/mmynk/allotment/internal/models"
)

func testSummary() models.Summary {
	return models.Summary{
		Participants: []models.Participant{
			{ID: 3, FirstName: "Carlos", LastName: "Moura", Percentage: 5},
			{ID: 8, FirstName: "Fernanda", LastName: "Oliveira", Percentage: 15},
		},
		Remaining: 80,
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, testSummary().Participants)
	out := buf.String()

	for _, want := range []string{"First Name", "Participation", "Carlos", "Oliveira", "15%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	RenderChart(&buf, testSummary())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 chart lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], "Remaining") || !strings.HasSuffix(lines[2], "80%") {
		t.Errorf("unexpected remaining line %q", lines[2])
	}
	// 15% of 40 cells is 6.
	if got := strings.Count(lines[1], "█"); got != 6 {
		t.Errorf("Fernanda bar has %d cells, want 6", got)
	}
	if got := strings.Count(lines[2], "░"); got != 32 {
		t.Errorf("remaining bar has %d cells, want 32", got)
	}
}

func TestRenderChartFullyAllocated(t *testing.T) {
	var buf bytes.Buffer
	RenderChart(&buf, models.Summary{
		Participants: []models.Participant{{ID: 1, FirstName: "Ana", LastName: "Lima", Percentage: 100}},
	})
	if strings.Contains(buf.String(), "Remaining") {
		t.Errorf("expected no remaining bar:\n%s", buf.String())
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation is shown verbatim",
			err:  &client.ValidationError{Message: "A participant with the same first name and last name already exists."},
			want: "A participant with the same first name and last name already exists.",
		},
		{name: "not found", err: client.ErrNotFound, want: "Participant not found"},
		{name: "server error", err: &client.ServerError{StatusCode: 500}, want: msgUnexpected},
		{name: "transport error", err: errors.New("connection refused"), want: msgNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
