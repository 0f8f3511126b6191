// Package dashboard renders the participant summary for a terminal: a table
// of participants and a bar chart of their shares plus the remaining quota.
package dashboard

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/mmynk/allotment/internal/allocation"
	"github.com/mmynk/allotment/internal/client"
	"github.com/mmynk/allotment/internal/models"
)

// chartWidth is the number of cells a 100% bar occupies.
const chartWidth = 40

const (
	msgUnexpected = "An unexpected error occurred. Please try again later."
	msgNetwork    = "Network error. Please check your internet connection."
)

// Render writes the participant table followed by the share chart.
func Render(w io.Writer, summary models.Summary) {
	RenderTable(w, summary.Participants)
	fmt.Fprintln(w)
	RenderChart(w, summary)
}

// RenderTable writes participants as a numbered table. The first column is
// the display position; the participant ID is shown separately for use with
// the set and rm commands.
func RenderTable(w io.Writer, participants []models.Participant) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "ID", "First Name", "Last Name", "Participation"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, p := range participants {
		table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(p.ID, 10),
			p.FirstName,
			p.LastName,
			allocation.FormatPercentage(p.Percentage) + "%",
		})
	}
	table.Render()
}

// RenderChart writes one bar per participant and, when some quota is left,
// a final "Remaining" bar.
func RenderChart(w io.Writer, summary models.Summary) {
	type slice struct {
		label     string
		value     float64
		remaining bool
	}

	slices := make([]slice, 0, len(summary.Participants)+1)
	for _, p := range summary.Participants {
		slices = append(slices, slice{label: p.FirstName + " " + p.LastName, value: p.Percentage})
	}
	if summary.Remaining > 0 {
		slices = append(slices, slice{label: "Remaining", value: summary.Remaining, remaining: true})
	}

	labelWidth := 0
	for _, s := range slices {
		labelWidth = max(labelWidth, len([]rune(s.label)))
	}

	for _, s := range slices {
		fill := "█"
		if s.remaining {
			fill = "░"
		}
		fmt.Fprintf(w, "%-*s %s %s%%\n",
			labelWidth, s.label,
			bar(s.value, fill),
			allocation.FormatPercentage(s.value),
		)
	}
}

func bar(percentage float64, fill string) string {
	cells := int(math.Round(percentage / allocation.Capacity * chartWidth))
	cells = min(max(cells, 0), chartWidth)
	return strings.Repeat(fill, cells) + strings.Repeat(" ", chartWidth-cells)
}

// Message turns a client error into the text shown to the user. Validation
// messages from the server are shown verbatim.
func Message(err error) string {
	var validationErr *client.ValidationError
	var serverErr *client.ServerError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, client.ErrNotFound):
		return "Participant not found"
	case errors.As(err, &serverErr):
		return msgUnexpected
	default:
		return msgNetwork
	}
}
