package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/participants" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"participants":[{"id_participant":1,"first_name":"Carlos","last_name":"Moura","percentage":5}],"remaining":95}`))
	})

	summary, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if summary.Remaining != 95 || len(summary.Participants) != 1 || summary.Participants[0].ID != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestAddSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad body: %v", err)
			return
		}
		if body["first_name"] != "Carlos" || body["last_name"] != "Moura" || body["percentage"] != float64(5) {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id_participant":7,"first_name":"Carlos","last_name":"Moura","percentage":5}`))
	})

	p, err := c.Add(context.Background(), "Carlos", "Moura", 5)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if p.ID != 7 {
		t.Errorf("ID = %d, want 7", p.ID)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "400 is a validation error with the server message",
			status: http.StatusBadRequest,
			body:   `{"error":"A participant with the same first name and last name already exists."}`,
			check: func(t *testing.T, err error) {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
				if vErr.Message != "A participant with the same first name and last name already exists." {
					t.Errorf("message = %q", vErr.Message)
				}
			},
		},
		{
			name:   "404 is ErrNotFound",
			status: http.StatusNotFound,
			body:   `{"error":"Participant not found"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
			},
		},
		{
			name:   "500 is a server error",
			status: http.StatusInternalServerError,
			body:   `{"error":"Failed to update participant"}`,
			check: func(t *testing.T, err error) {
				var sErr *ServerError
				if !errors.As(err, &sErr) {
					t.Fatalf("expected *ServerError, got %v", err)
				}
				if sErr.StatusCode != http.StatusInternalServerError {
					t.Errorf("status = %d", sErr.StatusCode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.UpdatePercentage(context.Background(), 1, 10)
			tt.check(t, err)
		})
	}
}

func TestDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/participants/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"affectedRows":1}`))
	})

	if err := c.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).List(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Error("transport error must not be a validation error")
	}
}
