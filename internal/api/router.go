// Package api exposes the participant service over HTTP/JSON.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/allotment/internal/middleware"
)

// routePrefixes lists the mount points of the participant routes. The browser
// frontend calls them under "/api".
var routePrefixes = []string{"", "/api"}

// Options configures NewRouter.
type Options struct {
	// StaticPath is a directory with a built frontend. Empty disables it.
	StaticPath string

	// CORSOrigin is the allowed browser origin ("*" for any).
	CORSOrigin string

	// Registry receives the HTTP metrics and backs GET /metrics.
	// A fresh registry is created when nil.
	Registry *prometheus.Registry
}

// NewRouter builds the full handler chain: CORS, logging, metrics and routes.
func NewRouter(svc ParticipantService, opts Options) http.Handler {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}

	mux := http.NewServeMux()
	participants := NewParticipantHandler(svc)

	for _, prefix := range routePrefixes {
		mux.HandleFunc("GET "+prefix+"/participants", participants.ListParticipants)
		mux.HandleFunc("GET "+prefix+"/participants/{id}", participants.GetParticipant)
		mux.HandleFunc("POST "+prefix+"/participants", participants.CreateParticipant)
		mux.HandleFunc("PUT "+prefix+"/participants/{id}", participants.UpdateParticipant)
		mux.HandleFunc("DELETE "+prefix+"/participants/{id}", participants.DeleteParticipant)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))

	if opts.StaticPath != "" {
		mux.Handle("GET /", NewStaticHandler(opts.StaticPath))
	} else {
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("allotment API v1"))
		})
	}

	metrics := middleware.NewMetrics(opts.Registry)
	return middleware.CORS(opts.CORSOrigin)(middleware.Logging(metrics.Wrap(mux)))
}
