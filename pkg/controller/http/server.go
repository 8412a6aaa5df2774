package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/gradeview/frontend"
	"github.com/secmon-lab/gradeview/pkg/domain/interfaces"
)

// DatasetAssetPath is where the raw dataset file is exposed
const DatasetAssetPath = "/LARGE-DATA.json"

// Server represents the HTTP server
type Server struct {
	*http.Server
	router    chi.Router
	dashboard interfaces.Dashboard
}

type serverOptions struct {
	datasetFile string
	frontend    http.FileSystem
}

// Option configures NewServer
type Option func(*serverOptions)

// WithDatasetFile exposes the JSON dataset file as a static asset
func WithDatasetFile(path string) Option {
	return func(o *serverOptions) {
		o.datasetFile = path
	}
}

// WithFrontend serves fsys instead of the embedded page
func WithFrontend(fsys http.FileSystem) Option {
	return func(o *serverOptions) {
		o.frontend = fsys
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, dashboard interfaces.Dashboard, opts ...Option) (*Server, error) {
	var options serverOptions
	for _, opt := range opts {
		opt(&options)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	if options.datasetFile != "" {
		path := options.datasetFile
		router.Get(DatasetAssetPath, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			http.ServeFile(w, r, path)
		})
	}

	api := newAPIHandler(dashboard)
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Get("/dataset", api.handleDataset)
		r.Get("/terms", api.handleTerms)
		r.Get("/series", api.handleSeries)
		r.Get("/series.csv", api.handleSeriesCSV)
		r.Get("/chart.png", api.handleChart)
	})

	fsys := options.frontend
	if fsys == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Embedded frontend not available, using fallback page", "error", err)
		} else {
			fsys = embedded
		}
	}

	if fsys != nil {
		spa, err := NewSPAHandler(fsys)
		if err != nil {
			return nil, err
		}
		router.Handle("/*", spa)
	} else {
		router.Get("/*", handleFallbackHome)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:    router,
		dashboard: dashboard,
	}, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "gradeview",
	})
}

func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Grade Distribution</title></head>
<body>
    <h1>Grade Distribution</h1>
    <p>The dashboard page is not bundled in this build. The API is available under <a href="/api/dataset">/api</a>.</p>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
