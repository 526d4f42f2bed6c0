package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/flexkit/flexer/pkg/pipeline"
)

// serveCommand creates the serve command exposing layouts over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [manifest.toml]",
		Short: "Serve a manifest's layout over HTTP",
		Long: `Serve a manifest's layout over HTTP.

Endpoints:
  GET /healthz         liveness probe
  GET /layout          the layout as JSON (?width=&height= override the frame)
  GET /layout/{name}   one element's rectangle as JSON
  GET /svg             the layout as SVG (?labels=1 draws names, ?scale=N)

The manifest is re-read on every request, so edits are picked up without a
restart; the result cache keeps unchanged manifests cheap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, manifestPath, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	s := &layoutServer{runner: runner, manifestPath: manifestPath}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/layout", s.handleLayout)
	r.Get("/layout/{name}", s.handleElement)
	r.Get("/svg", s.handleSVG)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving layout", "addr", addr, "manifest", manifestPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// layoutServer handles layout requests against a fixed manifest path.
type layoutServer struct {
	runner       *pipeline.Runner
	manifestPath string
}

func (s *layoutServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *layoutServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatJSON, "application/json")
}

func (s *layoutServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatSVG, "image/svg+xml")
}

// handleElement serves a single named element's rectangle.
func (s *layoutServer) handleElement(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	loaded, err := s.runner.Load(r.Context(), pipeline.Options{ManifestPath: s.manifestPath})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts := pipeline.Options{
		ManifestPath: s.manifestPath,
		Width:        queryInt(r, "width"),
		Height:       queryInt(r, "height"),
	}
	if err := s.runner.ComputeLayout(r.Context(), loaded, opts); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	id, ok := loaded.IDs[name]
	if !ok {
		http.Error(w, "unknown element: "+name, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loaded.Engine.Rect(id))
}

func (s *layoutServer) serveArtifact(w http.ResponseWriter, r *http.Request, format, contentType string) {
	opts := pipeline.Options{
		ManifestPath: s.manifestPath,
		Formats:      []string{format},
		Width:        queryInt(r, "width"),
		Height:       queryInt(r, "height"),
		Scale:        queryInt(r, "scale"),
		Labels:       queryBool(r, "labels"),
		Refresh:      queryBool(r, "refresh"),
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(result.Artifacts[format])
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
