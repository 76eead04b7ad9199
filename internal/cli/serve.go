package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/clustersketch/clustersketch/pkg/config"
	cserrors "github.com/clustersketch/clustersketch/pkg/errors"
	"github.com/clustersketch/clustersketch/pkg/layout"
	"github.com/clustersketch/clustersketch/pkg/model"
	"github.com/clustersketch/clustersketch/pkg/render/sink"
	"github.com/clustersketch/clustersketch/pkg/store"
)

// serveCommand creates the serve command: an HTTP server rendering
// figures on demand from a directory of cluster blobs.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		dir     string
		cfgPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered figures over HTTP",
		Long: `Serve rendered figures over HTTP.

The server loads .bgc/.bgccase blobs from --dir at startup and renders
figures on demand:

	GET /healthz              liveness probe
	GET /clusters             cluster names, one per line
	GET /figures/{name}.svg   rendered figure for one cluster

Figures are rendered per request from the in-memory clusters, so
replacing the blob files requires a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := c.loadStyle(cfgPath)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, dir, style)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory of .bgc/.bgccase blobs")
	cmd.Flags().StringVar(&cfgPath, "cfg", "", "arrow style TOML file")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, dir string, style config.ArrowStyle) error {
	clusters, err := loadBlobDir(dir)
	if err != nil {
		return err
	}
	if len(clusters) == 0 {
		return cserrors.New(cserrors.ErrCodeInvalidInput, "no cluster blobs found in %s", dir)
	}
	c.Logger.Info("loaded clusters", "count", len(clusters), "dir", dir)

	srv := &figureServer{clusters: clusters, style: style}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)
	r.Get("/healthz", srv.handleHealth)
	r.Get("/clusters", srv.handleClusters)
	r.Get("/figures/{name}.svg", srv.handleFigure)

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger attaches the CLI logger to each request context and logs
// the request line at debug level.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), c.Logger)))
		c.Logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

type figureServer struct {
	clusters map[string]*model.Cluster
	style    config.ArrowStyle
}

func (s *figureServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *figureServer) handleClusters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	names := make([]string, 0, len(s.clusters))
	for name := range s.clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}

func (s *figureServer) handleFigure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cluster, ok := s.clusters[name]
	if !ok {
		http.Error(w, "unknown cluster: "+name, http.StatusNotFound)
		return
	}

	results, err := layout.Compute([]*model.Cluster{cluster}, nil, layout.Options{
		Scale:  s.style.Scale,
		Gap:    s.style.GeneGap,
		Logger: loggerFromContext(r.Context()),
	})
	if err != nil {
		http.Error(w, cserrors.UserMessage(err), http.StatusInternalServerError)
		return
	}

	data := sink.RenderSVG(
		[]sink.Row{{Cluster: cluster, Layout: results[0]}},
		sink.WithOptions(s.style),
	)

	// Rendering is deterministic, so the content hash is a stable ETag.
	etag := `"` + store.Fingerprint(data) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(data)
}

// loadBlobDir loads every blob under dir, keyed by cluster name. A
// duplicate name keeps the later file.
func loadBlobDir(dir string) (map[string]*model.Cluster, error) {
	entries, err := expandBlobs(dir)
	if err != nil {
		return nil, err
	}
	clusters := make(map[string]*model.Cluster)
	for _, path := range entries {
		loaded, err := loadBlob(path)
		if err != nil {
			return nil, err
		}
		for _, rec := range loaded {
			clusters[rec.Cluster.Name()] = rec.Cluster
		}
	}
	return clusters, nil
}

// expandBlobs lists blob files under dir, non-recursively.
func expandBlobs(dir string) ([]string, error) {
	var paths []string
	for _, ext := range []string{".bgc", ".bgccase"} {
		matched, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, cserrors.Wrap(cserrors.ErrCodeNotFound, err, "reading %s", dir)
		}
		paths = append(paths, matched...)
	}
	sort.Strings(paths)
	return paths, nil
}
