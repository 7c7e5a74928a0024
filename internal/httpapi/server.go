// Package httpapi serves the pantry use cases over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/pantry/internal/app"
	"github.com/alexanderramin/pantry/internal/auth"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Services *app.Services
	Verifier *auth.Verifier
	Logger   *slog.Logger
	Gzip     bool
	// Registry, when set, receives HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Services == nil || opts.Verifier == nil {
		return nil, errors.New("services and verifier are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(logger))
	if opts.Registry != nil {
		m, err := newRequestMetrics(opts.Registry)
		if err != nil {
			return nil, fmt.Errorf("registering http metrics: %w", err)
		}
		r.Use(m.handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	if opts.Gzip {
		r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		abortWith(c, http.StatusNotFound, "Not found")
	})

	h := &handlers{svc: opts.Services}
	v1 := r.Group("/api/v1", JWTAuth(opts.Verifier))
	{
		v1.GET("/inventory", h.listInventory)
		v1.POST("/inventory", h.createInventory)
		v1.PUT("/inventory/:id", h.updateInventory)
		v1.PATCH("/inventory/:id/quantity", h.setInventoryQuantity)
		v1.DELETE("/inventory/:id", h.deleteInventory)

		v1.GET("/projects", h.listProjects)
		v1.POST("/projects", h.createProject)
		v1.GET("/projects/:id", h.getProject)
		v1.PUT("/projects/:id", h.updateProject)
		v1.DELETE("/projects/:id", h.deleteProject)
		v1.GET("/projects/:id/form", h.getProjectForm)
		v1.POST("/projects/:id/fulfill", h.fulfillProject)
		v1.GET("/projects/:id/files", h.listFiles)
		v1.POST("/projects/:id/files", h.attachFile)

		v1.POST("/materials/fulfill", h.fulfillMaterials)

		v1.GET("/reports/projects", h.projectReport)
		v1.GET("/reports/projects.xlsx", h.projectReportXLSX)

		v1.GET("/files/:id", h.downloadFile)
		v1.DELETE("/files/:id", h.deleteFile)
	}
	return r, nil
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
