// Package dashboard serves the interactive Global South GDP dashboard over
// HTTP: summary cards, animated charts, the selected-year pie, downloads and
// the raw data table.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"globalsouth/internal/config"
	"globalsouth/internal/dataset"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the dashboard from the cached snapshot of one data file.
type Server struct {
	cfg    *config.Config
	cache  *dataset.Cache
	logger *zap.Logger
	tmpl   *template.Template
}

// New builds a Server. cache must validate against cfg.Schema().
func New(cfg *config.Config, cache *dataset.Cache, logger *zap.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pct": func(v float64) string {
			if math.IsNaN(v) {
				return "–"
			}
			return fmt.Sprintf("%.2f%%", v)
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{cfg: cfg, cache: cache, logger: logger, tmpl: tmpl}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleIndex)
	r.Route("/charts", func(r chi.Router) {
		r.Get("/share.png", s.handleSharePNG)
		r.Get("/share.gif", s.handleShareGIF)
		r.Get("/regions.gif", s.handleRegionsGIF)
		r.Get("/pie.png", s.handlePie)
	})
	r.Get("/download/data.csv", s.handleCSV)
	r.Get("/download/data.xlsx", s.handleXLSX)
	r.Get("/report.md", s.handleReport)

	return r
}

// Run serves until ctx is cancelled. With watch_files enabled the cached
// snapshot is dropped as soon as the data file changes.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Server.WatchFiles {
		go func() {
			if err := dataset.Watch(ctx, s.cache, s.cfg.DataPath, s.logger); err != nil {
				s.logger.Warn("data file watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", srv.Addr), zap.String("data", s.cfg.DataPath))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// snapshot returns the cached snapshot, logging any fatal load or schema
// error before handing it back.
func (s *Server) snapshot(r *http.Request) (*dataset.Snapshot, error) {
	snap, err := s.cache.Get(s.cfg.DataPath)
	if err != nil {
		s.logger.Error("data unavailable",
			zap.String("path", s.cfg.DataPath),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// writeBuffered renders into memory first so a failure can still produce a
// clean error response.
func (s *Server) writeBuffered(w http.ResponseWriter, contentType string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(buf.Bytes())
}
