// Package web serves the single-day dashboard over HTTP. Every request loads
// the export afresh, so edits to the CSV show up on reload.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/moneytrail/moneytrail/internal/dashboard"
	"github.com/moneytrail/moneytrail/internal/export"
	"github.com/moneytrail/moneytrail/internal/ledger"
	"github.com/moneytrail/moneytrail/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadFunc produces a fresh load result.
type LoadFunc func() (*ledger.Result, error)

// Options configures the server.
type Options struct {
	Dashboard dashboard.Options
	Top       int
	Threshold decimal.Decimal
	Logger    zerolog.Logger
}

// Server is the dashboard HTTP handler.
type Server struct {
	load LoadFunc
	opts Options
	tmpl *template.Template
	mux  chi.Router
}

// NewServer builds the router.
func NewServer(load LoadFunc, opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"money":  money.Format,
		"signed": money.FormatSigned,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{load: load, opts: opts, tmpl: tmpl}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/daily", s.handleDaily)
		r.Get("/day/{date}", s.handleDay)
		r.Get("/merchants", s.handleMerchants)
		r.Get("/high-value", s.handleHighValue)
	})
	s.mux = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.opts.Logger.Info().Str("addr", addr).Msg("dashboard listening")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// dashboardFor loads the export and wraps it, writing a 500 on failure.
func (s *Server) dashboardFor(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, *ledger.Result, bool) {
	res, err := s.load()
	if err != nil {
		s.opts.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("loading export")
		http.Error(w, "failed to load bank export", http.StatusInternalServerError)
		return nil, nil, false
	}
	return dashboard.New(res, s.opts.Dashboard), res, true
}

func (s *Server) thresholdParam(r *http.Request) (decimal.Decimal, error) {
	raw := r.URL.Query().Get("threshold")
	if raw == "" {
		return s.opts.Threshold, nil
	}
	return decimal.NewFromString(raw)
}

func (s *Server) topParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return s.opts.Top, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("top must be a positive integer")
	}
	return n, nil
}

func parseDate(raw string) (civil.Date, error) {
	return civil.ParseDate(raw)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := export.WriteJSON(w, v); err != nil {
		s.opts.Logger.Error().Err(err).Msg("writing JSON response")
	}
}
