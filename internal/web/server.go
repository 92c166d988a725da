package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/outreach/internal/config"
	"github.com/hpungsan/outreach/internal/logging"
	"github.com/hpungsan/outreach/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures the web UI.
type Options struct {
	Tracker *ops.Tracker
	Config  *config.Config
	Log     logging.Logger
	Version string

	// Auth is required when Config.Auth.Required is set; nil leaves
	// every route open.
	Auth Authenticator
}

// NewHandler builds the routed, header-wrapped handler for the UI.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("web: tracker is required")
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	if opts.Config.Auth.Required && opts.Auth == nil {
		return nil, fmt.Errorf("web: auth.required is set but no authenticator is configured")
	}
	if !opts.Config.Auth.Required {
		opts.Auth = nil
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	renderer, err := NewRenderer(templateSub, opts.Version, opts.Log, opts.Tracker.Now)
	if err != nil {
		return nil, err
	}

	h := &Handlers{
		tracker:  opts.Tracker,
		auth:     opts.Auth,
		cfg:      opts.Config,
		renderer: renderer,
		log:      opts.Log,
	}

	mux := http.NewServeMux()
	guard := h.requireSession

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/contacts", http.StatusFound)
	})
	mux.HandleFunc("GET /contacts", guard(h.HandleList))
	mux.HandleFunc("GET /contacts/new", guard(h.HandleNew))
	mux.HandleFunc("GET /contacts/alerts", guard(h.HandleAlerts))
	mux.HandleFunc("POST /contacts", guard(h.HandleCreate))
	mux.HandleFunc("POST /contacts/bulk", guard(h.HandleBulk))
	mux.HandleFunc("GET /contacts/{id}", guard(h.HandleDetail))
	mux.HandleFunc("GET /contacts/{id}/edit", guard(h.HandleEdit))
	mux.HandleFunc("POST /contacts/{id}", guard(h.HandleUpdate))
	mux.HandleFunc("DELETE /contacts/{id}", guard(h.HandleDelete))
	mux.HandleFunc("POST /contacts/{id}/delete", guard(h.HandleDelete))

	if h.auth != nil {
		mux.HandleFunc("GET /login", h.HandleLoginPage)
		mux.HandleFunc("POST /login", h.HandleLogin)
		mux.HandleFunc("POST /signup", h.HandleSignup)
		mux.HandleFunc("POST /logout", h.HandleLogout)
	}

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return securityHeaders(mux), nil
}

// NewServer creates the HTTP server for the web UI on cfg.Web.
func NewServer(opts Options) (*http.Server, error) {
	handler, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Web.Bind, cfg.Web.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info(ctx, "web UI running", "url", "http://"+srv.Addr)
	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn(ctx, "server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
