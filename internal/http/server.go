package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"txboard/internal/cache"
	"txboard/internal/chart"
	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/middleware/ratelimit"
	"txboard/internal/middleware/security"
	"txboard/internal/middleware/trace"
	"txboard/internal/store"
	appweb "txboard/web"
)

// Options configures a Server. Store is required; nil caches disable caching.
type Options struct {
	Addr           string
	Store          *store.Store
	Logger         *slog.Logger
	Renderer       *chart.Renderer
	AggregateCache cache.Cache[core.Aggregate]
	ChartCache     *cache.BlobCache
	RateLimitRPM   int
	TrustedProxies []string
}

type Server struct {
	http.Server
	store     *store.Store
	templates *template.Template
	logger    *applog.Logger
	renderer  *chart.Renderer

	aggCache   cache.Cache[core.Aggregate]
	chartCache *cache.BlobCache

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime          time.Time
	filterRequests  int64
	aggregateHits   int64
	aggregateMisses int64
	chartHits       int64
	chartMisses     int64
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Renderer == nil {
		opts.Renderer = chart.NewRenderer(0, 0)
	}
	logger := applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: opts.Logger.Handler()})

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}
	s := &Server{
		store:            opts.Store,
		logger:           logger,
		renderer:         opts.Renderer,
		aggCache:         opts.AggregateCache,
		chartCache:       opts.ChartCache,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitRPM}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"amount": core.FormatAmount,
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware.Middleware)
	r.Use(s.securityDetector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	// Probes and metrics stay outside the rate limit.
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit))

		r.Get("/", s.handleIndex)
		r.Get("/data/data.json", s.handleDataset)

		r.Route("/ui", func(r chi.Router) {
			r.Get("/transactions", s.handleTransactionsPartial)
			r.Get("/customers/{customerID}", s.handleCustomerModal)
		})

		r.Get("/customers/{customerID}/chart.png", s.handleCustomerChart)

		r.Route("/api", func(r chi.Router) {
			r.Get("/transactions", s.handleAPITransactions)
			r.Get("/customers", s.handleAPICustomers)
			r.Get("/customers/{customerID}", s.handleAPICustomer)
			r.Get("/customers/{customerID}/aggregate", s.handleAPIAggregate)
		})
	})
	return r
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// Shutdown stops background goroutines and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	err := s.Server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
