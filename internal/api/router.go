package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/pkg/logger"
)

// Router builds the HTTP routes of the service
type Router struct {
	handler *Handler
	metrics http.Handler
	config  *config.Config
	logger  *logger.Logger
}

// NewRouter creates a new router. metricsHandler may be nil to disable /metrics.
func NewRouter(handler *Handler, metricsHandler http.Handler, cfg *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler: handler,
		metrics: metricsHandler,
		config:  cfg,
		logger:  logger.Named("router"),
	}
}

// Routes returns the root handler
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(rt.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", rt.handler.GetHealth)
		r.Get("/airports", rt.handler.GetAirports)

		r.Route("/flights", func(r chi.Router) {
			r.Get("/", rt.handler.GetFlights)
			r.Get("/refresh", rt.handler.RefreshFlights)
			r.Post("/refresh", rt.handler.RefreshFlights)
			r.Get("/offers", rt.handler.SearchOffers)
			r.Get("/history", rt.handler.GetHistory)
			r.Get("/{iata}", rt.handler.GetFlight)
		})
	})

	if rt.metrics != nil {
		path := rt.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, rt.metrics)
	}

	if dir := rt.config.Server.StaticFilesDir; dir != "" {
		r.Handle("/*", NewStaticFileHandler(dir, rt.logger))
	}

	rt.logger.Info("Registered routes",
		logger.Bool("metrics", rt.metrics != nil),
		logger.String("static_dir", rt.config.Server.StaticFilesDir))

	return r
}

// requestLogger logs every request with its status and latency
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Debug("HTTP request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.Status()),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Duration("duration", time.Since(start)),
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.String("remote_addr", r.RemoteAddr))
		})
	}
}
