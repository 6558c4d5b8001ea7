package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Togather-Foundation/venues/internal/api/handlers"
	"github.com/Togather-Foundation/venues/internal/api/middleware"
	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies are the runtime collaborators the router serves.
type Dependencies struct {
	Service *venues.Service
	// Storage is pinged by /readyz. Nil for in-process backends.
	Storage handlers.Pinger
	Build   BuildInfo
}

func NewRouter(cfg config.Config, logger zerolog.Logger, deps Dependencies) http.Handler {
	env := cfg.Environment
	venuesHandler := handlers.NewVenuesHandler(deps.Service, env, cfg.Server.BaseURL)
	eventsHandler := handlers.NewEventsHandler(deps.Service, env)
	consistencyHandler := handlers.NewConsistencyHandler(deps.Service, env)
	healthChecker := handlers.NewHealthChecker(deps.Storage, cfg.Storage.Backend, deps.Build.Version, deps.Build.GitCommit)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", healthChecker.Readyz())
	mux.Handle("/version", VersionHandler(deps.Build))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/api/v1/openapi.json", OpenAPIHandler())

	mux.Handle("/api/v1/venues", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(venuesHandler.List),
		http.MethodPost: http.HandlerFunc(venuesHandler.Create),
	}))
	mux.Handle("/api/v1/venues/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(venuesHandler.Get),
		http.MethodPut:    http.HandlerFunc(venuesHandler.Rename),
		http.MethodDelete: http.HandlerFunc(venuesHandler.Delete),
	}))
	mux.Handle("/api/v1/venues/{id}/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(venuesHandler.Events),
		http.MethodPost: http.HandlerFunc(venuesHandler.CreateEvent),
	}))
	mux.Handle("/api/v1/venues/{venueId}/events/{eventId}", methodMux(map[string]http.Handler{
		http.MethodPut:    http.HandlerFunc(venuesHandler.Schedule),
		http.MethodDelete: http.HandlerFunc(venuesHandler.Unschedule),
	}))

	editEvent := http.HandlerFunc(eventsHandler.Edit)
	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.List),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPatch:  editEvent,
		http.MethodPut:    editEvent,
		http.MethodDelete: http.HandlerFunc(eventsHandler.Delete),
	}))
	mux.Handle("/api/v1/events/{id}/venue", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Venue),
	}))
	mux.Handle("/api/v1/consistency", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(consistencyHandler.Audit),
	}))

	// Outermost first. Metrics reads the matched pattern off the request after
	// the mux runs, so nothing between it and the mux may replace the request.
	var handler http.Handler = mux
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.RateLimit(cfg.RateLimit, env)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.Tracing(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
