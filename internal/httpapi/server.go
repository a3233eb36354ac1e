// Package httpapi exposes a read-only admin surface for a running emitter:
// subscription counts, dispatch depth, health and Prometheus metrics.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventist/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Info() map[string]int
	Depth() int
	Modules() []string
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsMethods(),
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/info", infoHandler(svc))
	r.Get("/info/{event}", eventInfoHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// infoHandler godoc
// @Summary      Subscription counts
// @Description  Handler count per event, current dispatch depth and connected modules.
// @Produce      json
// @Success      200  {object}  types.InfoResponse
// @Router       /info [get]
func infoHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modules := svc.Modules()
		if modules == nil {
			modules = []string{}
		}
		writeJSON(w, types.InfoResponse{Events: svc.Info(), Depth: svc.Depth(), Modules: modules})
	}
}

// eventInfoHandler godoc
// @Summary      Handlers of one event
// @Produce      json
// @Param        event  path  string  true  "Event name"
// @Success      200  {object}  types.EventInfoResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /info/{event} [get]
func eventInfoHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := chi.URLParam(r, "event")
		n, ok := svc.Info()[event]
		if !ok {
			writeJSONError(w, http.StatusNotFound, "no handlers for event: "+event)
			return
		}
		writeJSON(w, types.EventInfoResponse{Event: event, Handlers: n})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// EventNames returns the events of info in lexical order.
func EventNames(info map[string]int) []string {
	names := make([]string, 0, len(info))
	for name := range info {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
