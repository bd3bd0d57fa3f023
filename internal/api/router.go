package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/openhwmon/nct7904-go/internal/auth"
	"github.com/openhwmon/nct7904-go/internal/models"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Controller, authSvc *auth.Service, bus EventBus, info models.Info) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus, info: info}

	r.Group(func(r chi.Router) {
		r.Use(authSvc.Middleware)

		// Full snapshot
		r.Get("/api", h.getState)
		r.Get("/api/", h.getState)

		// Per-class readings
		r.Get("/api/voltages", h.getVoltages)
		r.Get("/api/fans", h.getFans)
		r.Get("/api/temps", h.getTemps)

		// Fan outputs
		r.Get("/api/pwm", h.getPWMs)
		r.Get("/api/pwm/{id}", h.getPWM)
		r.Patch("/api/pwm/{id}", h.setPWM)

		// System
		r.Get("/api/info", h.getInfo)

		// SSE
		r.Get("/api/subscribe", h.sseEvents)
	})

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, api-key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
