package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/YC815/chicken-game-backend/internal/config"
	"github.com/YC815/chicken-game-backend/internal/middleware"
)

// NewRouter wires the middleware stack and every API route. The {room}
// parameter is a room id except on the lookup, join and qr routes, which take
// the 6-character join code.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestSizeLimiter(cfg.Server.MaxRequestSize))

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	r.Use(rateLimiter.Middleware())

	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.CreateRoom)
			r.Get("/", h.ListRooms)

			r.Route("/{room}", func(r chi.Router) {
				r.Get("/", h.GetRoom)
				r.Delete("/", h.DeleteRoom)
				r.Post("/join", h.JoinRoom)
				r.Get("/qr", h.JoinQR)

				r.Post("/start", h.StartGame)
				r.Post("/end", h.EndGame)
				r.Get("/summary", h.Summary)
				r.Get("/state", h.State)
				r.Get("/events/since/{event_id}", h.EventsSince)

				r.Post("/indicators/assign", h.AssignIndicators)
				r.Get("/indicator", h.GetIndicator)

				r.Route("/rounds", func(r chi.Router) {
					r.Post("/next", h.NextRound)
					r.Get("/current", h.CurrentRound)

					r.Route("/{number}", func(r chi.Router) {
						r.Get("/pair", h.GetPair)
						r.Post("/action", h.SubmitAction)
						r.Post("/publish", h.PublishRound)
						r.Post("/skip", h.SkipRound)
						r.Get("/result", h.RoundResult)
						r.Post("/message", h.SendMessage)
						r.Get("/message", h.GetMessage)
					})
				})
			})
		})
	})

	return r
}

// Root responds with service identification for load balancer probes.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"service": "chicken-game-backend",
		"status":  "running",
	})
}

// Health reports liveness, including database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"detail": "database unreachable",
		})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
