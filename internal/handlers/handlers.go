// Package handlers exposes the REST API. Routes are registered in router.go;
// each handler decodes its input, calls into core, and maps domain errors to
// HTTP statuses.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YC815/chicken-game-backend/internal/core"
	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

// Handler carries the services every route needs.
type Handler struct {
	store      *store.Store
	rooms      *core.RoomManager
	rounds     *core.RoundManager
	messages   *core.MessageService
	indicators *core.IndicatorService
	snapshot   *core.SnapshotBuilder
	log        *slog.Logger
}

// New creates a Handler.
func New(s *store.Store, log *slog.Logger) *Handler {
	return &Handler{
		store:      s,
		rooms:      core.NewRoomManager(s, log),
		rounds:     core.NewRoundManager(s, log),
		messages:   core.NewMessageService(s, log),
		indicators: core.NewIndicatorService(s, log),
		snapshot:   core.NewSnapshotBuilder(s),
		log:        log,
	}
}

var notFoundErrors = []error{
	game.ErrRoomNotFound,
	game.ErrRoundNotFound,
	game.ErrPlayerNotFound,
	game.ErrPairNotFound,
	game.ErrNoMessage,
	game.ErrNoIndicator,
	game.ErrResultNotReady,
	game.ErrNoActiveRound,
}

var badRequestErrors = []error{
	game.ErrInvalidTransition,
	game.ErrRoomNotAccepting,
	game.ErrInvalidPlayerCount,
	game.ErrMaxRoundsReached,
	game.ErrInvalidChoice,
	game.ErrInvalidStatus,
	game.ErrInvalidNickname,
	game.ErrInvalidMessage,
	game.ErrMessageNotAllowed,
	game.ErrMessageAlreadySent,
	game.ErrIndicatorsAssigned,
	game.ErrIndicatorsTooEarly,
	game.ErrNotParticipant,
}

// respondJSON writes v as the JSON response body.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// respondError maps a domain error onto {"detail": msg} with the right status.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			status = http.StatusNotFound
			break
		}
	}
	if status == http.StatusInternalServerError {
		for _, target := range badRequestErrors {
			if errors.Is(err, target) {
				status = http.StatusBadRequest
				break
			}
		}
	}

	detail := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		detail = "internal server error"
	}
	h.respondJSON(w, status, map[string]string{"detail": detail})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
