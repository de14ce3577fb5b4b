package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/YC815/chicken-game-backend/internal/core"
	"github.com/YC815/chicken-game-backend/internal/game"
	"github.com/YC815/chicken-game-backend/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type roomSummary struct {
	RoomID       string          `json:"room_id"`
	Code         string          `json:"code"`
	Status       game.RoomStatus `json:"status"`
	CurrentRound int             `json:"current_round"`
	PlayerCount  int             `json:"player_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newRoomSummary(room *store.Room, playerCount int) roomSummary {
	return roomSummary{
		RoomID:       room.ID,
		Code:         room.Code,
		Status:       room.Status,
		CurrentRound: room.CurrentRound,
		PlayerCount:  playerCount,
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

// CreateRoom makes a new room with its host player.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	room, host, err := h.rooms.Create(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"room_id":        room.ID,
		"code":           room.Code,
		"host_player_id": host.ID,
	})
}

// ListRooms returns a page of rooms, newest activity first.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	var status game.RoomStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := game.ParseRoomStatus(raw)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		status = parsed
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "offset must be a non-negative integer"})
			return
		}
		offset = n
	}

	page, err := h.rooms.List(r.Context(), status, limit, offset)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	rooms := make([]roomSummary, 0, len(page.Rooms))
	for _, listing := range page.Rooms {
		rooms = append(rooms, newRoomSummary(listing.Room, listing.PlayerCount))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"rooms":  rooms,
		"total":  page.Total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetRoom looks up a room by its join code.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "room")
	room, count, err := h.rooms.RoomByCode(r.Context(), code)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, newRoomSummary(room, count))
}

// DeleteRoom removes a room and everything under it.
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room")
	if err := h.rooms.Delete(r.Context(), roomID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "deleted",
		"room_id": roomID,
	})
}

// JoinRoom adds a player to a waiting room by code.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	code := chi.URLParam(r, "room")
	player, err := h.rooms.Join(r.Context(), code, req.Nickname)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"player_id":    player.ID,
		"room_id":      player.RoomID,
		"display_name": player.DisplayName,
	})
}

// StartGame begins play and creates round 1.
func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.Start(r.Context(), chi.URLParam(r, "room")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NextRound advances to the next round.
func (h *Handler) NextRound(w http.ResponseWriter, r *http.Request) {
	number, err := h.rooms.NextRound(r.Context(), chi.URLParam(r, "room"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"round_number": number,
	})
}

// EndGame finishes the room.
func (h *Handler) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.End(r.Context(), chi.URLParam(r, "room")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Summary returns the final ranking and strategy stats.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := core.Summary(r.Context(), h.store, chi.URLParam(r, "room"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, summary)
}

// State is the versioned polling snapshot.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	var version int64
	if raw := r.URL.Query().Get("version"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "version must be a non-negative integer"})
			return
		}
		version = n
	}
	playerID := r.URL.Query().Get("player_id")

	resp, err := h.snapshot.Build(r.Context(), chi.URLParam(r, "room"), version, playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// EventsSince returns audit events after the given id, oldest first.
func (h *Handler) EventsSince(w http.ResponseWriter, r *http.Request) {
	afterID, err := strconv.ParseInt(chi.URLParam(r, "event_id"), 10, 64)
	if err != nil || afterID < 0 {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "event id must be a non-negative integer"})
		return
	}

	events, err := h.rooms.Events(r.Context(), chi.URLParam(r, "room"), afterID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	type eventView struct {
		ID        int64     `json:"id"`
		Type      string    `json:"type"`
		Data      any       `json:"data,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		v := eventView{ID: e.ID, Type: e.Type, CreatedAt: e.CreatedAt}
		if len(e.Data) > 0 {
			v.Data = e.Data
		}
		views = append(views, v)
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"events": views})
}
