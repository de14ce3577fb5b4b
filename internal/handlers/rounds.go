package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YC815/chicken-game-backend/internal/game"
)

func roundNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || n < 1 || n > game.MaxRounds {
		return 0, false
	}
	return n, true
}

// CurrentRound returns the room's active round.
func (h *Handler) CurrentRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.Current(r.Context(), chi.URLParam(r, "room"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"round_number": round.RoundNumber,
		"phase":        round.Phase,
		"status":       round.Status,
	})
}

// GetPair returns the requesting player's opponent for a round.
func (h *Handler) GetPair(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "player_id is required"})
		return
	}

	opponent, err := h.rounds.Opponent(r.Context(), chi.URLParam(r, "room"), number, playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"opponent_id":           opponent.ID,
		"opponent_display_name": opponent.DisplayName,
	})
}

// SubmitAction records a player's choice for the round.
func (h *Handler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}

	var req struct {
		PlayerID string `json:"player_id"`
		Choice   string `json:"choice"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	if req.PlayerID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "player_id is required"})
		return
	}
	choice, err := game.ParseChoice(req.Choice)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.rounds.SubmitAction(r.Context(), chi.URLParam(r, "room"), number, req.PlayerID, choice); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PublishRound reveals a finalized round to the players.
func (h *Handler) PublishRound(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}
	if err := h.rounds.Publish(r.Context(), chi.URLParam(r, "room"), number); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SkipRound force-completes a stuck round with TURN defaults.
func (h *Handler) SkipRound(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}
	if err := h.rounds.Skip(r.Context(), chi.URLParam(r, "room"), number); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RoundResult returns a player's personalized outcome for a round.
func (h *Handler) RoundResult(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "player_id is required"})
		return
	}

	result, err := h.rounds.Result(r.Context(), chi.URLParam(r, "room"), number, playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"opponent_display_name": result.OpponentDisplayName,
		"your_choice":           result.YourChoice,
		"opponent_choice":       result.OpponentChoice,
		"your_payoff":           result.YourPayoff,
		"opponent_payoff":       result.OpponentPayoff,
	})
}

// SendMessage delivers a note to the sender's opponent in rounds 5-6.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}

	var req struct {
		SenderID string `json:"sender_id"`
		Content  string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	if req.SenderID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "sender_id is required"})
		return
	}

	if err := h.messages.Send(r.Context(), chi.URLParam(r, "room"), number, req.SenderID, req.Content); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMessage returns the message the player's opponent sent this round.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	number, ok := roundNumber(r)
	if !ok {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid round number"})
		return
	}
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "player_id is required"})
		return
	}

	msg, err := h.messages.Get(r.Context(), chi.URLParam(r, "room"), number, playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"content":       msg.Content,
		"from_opponent": true,
	})
}

// AssignIndicators distributes identity symbols to every player, once.
func (h *Handler) AssignIndicators(w http.ResponseWriter, r *http.Request) {
	if err := h.indicators.Assign(r.Context(), chi.URLParam(r, "room")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetIndicator returns the player's assigned symbol.
func (h *Handler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"detail": "player_id is required"})
		return
	}
	symbol, err := h.indicators.Get(r.Context(), playerID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"symbol": symbol})
}
