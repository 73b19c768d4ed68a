package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mcdev12/outbreak/go/internal/game/events"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/mcdev12/outbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// StateProvider supplies the sanitized snapshot pushed to a client right
// after it joins a room.
type StateProvider interface {
	GetState(ctx context.Context, code string) (*models.Session, error)
}

// WebSocketHandler handles WebSocket upgrade requests for game rooms.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	state             StateProvider
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(cm *ConnectionManager, state StateProvider) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		state:             state,
	}
}

// HandleGameConnection handles WebSocket connections for a specific game.
func (h *WebSocketHandler) HandleGameConnection(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))
	if !registry.ValidCode(code) {
		http.Error(w, "a valid code is required", http.StatusBadRequest)
		return
	}

	// Resolve the snapshot before upgrading so an unknown code can still be
	// answered with a plain 404.
	session, err := h.state.GetState(r.Context(), code)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("code", code).Msg("failed to load game state")
		http.Error(w, "failed to load game state", http.StatusInternalServerError)
		return
	}

	conn, err := h.connectionManager.UpgradeConnection(w, r, code)
	if err != nil {
		// Upgrade already wrote the handshake failure.
		return
	}

	// Greet the client with the current state so it never has to poll to
	// catch up with events it missed before subscribing.
	welcome := events.Event{
		Type:      events.EventTypeConnected,
		Code:      code,
		Session:   session,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(welcome)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to marshal welcome event")
		return
	}
	if !conn.trySend(data) {
		log.Warn().Str("connection_id", conn.ID).Msg("welcome dropped, send buffer full")
	}
}

// HandleConnectionStats returns statistics about active connections.
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux.
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/game", h.HandleGameConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
