package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/outbreak/go/internal/game/auth"
	"github.com/mcdev12/outbreak/go/internal/game/engine"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/mcdev12/outbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Service exposes the game operations over HTTP/JSON. It is a thin
// translation layer: parse, call the app, map the error taxonomy to a
// status code.
type Service struct {
	app *App
}

// NewService creates a new game HTTP service.
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers all game routes on mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games", s.handleCreate)
	mux.HandleFunc("POST /api/games/{code}/join", s.handleJoin)
	mux.HandleFunc("GET /api/games/{code}", s.handleGetState)
	mux.HandleFunc("POST /api/games/{code}/start", s.handleStart)
	mux.HandleFunc("POST /api/games/{code}/pause", s.handlePause)
	mux.HandleFunc("POST /api/games/{code}/resume", s.handleResume)
	mux.HandleFunc("POST /api/games/{code}/choose", s.handleChoose)
	mux.HandleFunc("POST /api/games/{code}/end-round", s.handleEndRound)
	mux.HandleFunc("POST /api/games/{code}/next-round", s.handleNextRound)
	mux.HandleFunc("POST /api/games/{code}/leave", s.handleLeave)
}

type createRequest struct {
	HostName    string `json:"host_name"`
	TotalRounds int    `json:"total_rounds"`
}

type joinRequest struct {
	Name string `json:"name"`
}

// credentials is the common body of every authenticated call.
type credentials struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	SecretToken   string    `json:"secret_token"`
}

type chooseRequest struct {
	credentials
	Choice models.ChoiceKind `json:"choice"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.app.CreateGame(r.Context(), req.HostName, req.TotalRounds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Service) handleJoin(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := s.app.JoinGame(r.Context(), code, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleGetState(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}

	session, err := s.app.GetState(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	s.hostOp(w, r, s.app.StartGame)
}

func (s *Service) handlePause(w http.ResponseWriter, r *http.Request) {
	s.hostOp(w, r, s.app.PauseGame)
}

func (s *Service) handleResume(w http.ResponseWriter, r *http.Request) {
	s.hostOp(w, r, s.app.ResumeGame)
}

func (s *Service) handleEndRound(w http.ResponseWriter, r *http.Request) {
	s.hostOp(w, r, s.app.EndRound)
}

func (s *Service) handleNextRound(w http.ResponseWriter, r *http.Request) {
	s.hostOp(w, r, s.app.NextRound)
}

func (s *Service) handleChoose(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	var req chooseRequest
	if !decode(w, r, &req) {
		return
	}

	session, err := s.app.Choose(r.Context(), code, req.ParticipantID, req.SecretToken, req.Choice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Service) handleLeave(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	var req credentials
	if !decode(w, r, &req) {
		return
	}

	result, err := s.app.LeaveGame(r.Context(), code, req.ParticipantID, req.SecretToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// hostOp handles the shared shape of all host-gated transitions.
func (s *Service) hostOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error)) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	var req credentials
	if !decode(w, r, &req) {
		return
	}

	session, err := op(r.Context(), code, req.ParticipantID, req.SecretToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func pathCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if !registry.ValidCode(code) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed game code"})
		return "", false
	}
	return code, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

// writeError maps the error taxonomy onto HTTP status codes. Every
// rejection is a normal, user-visible outcome; nothing is retried here.
func writeError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	var serr *engine.StateError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrNotHost):
		status = http.StatusForbidden
	case errors.As(err, &serr):
		status = http.StatusConflict
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("unexpected error handling request")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
