package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hotable/internal/app"
	"hotable/internal/db"
	"hotable/internal/dialogue"
	"hotable/internal/domain"
	"hotable/internal/session"
)

type eventPublisher interface {
	PublishTurn(ctx context.Context, event domain.TurnEvent) error
	PublishAvailability(ctx context.Context, restaurant string, tables int) error
}

type server struct {
	stack    *app.Stack
	router   *dialogue.Router
	repo     db.Repository
	sessions session.Store
	events   eventPublisher
	maxBody  int64
	logger   *slog.Logger
}

type availabilityRequest struct {
	AvailableTables *int `json:"available_tables"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Delete("/chat/{sessionID}", s.handleResetSession)
	r.Route("/v1/nlu", func(r chi.Router) {
		r.Post("/predict", s.handlePredict)
		r.Post("/extract", s.handleExtract)
		r.Get("/response/{tag}", s.handleResponse)
	})
	r.Get("/v1/restaurants", s.handleRestaurants)
	r.Put("/v1/restaurants/{name}/availability", s.handleSetAvailability)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"strategy":    s.stack.Strategy,
		"restaurants": s.stack.Catalog.Names(),
	})
}

func (s *server) handleChat(w http.ResponseWriter, req *http.Request) {
	var in domain.ChatRequest
	if err := decodeJSONBody(req, s.maxBody, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := req.Context()
	id, state, err := session.LoadOrNew(ctx, s.sessions, in.SessionID)
	if err != nil {
		s.logger.Error("load session failed", "session_id", in.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "session store unavailable")
		return
	}

	reply, next, err := s.router.Turn(ctx, state, in.Message)
	if err != nil {
		s.logger.Error("chat failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.sessions.Save(ctx, id, next); err != nil {
		s.logger.Error("save session failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "session store unavailable")
		return
	}

	if s.events != nil && reply.Intent != "" {
		s.publishTurn(ctx, id, next.TurnCount, in.Message, reply)
	}

	writeJSON(w, http.StatusOK, domain.ChatResponse{
		SessionID: id,
		Response:  reply.Text,
		Intent:    reply.Intent,
		Score:     reply.Score,
		Origin:    string(reply.Origin),
		Entities:  reply.Entities,
		TurnCount: next.TurnCount,
	})
}

// publishTurn is best effort: a broker outage must not fail the chat.
func (s *server) publishTurn(ctx context.Context, id string, turn int, message string, reply dialogue.Reply) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := s.events.PublishTurn(ctx, domain.TurnEvent{
		SessionID: id,
		Turn:      turn,
		Message:   message,
		Intent:    reply.Intent,
		Score:     reply.Score,
		Origin:    string(reply.Origin),
		Entities:  reply.Entities,
	})
	if err != nil {
		s.logger.Warn("publish turn failed", "session_id", id, "error", err)
	}
}

func (s *server) handleResetSession(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "sessionID")
	if err := s.sessions.Reset(req.Context(), id); err != nil {
		s.logger.Error("reset session failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "session store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handlePredict(w http.ResponseWriter, req *http.Request) {
	var in domain.PredictRequest
	if err := decodeJSONBody(req, s.maxBody, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.stack.Predict(in.Message))
}

func (s *server) handleExtract(w http.ResponseWriter, req *http.Request) {
	var in domain.PredictRequest
	if err := decodeJSONBody(req, s.maxBody, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.ExtractResponse{Entities: s.stack.Engine.Extract(in.Message)})
}

func (s *server) handleResponse(w http.ResponseWriter, req *http.Request) {
	tag := chi.URLParam(req, "tag")
	writeJSON(w, http.StatusOK, domain.ResponseTemplate{Intent: tag, Response: s.stack.Engine.Response(tag)})
}

func (s *server) handleRestaurants(w http.ResponseWriter, req *http.Request) {
	items, err := s.repo.ListRestaurants(req.Context())
	if err != nil {
		s.logger.Error("list restaurants failed", "error", err)
		writeError(w, http.StatusInternalServerError, "restaurant store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restaurants": items})
}

func (s *server) handleSetAvailability(w http.ResponseWriter, req *http.Request) {
	var in availabilityRequest
	if err := decodeJSONBody(req, s.maxBody, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.AvailableTables == nil {
		writeError(w, http.StatusBadRequest, "available_tables is required")
		return
	}

	ctx := req.Context()
	name := chi.URLParam(req, "name")
	rest, err := s.repo.UpdateAvailability(ctx, name, *in.AvailableTables)
	switch {
	case errors.Is(err, db.ErrRestaurantNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, db.ErrInvalidAvailability):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("update availability failed", "restaurant", name, "error", err)
		writeError(w, http.StatusInternalServerError, "restaurant store unavailable")
		return
	}

	if s.events != nil {
		if err := s.events.PublishAvailability(ctx, rest.Name, *in.AvailableTables); err != nil {
			s.logger.Warn("publish availability failed", "restaurant", rest.Name, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, rest)
}

func decodeJSONBody(req *http.Request, maxBytes int64, out any) error {
	defer req.Body.Close()
	data, err := io.ReadAll(io.LimitReader(req.Body, maxBytes+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("request body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("request body is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid json: multiple JSON values")
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Error: strings.TrimSpace(msg)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
