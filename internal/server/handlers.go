package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katrinawoods/rsc2/internal/model"
	"github.com/katrinawoods/rsc2/internal/session"
	"github.com/katrinawoods/rsc2/internal/store"
)

var validate = validator.New()

type createSessionRequest struct {
	ExerciseID string `json:"exercise_id" validate:"required"`
}

type activateRequest struct {
	CardID string `json:"card_id" validate:"required"`
}

type sessionResponse struct {
	SessionID  string          `json:"session_id"`
	ExerciseID string          `json:"exercise_id"`
	Outcome    session.Outcome `json:"outcome,omitempty"`
	Result     *session.Result `json:"result,omitempty"`
	View       session.View    `json:"view"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.exercises.List(r.Context(), store.ListParams{NS: r.URL.Query().Get("ns"), Limit: 100})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []model.Exercise{}
	}
	respondJSON(w, http.StatusOK, exercises)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.seed(r, req.ExerciseID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	id := s.sessions.add(req.ExerciseID, sess)
	s.log.Info("session started", zap.String("session", id.String()), zap.String("exercise", req.ExerciseID))

	respondJSON(w, http.StatusCreated, sessionResponse{
		SessionID:  id.String(),
		ExerciseID: req.ExerciseID,
		View:       sess.View(),
	})
}

// seed builds a fresh session for an exercise with a new presentation order.
func (s *Server) seed(r *http.Request, exerciseID string) (*session.Session, error) {
	ex, err := s.exercises.Get(r.Context(), store.GetParams{ID: exerciseID})
	if err != nil {
		return nil, err
	}
	return session.New(s.present(ex.Seed()),
		session.WithLogger(s.log.With(zap.String("exercise", exerciseID))))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id uuid.UUID, e *entry) {
		respondJSON(w, http.StatusOK, sessionResponse{
			SessionID:  id.String(),
			ExerciseID: e.exerciseID,
			View:       e.sess.View(),
		})
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if !s.sessions.remove(id) {
		s.respondError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.withSession(w, r, func(id uuid.UUID, e *entry) {
		outcome := e.sess.Activate(model.CardID(req.CardID))
		respondJSON(w, http.StatusOK, sessionResponse{
			SessionID:  id.String(),
			ExerciseID: e.exerciseID,
			Outcome:    outcome,
			View:       e.sess.View(),
		})
	})
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id uuid.UUID, e *entry) {
		res, err := e.sess.Check()
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, sessionResponse{
			SessionID:  id.String(),
			ExerciseID: e.exerciseID,
			Result:     &res,
			View:       e.sess.View(),
		})
	})
}

// reset discards the session state and reseeds it from the stored exercise.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id uuid.UUID, e *entry) {
		sess, err := s.seed(r, e.exerciseID)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		e.sess = sess
		s.log.Info("session reset", zap.String("session", id.String()))
		respondJSON(w, http.StatusOK, sessionResponse{
			SessionID:  id.String(),
			ExerciseID: e.exerciseID,
			View:       sess.View(),
		})
	})
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// withSession runs fn holding the session's lock.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID, *entry)) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	e, ok := s.sessions.get(id)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(id, e)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrConfiguration):
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.log.Debug("sending error response",
		zap.Int("status", status),
		zap.String("message", msg),
		zap.String("path", r.URL.Path))
	respondJSON(w, status, errorResponse{Error: msg, RequestID: middleware.GetReqID(r.Context())})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
