// Package api exposes the tutoring core over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zyvora/zyvora/internal/store"
	"github.com/zyvora/zyvora/internal/student"
	"github.com/zyvora/zyvora/internal/tutor"
)

const maxBodySize = 1 << 20 // 1MB

const (
	defaultUserID   = "anon"
	defaultLanguage = "en"
)

// Replier answers one chat turn; satisfied by *tutor.Tutor.
type Replier interface {
	Reply(ctx context.Context, userID, message, lang string) (tutor.Reply, error)
}

type AppDeps struct {
	Store store.Store
	Tutor Replier
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Lang    string `json:"lang"`
}

type DiagnosticRequest struct {
	UserID  string            `json:"user_id"`
	Answers map[string]string `json:"answers"`
	Lang    string            `json:"lang"`
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/diagnostic", handleDiagnostic(deps))
	r.Post("/chat", handleChat(deps))
	r.Get("/profile/{user_id}", handleGetProfile(deps))
	r.Delete("/profile/{user_id}", handleDeleteProfile(deps))

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleDiagnostic(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req DiagnosticRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}
		if req.Lang == "" {
			req.Lang = defaultLanguage
		}

		score := student.Score(req.Answers)
		profile := student.NewProfile(req.UserID, score, req.Lang)

		if err := deps.Store.Put(r.Context(), profile); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save profile: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

func handleChat(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		reply, err := deps.Tutor.Reply(r.Context(), req.UserID, req.Message, req.Lang)
		if err != nil {
			// Generation failures surface as a chat-level error payload so
			// clients can render them inline rather than as a transport fault.
			slog.Error("chat turn failed", "user_id", req.UserID, "error", err)
			writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, reply)
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")

		profile, err := deps.Store.Get(r.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load profile: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

func handleDeleteProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "user_id")

		if err := deps.Store.Delete(r.Context(), userID); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete profile: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
