package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
)

type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Health represents the health check response
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type contextKey string

const userContextKey contextKey = "user"

// healthCheckHandler handles the health check endpoint
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:    "ok",
		Version:   "1.0.0",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    health,
	})
}

// authMiddleware validates the bearer token and loads the acting user
// into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.respondWithError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := s.tokens.Parse(token)
		if err != nil {
			s.respondWithError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondWithError(w, http.StatusUnauthorized, "unknown user")
				return
			}
			s.respondWithError(w, http.StatusInternalServerError, "failed to authenticate")
			return
		}
		if !user.Active {
			s.respondWithError(w, http.StatusUnauthorized, "account disabled")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated user placed by authMiddleware.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// decodeJSON decodes the request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// respondWithAppError maps a service error onto the HTTP status taxonomy.
func (s *Server) respondWithAppError(w http.ResponseWriter, err error) {
	s.respondWithError(w, apperrors.StatusCode(err), err.Error())
}

// respondWithError sends a JSON response with an error message
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Error:   message,
	})
}

// respondWithJSON sends a JSON response
func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
