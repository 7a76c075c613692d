package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

// loginHandler exchanges credentials for a session token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.authService.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result})
}

// currentUserHandler returns the authenticated user's own record.
func (s *Server) currentUserHandler(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: currentUser(r)})
}

// registerUserHandler creates an operator account.
func (s *Server) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authService.Register(r.Context(), currentUser(r), req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: user})
}

func (s *Server) listAgentsHandler(w http.ResponseWriter, r *http.Request) {
	agents, err := s.authService.ListAgents(r.Context(), currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: agents})
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user})
}

func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authService.UpdateUser(r.Context(), currentUser(r), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user})
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.DeleteUser(r.Context(), currentUser(r), mux.Vars(r)["id"]); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
