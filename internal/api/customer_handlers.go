package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

func (s *Server) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	customer, err := s.customerService.CreateCustomer(r.Context(), req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: customer})
}

func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customerService.ListCustomers(r.Context())
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: customers})
}

func (s *Server) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customerService.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: customer})
}

func (s *Server) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCustomerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	customer, err := s.customerService.UpdateCustomer(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: customer})
}

func (s *Server) getCustomerByPhoneHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customerService.GetCustomerByPhone(r.Context(), mux.Vars(r)["phone"])
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: customer})
}

func (s *Server) bulkDeleteCustomersHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	count, err := s.customerService.BulkDeleteCustomers(r.Context(), currentUser(r), req.Password)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int64{"deleted": count}})
}

func (s *Server) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.customerService.DeleteCustomer(r.Context(), currentUser(r), mux.Vars(r)["id"]); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
