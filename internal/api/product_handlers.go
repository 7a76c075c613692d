package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	product, err := s.productService.CreateProduct(r.Context(), currentUser(r), req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: product})
}

func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.productService.ListProducts(r.Context())
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: products})
}

func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := s.productService.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: product})
}

func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProductRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	product, err := s.productService.UpdateProduct(r.Context(), currentUser(r), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: product})
}

func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.productService.DeleteProduct(r.Context(), currentUser(r), mux.Vars(r)["id"]); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}
