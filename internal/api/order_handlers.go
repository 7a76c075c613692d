package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

// createOrderHandler creates an order owned by the acting user.
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	order, err := s.orderService.CreateOrder(r.Context(), req, currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: order})
}

// listOrdersHandler lists orders filtered by the query parameters
// startDate, endDate, paymentStatus and agent.
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.orderService.ListOrders(r.Context(), filter)
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: orders})
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orderService.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateOrderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	order, err := s.orderService.UpdateOrder(r.Context(), mux.Vars(r)["id"], req, currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

// deleteOrderHandler removes one order after password confirmation.
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if err := s.orderService.DeleteOrder(r.Context(), mux.Vars(r)["id"], req.Password, currentUser(r)); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}

func (s *Server) requestEditHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	order, err := s.orderService.RequestEdit(r.Context(), mux.Vars(r)["id"], req.Message, currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: order})
}

func (s *Server) bulkDeleteOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	count, err := s.orderService.BulkDeleteOrders(r.Context(), req.Password, currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int64{"deleted": count}})
}

func (s *Server) bulkUpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string             `json:"start_date"`
		EndDate   string             `json:"end_date"`
		Status    models.OrderStatus `json:"status"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := s.orderService.BulkUpdateStatus(r.Context(), from, to, req.Status, currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int64{"updated": count}})
}

// parseOrderFilter builds an order filter from query parameters. Dates
// use YYYY-MM-DD; the end date is inclusive.
func parseOrderFilter(r *http.Request) (models.OrderFilter, error) {
	q := r.URL.Query()
	filter := models.OrderFilter{
		PaymentStatus: q.Get("paymentStatus"),
		AgentID:       q.Get("agent"),
	}

	if v := q.Get("startDate"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if v := q.Get("endDate"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	return filter, nil
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if startDate != "" {
		if from, err = time.Parse("2006-01-02", startDate); err != nil {
			return from, to, err
		}
	}
	if endDate != "" {
		if to, err = time.Parse("2006-01-02", endDate); err != nil {
			return from, to, err
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	return from, to, nil
}
