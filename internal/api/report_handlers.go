package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reportService.Dashboard(r.Context())
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats})
}

func (s *Server) matrixHandler(w http.ResponseWriter, r *http.Request) {
	matrix, err := s.reportService.Matrix(r.Context())
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: matrix})
}

// exportOrdersHandler selects orders in a window and streams them as a
// CSV attachment. Exports spanning all agents also dispatch the orders.
func (s *Server) exportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate     string `json:"start_date"`
		EndDate       string `json:"end_date"`
		PaymentStatus string `json:"payment_status"`
		AgentID       string `json:"agent_id"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.reportService.Export(r.Context(), currentUser(r), service.ExportRequest{
		From:          from,
		To:            to,
		PaymentStatus: req.PaymentStatus,
		AgentID:       req.AgentID,
	})
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("X-Report-Id", result.Log.ID)

	if err := writeOrdersCSV(w, result.Orders); err != nil {
		s.logger.Error("Failed to write export", "error", err, "reportID", result.Log.ID)
	}
}

func writeOrdersCSV(w http.ResponseWriter, orders []*models.Order) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"Order ID", "Customer ID", "Agent ID", "Items", "Total", "Discount", "Delivery", "Final", "Payment", "Status", "Remark", "Created At"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, order := range orders {
		var itemsDesc string
		for i, item := range order.Items {
			if i > 0 {
				itemsDesc += "; "
			}
			itemsDesc += fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
		}

		record := []string{
			order.ID,
			order.CustomerID,
			order.AgentID,
			itemsDesc,
			strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
			strconv.FormatFloat(order.DiscountAmount, 'f', 2, 64),
			strconv.FormatFloat(order.DeliveryCharge, 'f', 2, 64),
			strconv.FormatFloat(order.FinalAmount, 'f', 2, 64),
			string(order.PaymentStatus),
			string(order.Status),
			order.Remark,
			order.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *Server) exportHistoryHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := s.reportService.ExportHistory(r.Context(), currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: logs})
}

// myReportHandler lists the acting agent's own orders in a window.
func (s *Server) myReportHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := parseDateRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.reportService.MyReport(r.Context(), currentUser(r), from, to, q.Get("paymentStatus"))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: orders})
}

func (s *Server) pendingEditsHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.reportService.PendingEditCount(r.Context(), currentUser(r))
	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int{"pending": count}})
}
