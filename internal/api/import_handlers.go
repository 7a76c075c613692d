package api

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"

	"github.com/gayanfadna-spec/OMS-backend/internal/service"
)

const maxImportSize = 16 << 20 // 16 MiB

// importOrdersHandler ingests an e-commerce order export. The file is a
// CSV upload in the "file" form field, one row per line item, grouped by
// the Name column.
func (s *Server) importOrdersHandler(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r)
	if !actor.IsElevated() {
		s.respondWithError(w, http.StatusForbidden, "not authorized to import orders")
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	rows, err := parseImportCSV(file)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "malformed CSV file")
		return
	}
	if len(rows) == 0 {
		s.respondWithError(w, http.StatusBadRequest, "no rows found in file")
		return
	}

	result := s.importService.ImportOrders(r.Context(), rows, actor)
	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result})
}

// parseImportCSV reads an export file into raw import rows. Columns are
// resolved by header name so reordered exports still parse.
func parseImportCSV(r io.Reader) ([]service.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, names ...string) string {
		for _, name := range names {
			if i, ok := index[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	var rows []service.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rows = append(rows, service.ImportRow{
			OrderName:     field(record, "name", "order name"),
			CustomerName:  field(record, "shipping name", "billing name", "customer name"),
			ShippingPhone: field(record, "shipping phone", "phone"),
			BillingPhone:  field(record, "billing phone"),
			Address:       field(record, "shipping address1", "shipping address", "address"),
			City:          field(record, "shipping city", "city"),
			Country:       field(record, "shipping country", "country"),
			Email:         field(record, "email"),
			CreatedAtRaw:  field(record, "created at"),
			PaymentMethod: field(record, "payment method"),
			Subtotal:      field(record, "subtotal"),
			ProductName:   field(record, "lineitem name", "product name"),
			ProductPrice:  field(record, "lineitem price", "price"),
			Quantity:      field(record, "lineitem quantity", "quantity"),
		})
	}

	return rows, nil
}
