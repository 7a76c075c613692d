package models

import (
	"time"
)

// ReportLog is an immutable record of an export or dispatch action.
// It is appended once per export call and never mutated afterwards.
type ReportLog struct {
	ID            string    `db:"id" json:"id"`
	GeneratedBy   string    `db:"generated_by" json:"generated_by"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	OrderCount    int       `db:"order_count" json:"order_count"`
	Status        string    `db:"status" json:"status"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	AgentID       *string   `db:"agent_id" json:"agent_id,omitempty"`
	IsDispatch    bool      `db:"is_dispatch" json:"is_dispatch"`
	GeneratedAt   time.Time `db:"generated_at" json:"generated_at"`
}

// NewReportLog creates a report log entry for an export action.
func NewReportLog(generatedBy string, startDate, endDate time.Time, orderCount int, paymentStatus string, agentID *string, isDispatch bool) *ReportLog {
	if paymentStatus == "" {
		paymentStatus = "All"
	}

	return &ReportLog{
		ID:            GenerateID("rpt"),
		GeneratedBy:   generatedBy,
		StartDate:     startDate,
		EndDate:       endDate,
		OrderCount:    orderCount,
		Status:        "Success",
		PaymentStatus: paymentStatus,
		AgentID:       agentID,
		IsDispatch:    isDispatch,
		GeneratedAt:   GetCurrentTime(),
	}
}
