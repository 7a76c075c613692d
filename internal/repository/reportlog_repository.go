package repository

import (
	"context"
	"fmt"

	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// ReportLogRepository handles the append-only export audit log.
type ReportLogRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewReportLogRepository creates a new ReportLogRepository
func NewReportLogRepository(db *database.Database, logger logger.Logger) *ReportLogRepository {
	return &ReportLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a report log entry. Entries are never updated or deleted.
func (r *ReportLogRepository) Create(ctx context.Context, log *models.ReportLog) error {
	query := `
		INSERT INTO report_logs (id, generated_by, start_date, end_date, order_count, status, payment_status, agent_id, is_dispatch, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		log.ID,
		log.GeneratedBy,
		log.StartDate,
		log.EndDate,
		log.OrderCount,
		log.Status,
		log.PaymentStatus,
		log.AgentID,
		log.IsDispatch,
		log.GeneratedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report log", "error", err, "reportID", log.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// List retrieves all report logs, newest first.
func (r *ReportLogRepository) List(ctx context.Context) ([]*models.ReportLog, error) {
	var logs []*models.ReportLog
	err := r.db.DB.SelectContext(ctx, &logs, `
		SELECT id, generated_by, start_date, end_date, order_count, status, payment_status, agent_id, is_dispatch, generated_at
		FROM report_logs
		ORDER BY generated_at DESC
	`)
	if err != nil {
		r.logger.Error("Failed to list report logs", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return logs, nil
}
