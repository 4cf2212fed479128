package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

type orderRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRecordRepository creates a new order record repository
func NewOrderRecordRepository(db *sql.DB, logger *zap.Logger) *orderRecordRepository {
	return &orderRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderRecordRepository) Create(ctx context.Context, record *domain.OrderRecord) error {
	query := `
		INSERT INTO order_records (id, session_id, customer, request, success, order_name, category, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	request, err := json.Marshal(record.Request)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.Customer,
		request,
		record.Success,
		record.OrderName,
		record.Category,
		record.Detail,
		record.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order record", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRecordRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.OrderRecord, error) {
	query := `
		SELECT id, session_id, customer, request, success, order_name, category, detail, created_at
		FROM order_records
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		r.logger.Error("Failed to list order records", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var records []*domain.OrderRecord
	for rows.Next() {
		var rec domain.OrderRecord
		var request []byte

		err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.Customer,
			&request,
			&rec.Success,
			&rec.OrderName,
			&rec.Category,
			&rec.Detail,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(request, &rec.Request); err != nil {
			r.logger.Warn("Corrupt order request snapshot", zap.Error(err), zap.String("record_id", rec.ID.String()))
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}
