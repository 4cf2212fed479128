package repository

import (
	"context"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

// OrderRecords defines checkout-outcome data access methods. The mirror is
// best effort: callers log and continue on error.
type OrderRecords interface {
	Create(ctx context.Context, record *domain.OrderRecord) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.OrderRecord, error)
}
