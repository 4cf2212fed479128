package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// ItemLister is the slice of the ERP client the catalog needs.
type ItemLister interface {
	ListItems(ctx context.Context) ([]domain.Product, error)
}

// Service serves the product list. Concurrent fetches are collapsed with
// singleflight, the last good list is cached for a short TTL, and the ERP
// read path sits behind a circuit breaker. When the ERP is unreachable and
// the cache is cold the static fallback catalog keeps the storefront
// rendering; business rejections and missing-credential errors are
// propagated as-is.
type Service struct {
	erp     ItemLister
	ttl     time.Duration
	logger  *zap.Logger
	sfg     singleflight.Group
	breaker *gobreaker.CircuitBreaker[[]domain.Product]

	mu        sync.RWMutex
	cached    []domain.Product
	fetchedAt time.Time
}

func NewService(erp ItemLister, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	breaker := gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "erp-items",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Service{
		erp:     erp,
		ttl:     ttl,
		logger:  logger,
		breaker: breaker,
	}
}

// Products returns the sellable item list.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.ttl {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.sfg.Do("items", func() (interface{}, error) {
		items, err := s.breaker.Execute(func() ([]domain.Product, error) {
			return s.erp.ListItems(ctx)
		})
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cached = items
		s.fetchedAt = time.Now()
		s.mu.Unlock()
		return items, nil
	})
	if err == nil {
		return v.([]domain.Product), nil
	}

	// A business rejection is a real answer, and missing credentials are a
	// server misconfiguration; both relay to the caller. The fallback covers
	// connectivity failures only.
	var (
		rejection *errors.ErrUpstreamRejection
		configErr *errors.ErrConfiguration
	)
	if stderrors.As(err, &rejection) || stderrors.As(err, &configErr) {
		return nil, err
	}

	// Unreachable ERP (or open breaker): serve the stale cache, then the
	// static fallback.
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		s.logger.Warn("ERP unreachable, serving cached catalog", zap.Error(err))
		return cached, nil
	}

	s.logger.Warn("ERP unreachable and cache cold, serving fallback catalog", zap.Error(err))
	return FallbackProducts(), nil
}
