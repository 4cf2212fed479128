package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/cartstore"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/repository"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

// SalesOrderCreator is the slice of the ERP client the submitter needs.
type SalesOrderCreator interface {
	CreateSalesOrder(ctx context.Context, req domain.OrderRequest) (*erp.SalesOrderDoc, error)
}

// Submitter drives the checkout lifecycle per session:
// Idle -> Submitting -> {Succeeded, Failed} -> Idle.
// At most one submission is in flight per session; the cart is snapshotted
// once at submission time; only transport-level failures are retried, any
// HTTP response stops retrying. It never panics across its boundary: every
// call resolves to an OrderResult.
type Submitter struct {
	erp     SalesOrderCreator
	store   cartstore.Store
	records repository.OrderRecords // optional, may be nil
	erpCfg  config.ERPConfig
	cfg     config.CheckoutConfig
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	state domain.CheckoutState
	reset *time.Timer
}

func NewSubmitter(
	erpClient SalesOrderCreator,
	store cartstore.Store,
	records repository.OrderRecords,
	erpCfg config.ERPConfig,
	cfg config.CheckoutConfig,
	logger *zap.Logger,
) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 15 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	if cfg.DisplayDelay <= 0 {
		cfg.DisplayDelay = 3 * time.Second
	}
	return &Submitter{
		erp:      erpClient,
		store:    store,
		records:  records,
		erpCfg:   erpCfg,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*sessionState),
	}
}

// State reports the current checkout state for a session.
func (s *Submitter) State(sessionID string) domain.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st.state
	}
	return domain.CheckoutIdle
}

// Submit runs one checkout attempt for the session's cart. On success the
// cart is cleared and the ERP order name is surfaced; on failure the cart is
// untouched and the result carries a category plus stringified detail.
func (s *Submitter) Submit(ctx context.Context, sessionID, customer string) domain.OrderResult {
	if !s.begin(sessionID) {
		return domain.OrderResult{
			Success:     false,
			Category:    string(errors.CategoryValidation),
			ErrorDetail: "a checkout is already in progress for this session",
		}
	}

	// Snapshot once: later cart mutations cannot race into this order.
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return s.reject(sessionID, err)
	}

	// Rejected before any network I/O. The session returns straight to Idle:
	// only attempts that reached the wire earn a Failed display window.
	req, err := BuildOrder(cart, customer, s.erpCfg)
	if err != nil {
		return s.reject(sessionID, err)
	}

	doc, err := s.submitWithRetry(ctx, req)
	if err != nil {
		return s.fail(ctx, sessionID, req.Customer, req, err)
	}

	// Clearing uses its own short deadline so a nearly-exhausted request
	// context cannot strand a stale cart.
	clearCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.Clear(clearCtx, sessionID); err != nil {
		s.logger.Warn("Failed to clear cart after successful checkout",
			zap.Error(err), zap.String("session_id", sessionID))
	}

	s.finish(sessionID, domain.CheckoutSucceeded)
	s.logger.Info("Checkout succeeded",
		zap.String("session_id", sessionID),
		zap.String("order_name", doc.Name),
	)

	result := domain.OrderResult{Success: true, OrderName: doc.Name}
	s.record(sessionID, req, result)
	return result
}

// submitWithRetry bounds each attempt with the configured deadline and
// retries transient connectivity failures with exponential backoff. Any HTTP
// response, success or business rejection, stops retrying immediately. The
// abandoned request may still have been processed upstream: delivery is
// at-least-once, not exactly-once.
func (s *Submitter) submitWithRetry(ctx context.Context, req domain.OrderRequest) (*erp.SalesOrderDoc, error) {
	var doc *erp.SalesOrderDoc
	attempt := 0

	operation := func() error {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		defer cancel()

		created, err := s.erp.CreateSalesOrder(attemptCtx, req)
		if err != nil {
			if !errors.Retryable(err) {
				return backoff.Permanent(err)
			}
			s.logger.Warn("Checkout attempt failed, will retry if attempts remain",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		doc = created
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.RetryBaseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 30 * time.Second

	err := backoff.Retry(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.cfg.MaxAttempts-1)), ctx),
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// reject resolves a submission that never reached the network. The session
// goes back to Idle immediately instead of holding a Failed display window.
func (s *Submitter) reject(sessionID string, err error) domain.OrderResult {
	s.mu.Lock()
	if st, ok := s.sessions[sessionID]; ok && st.state == domain.CheckoutSubmitting {
		st.state = domain.CheckoutIdle
	}
	s.mu.Unlock()

	category := errors.CategoryOf(err)
	s.logger.Warn("Checkout rejected before submission",
		zap.String("session_id", sessionID),
		zap.String("category", string(category)),
		zap.Error(err),
	)
	return domain.OrderResult{
		Success:     false,
		Category:    string(category),
		ErrorDetail: err.Error(),
	}
}

func (s *Submitter) fail(ctx context.Context, sessionID, customer string, req domain.OrderRequest, err error) domain.OrderResult {
	category := errors.CategoryOf(err)
	s.finish(sessionID, domain.CheckoutFailed)
	s.logger.Warn("Checkout failed",
		zap.String("session_id", sessionID),
		zap.String("category", string(category)),
		zap.Error(err),
	)

	result := domain.OrderResult{
		Success:     false,
		Category:    string(category),
		ErrorDetail: err.Error(),
	}
	if len(req.Items) > 0 {
		req.Customer = customer
		s.record(sessionID, req, result)
	}
	return result
}

// begin moves the session into Submitting. Returns false when a submission is
// already in flight. A pending Succeeded/Failed display window is cut short.
func (s *Submitter) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{state: domain.CheckoutIdle}
		s.sessions[sessionID] = st
	}
	if !st.state.CanTransitionTo(domain.CheckoutSubmitting) {
		return false
	}
	if st.reset != nil {
		st.reset.Stop()
		st.reset = nil
	}
	st.state = domain.CheckoutSubmitting
	return true
}

// finish records the terminal state and schedules the return to Idle after
// the display delay.
func (s *Submitter) finish(sessionID string, final domain.CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	st.state = final
	st.reset = time.AfterFunc(s.cfg.DisplayDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if st.state == final {
			st.state = domain.CheckoutIdle
		}
	})
}

// record mirrors the outcome into the order-record store, best effort.
func (s *Submitter) record(sessionID string, req domain.OrderRequest, result domain.OrderResult) {
	if s.records == nil {
		return
	}
	rec := &domain.OrderRecord{
		SessionID: sessionID,
		Customer:  req.Customer,
		Request:   req,
		Success:   result.Success,
		OrderName: result.OrderName,
		Category:  result.Category,
		Detail:    result.ErrorDetail,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.records.Create(ctx, rec); err != nil {
		s.logger.Warn("Failed to record checkout outcome", zap.Error(err), zap.String("session_id", sessionID))
	}
}
