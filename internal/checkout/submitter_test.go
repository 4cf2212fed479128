package checkout

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/cartstore"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/config"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
	"github.com/SAMUELWEB11/ProyectoITPshop/internal/erp"
	"github.com/SAMUELWEB11/ProyectoITPshop/pkg/errors"
)

type mockERP struct {
	mu      sync.Mutex
	calls   atomic.Int64
	results []mockResult // consumed in order; last one repeats
	block   chan struct{}
}

type mockResult struct {
	doc *erp.SalesOrderDoc
	err error
}

func (m *mockERP) CreateSalesOrder(ctx context.Context, req domain.OrderRequest) (*erp.SalesOrderDoc, error) {
	m.calls.Add(1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, &errors.ErrTimeout{Op: "create sales order", Timeout: time.Second}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res.doc, res.err
}

func testSubmitter(t *testing.T, erpMock *mockERP) (*Submitter, cartstore.Store) {
	t.Helper()
	store := cartstore.NewMemoryStore(nil)
	sub := NewSubmitter(
		erpMock,
		store,
		nil,
		config.ERPConfig{DefaultCustomer: "Cliente Mostrador", Currency: "MXN"},
		config.CheckoutConfig{
			AttemptTimeout: time.Second,
			MaxAttempts:    3,
			RetryBaseDelay: time.Millisecond,
			DisplayDelay:   30 * time.Millisecond,
		},
		nil,
	)
	return sub, store
}

func addHoodie(t *testing.T, store cartstore.Store) {
	t.Helper()
	_, err := store.Write(context.Background(), "s1",
		domain.LineItem{Code: "HOODIE-M", Name: "Sudadera", UnitPrice: 450.00}, 1)
	require.NoError(t, err)
}

func TestSubmit_EmptyCartRejectedWithoutNetworkCall(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-1"}}}}
	sub, _ := testSubmitter(t, erpMock)

	result := sub.Submit(context.Background(), "s1", "")

	assert.False(t, result.Success)
	assert.Equal(t, string(errors.CategoryValidation), result.Category)
	assert.Equal(t, int64(0), erpMock.calls.Load())
}

func TestSubmit_PreSubmissionRejectionLeavesSessionIdle(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-2"}}}}
	sub, store := testSubmitter(t, erpMock)

	// Empty cart never reaches the wire and earns no Failed display window.
	result := sub.Submit(context.Background(), "s1", "")
	require.False(t, result.Success)
	assert.Equal(t, domain.CheckoutIdle, sub.State("s1"))

	// The session is immediately usable again.
	addHoodie(t, store)
	retried := sub.Submit(context.Background(), "s1", "")
	require.True(t, retried.Success)
	assert.Equal(t, "SAL-ORD-2", retried.OrderName)
}

func TestSubmit_Success_ClearsCartAndSurfacesOrderName(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-2026-00042"}}}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	result := sub.Submit(context.Background(), "s1", "")

	require.True(t, result.Success)
	assert.Equal(t, "SAL-ORD-2026-00042", result.OrderName)
	assert.Equal(t, domain.CheckoutSucceeded, sub.State("s1"))

	cart, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestSubmit_UpstreamRejection_KeepsCartAndNeverRetries(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{
		{err: &errors.ErrUpstreamRejection{Status: 500, Detail: "ValidationError: Item HOODIE-M not found"}},
	}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	result := sub.Submit(context.Background(), "s1", "")

	assert.False(t, result.Success)
	assert.Equal(t, string(errors.CategoryUpstream), result.Category)
	assert.Contains(t, result.ErrorDetail, "ValidationError: Item HOODIE-M not found")
	// Business rejection stops retrying immediately.
	assert.Equal(t, int64(1), erpMock.calls.Load())

	cart, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "HOODIE-M", cart.Lines[0].Code)
}

func TestSubmit_NetworkFailure_RetriesUpToAttemptCap(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{{err: &errors.ErrNetwork{Op: "create sales order"}}}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	result := sub.Submit(context.Background(), "s1", "")

	assert.False(t, result.Success)
	assert.Equal(t, string(errors.CategoryNetwork), result.Category)
	assert.Equal(t, int64(3), erpMock.calls.Load())
}

func TestSubmit_TransientFailureThenSuccess(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{
		{err: &errors.ErrNetwork{Op: "create sales order"}},
		{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-7"}},
	}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	result := sub.Submit(context.Background(), "s1", "")

	require.True(t, result.Success)
	assert.Equal(t, "SAL-ORD-7", result.OrderName)
	assert.Equal(t, int64(2), erpMock.calls.Load())
}

func TestSubmit_Timeout_DistinctFromNetworkAndCartUnchanged(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{{err: &errors.ErrTimeout{Op: "create sales order", Timeout: time.Second}}}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	result := sub.Submit(context.Background(), "s1", "")

	assert.False(t, result.Success)
	assert.Equal(t, string(errors.CategoryTimeout), result.Category)
	assert.NotEqual(t, string(errors.CategoryNetwork), result.Category)

	cart, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	// State machine returns to Idle after the display delay.
	assert.Equal(t, domain.CheckoutFailed, sub.State("s1"))
	assert.Eventually(t, func() bool {
		return sub.State("s1") == domain.CheckoutIdle
	}, time.Second, 5*time.Millisecond)
}

func TestSubmit_ExactlyOneInFlight(t *testing.T) {
	block := make(chan struct{})
	erpMock := &mockERP{
		results: []mockResult{{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-9"}}},
		block:   block,
	}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	var first domain.OrderResult
	done := make(chan struct{})
	go func() {
		first = sub.Submit(context.Background(), "s1", "")
		close(done)
	}()

	require.Eventually(t, func() bool {
		return sub.State("s1") == domain.CheckoutSubmitting
	}, time.Second, time.Millisecond)

	// Second attempt while the first is in flight: rejected, no network call.
	second := sub.Submit(context.Background(), "s1", "")
	assert.False(t, second.Success)
	assert.Equal(t, string(errors.CategoryValidation), second.Category)

	close(block)
	<-done
	require.True(t, first.Success)
	assert.Equal(t, int64(1), erpMock.calls.Load())
}

func TestSubmit_SessionsAreIndependent(t *testing.T) {
	block := make(chan struct{})
	erpMock := &mockERP{
		results: []mockResult{{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-10"}}},
		block:   block,
	}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)
	_, err := store.Write(context.Background(), "s2",
		domain.LineItem{Code: "TAZA-001", UnitPrice: 120}, 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		sub.Submit(context.Background(), "s1", "")
		close(done)
	}()
	require.Eventually(t, func() bool {
		return sub.State("s1") == domain.CheckoutSubmitting
	}, time.Second, time.Millisecond)

	// s2 is not blocked by s1's in-flight submission.
	assert.Equal(t, domain.CheckoutIdle, sub.State("s2"))

	close(block)
	<-done
}

func TestSubmit_RetryAfterFailureCutsDisplayWindowShort(t *testing.T) {
	erpMock := &mockERP{results: []mockResult{
		{err: &errors.ErrUpstreamRejection{Status: 417, Detail: "rejected"}},
		{doc: &erp.SalesOrderDoc{Name: "SAL-ORD-11"}},
	}}
	sub, store := testSubmitter(t, erpMock)
	addHoodie(t, store)

	failed := sub.Submit(context.Background(), "s1", "")
	require.False(t, failed.Success)
	require.Equal(t, domain.CheckoutFailed, sub.State("s1"))

	// Immediate retry flips Failed -> Submitting without waiting for Idle.
	retried := sub.Submit(context.Background(), "s1", "")
	require.True(t, retried.Success)
	assert.Equal(t, "SAL-ORD-11", retried.OrderName)
}
