package cartstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

func TestMemoryStore_WriteAndGet(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	cart, err := store.Write(ctx, "s1", domain.LineItem{Code: "TAZA-001", UnitPrice: 120}, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, cart.Lines, got.Lines)

	// Sessions are isolated
	other, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestMemoryStore_SetQuantityRemovesAtZero(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := store.Write(ctx, "s1", domain.LineItem{Code: "PIN-001", UnitPrice: 30}, 1)
	require.NoError(t, err)

	cart, err := store.SetQuantity(ctx, "s1", "PIN-001", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := store.Write(ctx, "s1", domain.LineItem{Code: "PIN-001", UnitPrice: 30}, 1)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestMemoryStore_SubscribeSeesWrites(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	snapshots, cancel, err := store.Subscribe(ctx, "s1")
	require.NoError(t, err)
	defer cancel()

	_, err = store.Write(ctx, "s1", domain.LineItem{Code: "TAZA-001", UnitPrice: 120}, 1)
	require.NoError(t, err)

	select {
	case snap := <-snapshots:
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "TAZA-001", snap.Lines[0].Code)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestMemoryStore_WritesRacingCancelDoNotPanic(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, cancel, err := store.Subscribe(ctx, "s1")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Write(ctx, "s1", domain.LineItem{Code: "TAZA-001", UnitPrice: 120}, 1)
		}()
		go func() {
			defer wg.Done()
			cancel()
		}()
		wg.Wait()
		// A second cancel after the subscriber is gone is a no-op.
		cancel()
	}
}

func TestMemoryStore_SubscribeCancelStopsDelivery(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	snapshots, cancel, err := store.Subscribe(ctx, "s1")
	require.NoError(t, err)
	cancel()

	_, err = store.Write(ctx, "s1", domain.LineItem{Code: "TAZA-001", UnitPrice: 120}, 1)
	require.NoError(t, err)

	_, open := <-snapshots
	assert.False(t, open)
}
