package cartstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

// Store is the cart persistence capability set, keyed by an opaque session
// id. Mutations go through the domain ledger so every variant enforces the
// same invariants. Subscribe delivers live snapshots after each observed
// write; last write wins per item code.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Write(ctx context.Context, sessionID string, item domain.LineItem, qty int) (domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, code string, qty int) (domain.Cart, error)
	Delete(ctx context.Context, sessionID, code string) (domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (<-chan domain.Cart, func(), error)
}

// MemoryStore keeps carts in process memory. Carts are lost on restart; the
// local variant of the persistence strategy.
type MemoryStore struct {
	mu     sync.RWMutex
	carts  map[string]domain.Cart
	subs   map[string][]chan domain.Cart
	logger *zap.Logger
}

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		carts:  make(map[string]domain.Cart),
		subs:   make(map[string][]chan domain.Cart),
		logger: logger,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return domain.Cart{SessionID: sessionID}, nil
	}
	return cart, nil
}

func (s *MemoryStore) Write(ctx context.Context, sessionID string, item domain.LineItem, qty int) (domain.Cart, error) {
	return s.apply(sessionID, func(cart domain.Cart) domain.Cart {
		return domain.Add(cart, item, qty)
	})
}

func (s *MemoryStore) SetQuantity(ctx context.Context, sessionID, code string, qty int) (domain.Cart, error) {
	return s.apply(sessionID, func(cart domain.Cart) domain.Cart {
		return domain.SetQuantity(cart, code, qty)
	})
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID, code string) (domain.Cart, error) {
	return s.apply(sessionID, func(cart domain.Cart) domain.Cart {
		return domain.Remove(cart, code)
	})
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	notify(s.subs[sessionID], domain.Cart{SessionID: sessionID})
	return nil
}

// Subscribe returns a channel of cart snapshots. The cancel function must be
// called when the subscriber is done.
func (s *MemoryStore) Subscribe(_ context.Context, sessionID string) (<-chan domain.Cart, func(), error) {
	ch := make(chan domain.Cart, 8)

	s.mu.Lock()
	s.subs[sessionID] = append(s.subs[sessionID], ch)
	s.mu.Unlock()

	// Removal and close happen under the same lock as notify, so no snapshot
	// can be sent after the channel closes. A second cancel finds the channel
	// gone and is a no-op.
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[sessionID]
		for i := range subs {
			if subs[i] == ch {
				s.subs[sessionID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return ch, cancel, nil
}

func (s *MemoryStore) apply(sessionID string, fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		cart = domain.Cart{SessionID: sessionID}
	}
	cart = fn(cart)
	cart.UpdatedAt = time.Now()
	s.carts[sessionID] = cart
	notify(s.subs[sessionID], cart)
	return cart, nil
}

// notify runs under s.mu so a cancel cannot close a channel between the
// snapshot and the send. Sends never block: slow subscribers lose the
// snapshot, the next write delivers a fresher one anyway.
func notify(subs []chan domain.Cart, cart domain.Cart) {
	for _, ch := range subs {
		select {
		case ch <- cart:
		default:
		}
	}
}
