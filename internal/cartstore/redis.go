package cartstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SAMUELWEB11/ProyectoITPshop/internal/domain"
)

// RedisStore is the remote cart variant: one JSON document per session key,
// surviving reloads, with live snapshots published on a per-session channel.
// The remote value is the source of truth; persistence errors are logged and
// the in-request value is still returned, so a failed write can leave the
// remote cart stale (documented risk, not auto-retried here).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func cartChannel(sessionID string) string {
	return fmt.Sprintf("cart.updates:%s", sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return domain.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		s.logger.Warn("redis get failed, serving empty cart", zap.Error(err), zap.String("session_id", sessionID))
		return domain.Cart{SessionID: sessionID}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn("unmarshal cart failed, serving empty cart", zap.Error(err), zap.String("session_id", sessionID))
		return domain.Cart{SessionID: sessionID}, nil
	}
	cart.SessionID = sessionID
	return cart, nil
}

func (s *RedisStore) Write(ctx context.Context, sessionID string, item domain.LineItem, qty int) (domain.Cart, error) {
	return s.apply(ctx, sessionID, func(cart domain.Cart) domain.Cart {
		return domain.Add(cart, item, qty)
	})
}

func (s *RedisStore) SetQuantity(ctx context.Context, sessionID, code string, qty int) (domain.Cart, error) {
	return s.apply(ctx, sessionID, func(cart domain.Cart) domain.Cart {
		return domain.SetQuantity(cart, code, qty)
	})
}

func (s *RedisStore) Delete(ctx context.Context, sessionID, code string) (domain.Cart, error) {
	return s.apply(ctx, sessionID, func(cart domain.Cart) domain.Cart {
		return domain.Remove(cart, code)
	})
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		s.logger.Warn("redis delete failed", zap.Error(err), zap.String("session_id", sessionID))
		return nil
	}
	s.publish(ctx, domain.Cart{SessionID: sessionID})
	return nil
}

// Subscribe delivers the latest published snapshot per write. The caller sees
// last-write-wins ordering; snapshots published while the subscriber is slow
// are superseded, not queued forever.
func (s *RedisStore) Subscribe(ctx context.Context, sessionID string) (<-chan domain.Cart, func(), error) {
	sub := s.client.Subscribe(ctx, cartChannel(sessionID))
	// Force the subscription to be established before the first write races it.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe to cart channel: %w", err)
	}

	out := make(chan domain.Cart, 8)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var cart domain.Cart
			if err := json.Unmarshal([]byte(msg.Payload), &cart); err != nil {
				s.logger.Warn("bad cart snapshot on channel", zap.Error(err), zap.String("session_id", sessionID))
				continue
			}
			select {
			case out <- cart:
			default:
				// Drop for slow subscribers; the next snapshot supersedes.
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}

func (s *RedisStore) apply(ctx context.Context, sessionID string, fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	cart, _ := s.Get(ctx, sessionID)
	cart = fn(cart)
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return cart, fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis set failed, remote cart may be stale",
			zap.Error(err), zap.String("session_id", sessionID))
		return cart, nil
	}
	s.publish(ctx, cart)
	return cart, nil
}

func (s *RedisStore) publish(ctx context.Context, cart domain.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	if err := s.client.Publish(ctx, cartChannel(cart.SessionID), data).Err(); err != nil {
		s.logger.Warn("publish cart snapshot failed", zap.Error(err), zap.String("session_id", cart.SessionID))
	}
}
