package cart

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/sliceworks/pizzeria-backend/pkg/errors"
	"github.com/sliceworks/pizzeria-backend/pkg/redis"
)

const sessionKeyPrefix = "cart:session:"

// Store persists a session's cart snapshot between requests.
type Store interface {
	// Load returns the session's cart, or an empty cart if none exists.
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps carts in redis as JSON snapshots. Every save
// refreshes the session TTL so an active session never expires mid-order.
func NewRedisStore(client *redis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "redis client required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session TTL must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID)
	if redis.IsNil(err) {
		return New(), nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart session")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// A corrupt snapshot is unrecoverable; start the session over
		// rather than fail every subsequent request.
		return New(), nil
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart session")
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart session")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cart session")
	}
	return nil
}
