package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phamkhoa1373/E-commerce/internal/domain"
	apperrors "github.com/phamkhoa1373/E-commerce/pkg/errors"
)

const keyPrefix = "cart:session:"

// stateRecord is the Redis persistence shape. The selection set is stored
// as a plain slice so the record stays readable in redis-cli.
type stateRecord struct {
	UserID   string            `json:"user_id"`
	Lines    []domain.CartLine `json:"lines"`
	Selected []int64           `json:"selected"`
}

// RedisStore implements Store on top of Redis with a session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session state store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*State, error) {
	key := keyPrefix + userID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart state", userID)
		}
		return nil, fmt.Errorf("redis get cart state: %w", err)
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cart state: %w", err)
	}

	state := &State{
		Cart:      domain.Cart{UserID: rec.UserID, Lines: rec.Lines},
		Selection: domain.SelectionOf(rec.Selected...),
	}
	if state.Cart.Lines == nil {
		state.Cart.Lines = []domain.CartLine{}
	}
	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	key := keyPrefix + state.Cart.UserID

	rec := stateRecord{
		UserID:   state.Cart.UserID,
		Lines:    state.Cart.Lines,
		Selected: state.Selection.IDs(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal cart state: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart state: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart state: %w", err)
	}
	return nil
}
