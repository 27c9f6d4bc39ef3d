package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/gobblego/models"
)

// RedisStore keeps the client records as JSON values without TTL;
// the session record is valid until explicitly overwritten.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) sessionKey() string {
	return fmt.Sprintf("gobblego:%s:session", s.namespace)
}

func (s *RedisStore) snapshotKey() string {
	return fmt.Sprintf("gobblego:%s:cart_snapshot", s.namespace)
}

func (s *RedisStore) SaveSession(ctx context.Context, session models.Session) error {
	return s.setJSON(ctx, s.sessionKey(), session)
}

func (s *RedisStore) LoadSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := s.getJSON(ctx, s.sessionKey(), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) ClearSession(ctx context.Context) error {
	return s.client.Del(ctx, s.sessionKey(), s.snapshotKey()).Err()
}

func (s *RedisStore) SaveCartSnapshot(ctx context.Context, snapshot models.CartSnapshot) error {
	return s.setJSON(ctx, s.snapshotKey(), snapshot)
}

func (s *RedisStore) LoadCartSnapshot(ctx context.Context) (*models.CartSnapshot, error) {
	var snapshot models.CartSnapshot
	if err := s.getJSON(ctx, s.snapshotKey(), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, out interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("corrupt record %s: %w", key, err)
	}
	return nil
}
