// Package redisstorage provides a Redis-based implementation of ports.Storage
// for multi-node deployments where every API replica must observe the same
// tab and shared slots.
package redisstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agrilink/tab-session-api/internal/ports"
)

const defaultPrefix = "tabsession:"

// Store maps logical slots onto Redis keys:
//
//	tab slot    -> {prefix}tab:{tabID}:{key}
//	shared slot -> {prefix}shared:{key}
//
// Tab slots carry an optional TTL so slots belonging to long-dead tabs are
// eventually reclaimed; shared slots never expire, they persist until an
// explicit global wipe.
type Store struct {
	client redis.UniversalClient
	prefix string
	tabTTL time.Duration
}

var _ ports.Storage = (*Store)(nil)

// Options configures a Redis store.
type Options struct {
	// Prefix namespaces all keys; defaults to "tabsession:".
	Prefix string
	// TabTTL bounds the lifetime of tab-exclusive slots. Zero disables
	// expiry.
	TabTTL time.Duration
}

// New creates a Redis-backed store.
func New(client redis.UniversalClient, opts Options) *Store {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		tabTTL: opts.TabTTL,
	}
}

func (s *Store) tabKey(tabID, key string) string {
	return s.prefix + "tab:" + tabID + ":" + key
}

func (s *Store) tabPattern(tabID string) string {
	return s.prefix + "tab:" + tabID + ":*"
}

func (s *Store) sharedKey(key string) string {
	return s.prefix + "shared:" + key
}

// GetTab reads a tab-exclusive slot.
func (s *Store) GetTab(ctx context.Context, tabID, key string) (string, bool, error) {
	return s.get(ctx, s.tabKey(tabID, key))
}

// SetTab writes a tab-exclusive slot and refreshes its TTL.
func (s *Store) SetTab(ctx context.Context, tabID, key, value string) error {
	if err := s.client.Set(ctx, s.tabKey(tabID, key), value, s.tabTTL).Err(); err != nil {
		return fmt.Errorf("redis set tab slot: %w", err)
	}
	return nil
}

// DeleteTab removes a single tab-exclusive slot.
func (s *Store) DeleteTab(ctx context.Context, tabID, key string) error {
	if err := s.client.Del(ctx, s.tabKey(tabID, key)).Err(); err != nil {
		return fmt.Errorf("redis del tab slot: %w", err)
	}
	return nil
}

// ClearTab removes every slot owned by the tab via SCAN so large keyspaces
// are walked incrementally instead of blocking the server with KEYS.
func (s *Store) ClearTab(ctx context.Context, tabID string) error {
	iter := s.client.Scan(ctx, 0, s.tabPattern(tabID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan tab slots: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear tab slots: %w", err)
	}
	return nil
}

// GetShared reads the cross-tab shared slot.
func (s *Store) GetShared(ctx context.Context, key string) (string, bool, error) {
	return s.get(ctx, s.sharedKey(key))
}

// SetSharedIfAbsent seeds the shared slot with SET NX, which is atomic in
// Redis and therefore safe under concurrent seeding from many tabs.
func (s *Store) SetSharedIfAbsent(ctx context.Context, key, value string) (bool, error) {
	seeded, err := s.client.SetNX(ctx, s.sharedKey(key), value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis set shared slot: %w", err)
	}
	return seeded, nil
}

// DeleteShared removes the shared slot.
func (s *Store) DeleteShared(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.sharedKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del shared slot: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}
