// Package memstorage provides an in-memory implementation of ports.Storage.
// It is the default backend for single-node deployments and the fake used
// by unit tests across the repository.
package memstorage

import (
	"context"
	"sync"

	"github.com/agrilink/tab-session-api/internal/ports"
)

// Store keeps tab and shared slots in maps guarded by one mutex.
// Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	tabs   map[string]map[string]string
	shared map[string]string
}

var _ ports.Storage = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tabs:   make(map[string]map[string]string),
		shared: make(map[string]string),
	}
}

// GetTab reads a tab-exclusive slot.
func (s *Store) GetTab(_ context.Context, tabID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.tabs[tabID]
	if !ok {
		return "", false, nil
	}
	value, ok := slots[key]
	return value, ok, nil
}

// SetTab writes a tab-exclusive slot.
func (s *Store) SetTab(_ context.Context, tabID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.tabs[tabID]
	if !ok {
		slots = make(map[string]string)
		s.tabs[tabID] = slots
	}
	slots[key] = value
	return nil
}

// DeleteTab removes a single tab-exclusive slot.
func (s *Store) DeleteTab(_ context.Context, tabID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slots, ok := s.tabs[tabID]; ok {
		delete(slots, key)
	}
	return nil
}

// ClearTab removes every slot owned by the tab.
func (s *Store) ClearTab(_ context.Context, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tabs, tabID)
	return nil
}

// GetShared reads the cross-tab shared slot.
func (s *Store) GetShared(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.shared[key]
	return value, ok, nil
}

// SetSharedIfAbsent seeds the shared slot only when empty.
func (s *Store) SetSharedIfAbsent(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shared[key]; exists {
		return false, nil
	}
	s.shared[key] = value
	return true, nil
}

// DeleteShared removes the shared slot.
func (s *Store) DeleteShared(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.shared, key)
	return nil
}
