package database

import (
	"context"
	"sync"

	"github.com/yeremiapane/gobblego/models"
)

type MemoryStore struct {
	session  *models.Session
	snapshot *models.CartSnapshot
	mutex    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveSession(_ context.Context, session models.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.session = &session
	return nil
}

func (s *MemoryStore) LoadSession(_ context.Context) (*models.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.session == nil {
		return nil, ErrNotFound
	}
	session := *s.session
	return &session, nil
}

func (s *MemoryStore) ClearSession(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.session = nil
	s.snapshot = nil
	return nil
}

func (s *MemoryStore) SaveCartSnapshot(_ context.Context, snapshot models.CartSnapshot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snapshot.Items = append([]models.CartItem(nil), snapshot.Items...)
	s.snapshot = &snapshot
	return nil
}

func (s *MemoryStore) LoadCartSnapshot(_ context.Context) (*models.CartSnapshot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.snapshot == nil {
		return nil, ErrNotFound
	}
	snapshot := *s.snapshot
	snapshot.Items = append([]models.CartItem(nil), s.snapshot.Items...)
	return &snapshot, nil
}

func (s *MemoryStore) Close() error { return nil }
