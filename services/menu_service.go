package services

import (
	"context"
	"sync"

	"github.com/yeremiapane/gobblego/models"
	"github.com/yeremiapane/gobblego/notify"
	"github.com/yeremiapane/gobblego/utils"
)

// MenuService caches the read-only catalog.
type MenuService struct {
	backend  Backend
	notifier notify.Notifier

	mutex  sync.RWMutex
	items  []models.MenuItem
	byID   map[string]models.MenuItem
	loaded bool
}

func NewMenuService(backend Backend, notifier notify.Notifier) *MenuService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &MenuService{backend: backend, notifier: notifier, byID: map[string]models.MenuItem{}}
}

// Fetch replaces the cached catalog. On failure the previous catalog stays.
func (s *MenuService) Fetch(ctx context.Context, category string) ([]models.MenuItem, error) {
	items, err := s.backend.ListMenu(ctx, category)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to fetch menu: %v", err)
		s.notifier.Error(notify.EventMenuError, UserMessage(err), nil)
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	// Filtered fetches do not replace the full catalog
	if category != "" {
		return items, nil
	}

	byID := make(map[string]models.MenuItem, len(items))
	for _, it := range items {
		byID[it.ItemID] = it
	}

	s.mutex.Lock()
	s.items = items
	s.byID = byID
	s.loaded = true
	s.mutex.Unlock()

	utils.InfoLogger.Debugf("Menu loaded with %d items", len(items))
	return s.Items(""), nil
}

// Loaded reports whether a full catalog has been fetched at least once.
func (s *MenuService) Loaded() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loaded
}

// Items filters the cached catalog locally, keeping catalog order.
func (s *MenuService) Items(category string) []models.MenuItem {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Categories returns distinct categories in first-seen order.
func (s *MenuService) Categories() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, it := range s.items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		categories = append(categories, it.Category)
	}
	return categories
}

func (s *MenuService) Find(itemID string) (models.MenuItem, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	it, ok := s.byID[itemID]
	return it, ok
}
