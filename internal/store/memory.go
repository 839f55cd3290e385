// Package store holds runtime configuration and the document-store
// client used by the journal. The production backend is an external
// document store; MemoryStore implements the same contract for tests
// and local runs.
package store

import (
	"context"
	"sort"
	"sync"

	"trade-journal/internal/interfaces"
	"trade-journal/internal/types"
)

// MemoryStore is a mutex-guarded in-memory Store keyed by user id and
// trade id.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]*types.Trade
}

var _ interfaces.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]*types.Trade)}
}

func (s *MemoryStore) Get(_ context.Context, userID, tradeID string) (*types.Trade, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.docs[userID][tradeID]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, trade *types.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[userID] == nil {
		s.docs[userID] = make(map[string]*types.Trade)
	}
	cp := *trade
	s.docs[userID][trade.ID] = &cp
	return nil
}

func (s *MemoryStore) Query(_ context.Context, userID, accountID string) ([]*types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Trade
	for _, t := range s.docs[userID] {
		if accountID != "" && t.AccountID != accountID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	// Map iteration order is random; callers get chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.Before(out[j].EntryTime) })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, tradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[userID], tradeID)
	return nil
}
