package feedback

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/valentinpelus/velocite/pkg/types"
)

// Store holds the feedback feed. It is filled once at construction and never
// mutated afterwards, so reads need no locking.
type Store struct {
	items []types.FeedbackItem
	index map[string]int
}

// Stats summarises the feed for the dashboard header
type Stats struct {
	Total       int                     `json:"total"`
	BySource    map[types.Source]int    `json:"bySource"`
	BySentiment map[types.Sentiment]int `json:"bySentiment"`
}

// NewStore validates items and builds an immutable store from a copy of them
func NewStore(items []types.FeedbackItem) (*Store, error) {
	s := &Store{
		items: make([]types.FeedbackItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.index[item.ID]; dup {
			return nil, fmt.Errorf("duplicate feedback id %q", item.ID)
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}

	return s, nil
}

// NewDefaultStore returns a store seeded with DefaultItems
func NewDefaultStore() *Store {
	s, err := NewStore(DefaultItems)
	if err != nil {
		panic(fmt.Sprintf("built-in feedback fixture is invalid: %v", err))
	}
	return s
}

// LoadFile builds a store from a JSON seed file ({"items":[...]})
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback file: %w", err)
	}

	var set types.FeedbackSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse feedback file %s: %w", path, err)
	}

	return NewStore(set.Items)
}

// All returns the feed in its original order. The slice is a copy.
func (s *Store) All() []types.FeedbackItem {
	out := make([]types.FeedbackItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up a single item by id
func (s *Store) Get(id string) (types.FeedbackItem, bool) {
	i, ok := s.index[id]
	if !ok {
		return types.FeedbackItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of items
func (s *Store) Len() int {
	return len(s.items)
}

// GetStats returns counts by source and sentiment
func (s *Store) GetStats() Stats {
	stats := Stats{
		Total:       len(s.items),
		BySource:    make(map[types.Source]int),
		BySentiment: make(map[types.Sentiment]int),
	}
	for _, item := range s.items {
		stats.BySource[item.Source]++
		stats.BySentiment[item.Sentiment]++
	}
	return stats
}
