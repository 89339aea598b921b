package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/coinboard/internal/domain"
)

// FavoritesService owns the favorite set. Membership is by coin ID and
// the whole set is persisted after every toggle.
type FavoritesService struct {
	store  domain.Store
	logger *slog.Logger

	mu    sync.RWMutex
	coins []domain.Coin // insertion order

	// saveMu orders mutate+persist so storage always holds the latest set
	saveMu sync.Mutex
}

// NewFavoritesService loads the persisted favorites from store
func NewFavoritesService(store domain.Store, logger *slog.Logger) *FavoritesService {
	if logger == nil {
		logger = slog.Default()
	}
	coins, _ := store.GetFavorites()
	logger.Debug("loaded favorites", "count", len(coins))
	return &FavoritesService{store: store, logger: logger, coins: coins}
}

func (s *FavoritesService) indexOf(id string) int {
	for i, c := range s.coins {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Toggle removes the coin if it is a favorite and adds its snapshot otherwise.
// It returns the new set and whether the coin was added. A persistence error
// is returned but the in-memory change stands for the session.
func (s *FavoritesService) Toggle(coin domain.Coin) ([]domain.Coin, bool, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	var added bool
	if i := s.indexOf(coin.ID); i >= 0 {
		next := make([]domain.Coin, 0, len(s.coins)-1)
		next = append(next, s.coins[:i]...)
		s.coins = append(next, s.coins[i+1:]...)
	} else {
		s.coins = append(append([]domain.Coin(nil), s.coins...), coin)
		added = true
	}
	snapshot := s.coins
	s.mu.Unlock()

	s.logger.Debug("toggled favorite", "id", coin.ID, "added", added, "count", len(snapshot))

	if err := s.store.SaveFavorites(snapshot); err != nil {
		s.logger.Error("failed to save favorites", "error", err)
		return snapshot, added, fmt.Errorf("save favorites: %w", err)
	}
	return snapshot, added, nil
}

// IsFavorite reports whether a coin ID is in the set
func (s *FavoritesService) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// List returns the favorites in the order they were added.
// The returned slice is never mutated by the service.
func (s *FavoritesService) List() []domain.Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coins
}

// Len returns the number of favorites
func (s *FavoritesService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.coins)
}

// Search fuzzy-matches query against favorite names and IDs, best match first.
// An empty query returns the whole set.
func (s *FavoritesService) Search(query string) []domain.Coin {
	coins := s.List()
	if query == "" {
		return coins
	}

	targets := make([]string, 0, 2*len(coins))
	for _, c := range coins {
		targets = append(targets, c.Name, c.ID)
	}

	// Keep the best distance per coin; name and ID both map back to the same index
	best := make(map[int]int)
	for _, r := range fuzzy.RankFindFold(query, targets) {
		idx := r.OriginalIndex / 2
		if d, ok := best[idx]; !ok || r.Distance < d {
			best[idx] = r.Distance
		}
	}

	indexes := make([]int, 0, len(best))
	for idx := range best {
		indexes = append(indexes, idx)
	}
	sort.Slice(indexes, func(i, j int) bool {
		di, dj := best[indexes[i]], best[indexes[j]]
		if di != dj {
			return di < dj
		}
		return indexes[i] < indexes[j]
	})

	results := make([]domain.Coin, len(indexes))
	for i, idx := range indexes {
		results[i] = coins[idx]
	}
	return results
}
