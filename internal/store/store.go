package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/coinboard/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// SchemaVersion is bumped whenever the persisted page or response format changes.
// Favorites survive a bump; cached pages and responses do not.
const SchemaVersion = 1

// Bucket names
var (
	bucketMeta      = []byte("meta")
	bucketPages     = []byte("pages")
	bucketFavorites = []byte("favorites")
	bucketResponses = []byte("responses")
)

var allBuckets = [][]byte{bucketMeta, bucketPages, bucketFavorites, bucketResponses}

const (
	keySchemaVersion = "schema_version"
	keyFavorites     = "favorites"
	pageKeyPrefix    = "coins-cache-"
)

// PageKey returns the cache key for a page number (coins-cache-<N>)
func PageKey(number int) string {
	return pageKeyPrefix + strconv.Itoa(number)
}

// Store implements domain.Store and domain.ResponseStore using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) coinboard.db under dir. An empty dir gives a
// memory-only store with no persistence.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "coinboard.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return migrate(tx)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

// migrate clears version-sensitive buckets when the stored schema differs.
func migrate(tx *bolt.Tx) error {
	meta := tx.Bucket(bucketMeta)
	stored := 0
	if v := meta.Get([]byte(keySchemaVersion)); v != nil {
		stored, _ = strconv.Atoi(string(v))
	}
	if stored == SchemaVersion {
		return nil
	}

	for _, name := range [][]byte{bucketPages, bucketResponses} {
		if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		if _, err := tx.CreateBucket(name); err != nil {
			return err
		}
	}
	return meta.Put([]byte(keySchemaVersion), []byte(strconv.Itoa(SchemaVersion)))
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *Store) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *Store) clearBucket(bucket []byte) {
	s.mu.Lock()
	prefix := string(bucket) + ":"
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Pages ===

func (s *Store) GetPage(number int) (domain.Page, bool) {
	var page domain.Page
	ok := s.get(bucketPages, PageKey(number), &page)
	return page, ok
}

func (s *Store) SavePage(page domain.Page) error {
	return s.set(bucketPages, PageKey(page.Number), page)
}

// PageNumbers lists the page numbers currently cached, ascending
func (s *Store) PageNumbers() []int {
	seen := make(map[int]bool)

	s.mu.RLock()
	prefix := string(bucketPages) + ":" + pageKeyPrefix
	for k := range s.cache {
		if strings.HasPrefix(k, prefix) {
			if n, err := strconv.Atoi(strings.TrimPrefix(k, prefix)); err == nil {
				seen[n] = true
			}
		}
	}
	s.mu.RUnlock()

	if s.db != nil {
		s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketPages).ForEach(func(k, _ []byte) error {
				if key := string(k); strings.HasPrefix(key, pageKeyPrefix) {
					if n, err := strconv.Atoi(strings.TrimPrefix(key, pageKeyPrefix)); err == nil {
						seen[n] = true
					}
				}
				return nil
			})
		})
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// === Favorites ===

func (s *Store) GetFavorites() ([]domain.Coin, bool) {
	var coins []domain.Coin
	ok := s.get(bucketFavorites, keyFavorites, &coins)
	return coins, ok
}

func (s *Store) SaveFavorites(coins []domain.Coin) error {
	if coins == nil {
		coins = []domain.Coin{}
	}
	return s.set(bucketFavorites, keyFavorites, coins)
}

// === Responses (network-first HTTP cache) ===

func (s *Store) GetResponse(key string) (domain.CachedResponse, bool) {
	var resp domain.CachedResponse
	ok := s.get(bucketResponses, key, &resp)
	return resp, ok
}

func (s *Store) SaveResponse(key string, resp domain.CachedResponse, maxEntries int) error {
	if err := s.set(bucketResponses, key, resp); err != nil {
		return err
	}
	if maxEntries > 0 {
		s.evictResponses(maxEntries)
	}
	return nil
}

// evictResponses removes the oldest stored responses until at most max remain
func (s *Store) evictResponses(max int) {
	type entry struct {
		key      string
		storedAt time.Time
	}

	var entries []entry
	if s.db == nil {
		s.mu.RLock()
		prefix := string(bucketResponses) + ":"
		for k, v := range s.cache {
			if strings.HasPrefix(k, prefix) {
				var r domain.CachedResponse
				if json.Unmarshal(v, &r) == nil {
					entries = append(entries, entry{key: strings.TrimPrefix(k, prefix), storedAt: r.StoredAt})
				}
			}
		}
		s.mu.RUnlock()
	} else {
		s.db.View(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketResponses).ForEach(func(k, v []byte) error {
				var r domain.CachedResponse
				if json.Unmarshal(v, &r) == nil {
					entries = append(entries, entry{key: string(k), storedAt: r.StoredAt})
				}
				return nil
			})
		})
	}

	if len(entries) <= max {
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].storedAt.Before(entries[j].storedAt)
	})
	for _, e := range entries[:len(entries)-max] {
		s.delete(bucketResponses, e.key)
	}
}

// === Invalidation ===

// InvalidatePages wipes every cached page
func (s *Store) InvalidatePages() {
	s.clearBucket(bucketPages)
}

// InvalidateResponses wipes the network-first response cache
func (s *Store) InvalidateResponses() {
	s.clearBucket(bucketResponses)
}

// InvalidateAll wipes cached pages and responses. Favorites are user data and stay.
func (s *Store) InvalidateAll() {
	s.InvalidatePages()
	s.InvalidateResponses()
}
