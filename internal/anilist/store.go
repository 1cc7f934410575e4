package anilist

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStoreSize is the LRU capacity used when none is configured.
const DefaultStoreSize = 1024

// Store is the cache abstraction for resolved title -> AniList id pairs.
// Implementations must be safe for concurrent use; concurrent Sets for the
// same key are last-writer-wins.
type Store interface {
	Get(title string) (int, bool)
	Set(title string, id int)
	Len() int
}

// LRUStore is a bounded Store that evicts the least recently used title.
type LRUStore struct {
	cache *lru.Cache[string, int]
}

// NewLRUStore returns a store holding at most size titles. If size <= 0,
// DefaultStoreSize is used.
func NewLRUStore(size int) (*LRUStore, error) {
	if size <= 0 {
		size = DefaultStoreSize
	}
	c, err := lru.New[string, int](size)
	if err != nil {
		return nil, fmt.Errorf("creating title cache: %w", err)
	}
	return &LRUStore{cache: c}, nil
}

// Get implements Store.Get.
func (s *LRUStore) Get(title string) (int, bool) {
	return s.cache.Get(title)
}

// Set implements Store.Set.
func (s *LRUStore) Set(title string, id int) {
	s.cache.Add(title, id)
}

// Len implements Store.Len.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}
