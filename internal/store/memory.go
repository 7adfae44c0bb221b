package store

import (
	"context"
	"sync"

	"github.com/serroba/url-shortener/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	urls   map[shortener.Code]shortener.ShortURL
	hashes map[shortener.URLHash]shortener.Code
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:   make(map[shortener.Code]shortener.ShortURL),
		hashes: make(map[shortener.URLHash]shortener.Code),
	}
}

func (m *MemoryStore) Save(_ context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if code, ok := m.hashes[shortURL.URLHash]; ok {
		existing := m.urls[code]

		return &existing, nil
	}

	if _, ok := m.urls[shortURL.Code]; ok {
		return nil, shortener.ErrCodeConflict
	}

	m.urls[shortURL.Code] = *shortURL
	m.hashes[shortURL.URLHash] = shortURL.Code

	stored := *shortURL

	return &stored, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.hashes[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	url := m.urls[code]

	return &url, nil
}

var _ shortener.Repository = (*MemoryStore)(nil)
