package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/serroba/url-shortener/internal/shortener"
	"github.com/serroba/url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShortURL(code, url string) *shortener.ShortURL {
	return &shortener.ShortURL{
		Code:        shortener.Code(code),
		OriginalURL: url,
		URLHash:     shortener.HashURL(url),
	}
}

func TestMemoryStore_Save(t *testing.T) {
	t.Run("saves url successfully", func(t *testing.T) {
		s := store.NewMemoryStore()

		stored, err := s.Save(context.Background(), newShortURL("abc123", "https://example.com"))

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("abc123"), stored.Code)
	})

	t.Run("returns existing mapping for a known url", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.Save(context.Background(), newShortURL("abc123", "https://example.com"))

		stored, err := s.Save(context.Background(), newShortURL("def456", "https://example.com"))

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("abc123"), stored.Code)

		_, err = s.GetByCode(context.Background(), "def456")
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("rejects a taken code without overwriting", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.Save(context.Background(), newShortURL("abc123", "https://example.com"))

		stored, err := s.Save(context.Background(), newShortURL("abc123", "https://other.com"))

		assert.Nil(t, stored)
		require.ErrorIs(t, err, shortener.ErrCodeConflict)

		url, _ := s.GetByCode(context.Background(), "abc123")
		assert.Equal(t, "https://example.com", url.OriginalURL)
	})

	t.Run("concurrent saves of one url keep a single mapping", func(t *testing.T) {
		s := store.NewMemoryStore()

		var wg sync.WaitGroup

		codes := make([]shortener.Code, 20)

		for i := range codes {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				stored, err := s.Save(context.Background(), newShortURL(fmt.Sprintf("code%02d", i), "https://example.com"))
				if err == nil {
					codes[i] = stored.Code
				}
			}(i)
		}

		wg.Wait()

		for _, code := range codes {
			assert.Equal(t, codes[0], code)
		}
	})
}

func TestMemoryStore_GetByCode(t *testing.T) {
	t.Run("returns url when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.Save(context.Background(), newShortURL("abc123", "https://example.com"))

		url, err := s.GetByCode(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url.OriginalURL)
	})

	t.Run("returns ErrNotFound when code does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		url, err := s.GetByCode(context.Background(), "notfound")

		assert.Nil(t, url)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_GetByHash(t *testing.T) {
	t.Run("returns url when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, _ = s.Save(context.Background(), newShortURL("abc123", "https://example.com"))

		url, err := s.GetByHash(context.Background(), shortener.HashURL("https://example.com"))

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("abc123"), url.Code)
	})

	t.Run("returns ErrNotFound when hash does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		url, err := s.GetByHash(context.Background(), shortener.HashURL("https://example.com"))

		assert.Nil(t, url)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}
