package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/url-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

// stubResolver resolves every host except those listed in missing.
type stubResolver struct {
	missing map[string]bool
	calls   []string
}

func (s *stubResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	s.calls = append(s.calls, host)

	if s.missing[host] {
		return nil, errors.New("no such host")
	}

	return []string{"127.0.0.1"}, nil
}

// countingStore wraps a repository and counts writes.
type countingStore struct {
	shortener.Repository

	mu    sync.Mutex
	saves int
}

func (c *countingStore) Save(ctx context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()

	return c.Repository.Save(ctx, shortURL)
}

// mockStore returns configured errors.
type mockStore struct {
	saveErr      error
	getByCodeErr error
	getByHashErr error
}

func (m *mockStore) Save(_ context.Context, shortURL *shortener.ShortURL) (*shortener.ShortURL, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}

	return shortURL, nil
}

func (m *mockStore) GetByCode(_ context.Context, _ shortener.Code) (*shortener.ShortURL, error) {
	return nil, m.getByCodeErr
}

func (m *mockStore) GetByHash(_ context.Context, _ shortener.URLHash) (*shortener.ShortURL, error) {
	return nil, m.getByHashErr
}

// sequence returns a generator yielding codes in order, then repeating the last one.
func sequence(codes ...string) shortener.CodeGenerator {
	i := 0

	return func() string {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}

		return code
	}
}
