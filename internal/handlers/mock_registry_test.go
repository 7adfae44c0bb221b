package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/url-shortener/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://www.freecodecamp.org"

// mockRegistry is a test double for handlers.Registry that returns configured errors.
type mockRegistry struct {
	createErr  error
	resolveErr error
}

func (m *mockRegistry) Create(_ context.Context, candidate string) (*shortener.ShortURL, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	return &shortener.ShortURL{Code: "abc12345", OriginalURL: candidate}, nil
}

func (m *mockRegistry) Resolve(_ context.Context, code string) (*shortener.ShortURL, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}

	return &shortener.ShortURL{Code: shortener.Code(code), OriginalURL: testURL}, nil
}

// stubResolver resolves every host except *.invalid names.
type stubResolver struct{}

func (stubResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if len(host) > 8 && host[len(host)-8:] == ".invalid" {
		return nil, errors.New("no such host")
	}

	return []string{"127.0.0.1"}, nil
}

// countingRegistry records the candidates passed to Create.
type countingRegistry struct {
	mockRegistry
	creates       int
	lastCandidate string
}

func (c *countingRegistry) Create(ctx context.Context, candidate string) (*shortener.ShortURL, error) {
	c.creates++
	c.lastCandidate = candidate

	return c.mockRegistry.Create(ctx, candidate)
}
