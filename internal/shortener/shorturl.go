package shortener

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("short url not found")
	ErrInvalidURL   = errors.New("invalid url")
	ErrCodeConflict = errors.New("short code already taken")
	ErrStore        = errors.New("store failure")

	// ErrCodeExhausted is returned when every generated code collided with an existing one.
	ErrCodeExhausted = errors.New("could not allocate a unique short code")
)

// Code represents a short URL code.
type Code string

// URLHash is the hex SHA-256 of an original URL, used as the dedup key.
type URLHash string

// ShortURL is the mapping between a short code and the URL it stands for.
type ShortURL struct {
	Code        Code
	OriginalURL string
	URLHash     URLHash
	CreatedAt   time.Time
}

// Repository persists ShortURL mappings.
type Repository interface {
	// Save stores shortURL unless a mapping with the same URLHash already exists.
	// In that case the existing mapping is returned and nothing is written.
	// Returns ErrCodeConflict when the code belongs to another mapping.
	Save(ctx context.Context, shortURL *ShortURL) (*ShortURL, error)

	// GetByCode returns ErrNotFound if no mapping uses code.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// GetByHash returns ErrNotFound if no mapping has the given URL hash.
	GetByHash(ctx context.Context, hash URLHash) (*ShortURL, error)
}
