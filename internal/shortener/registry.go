package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultMaxAttempts = 5

// CodeGenerator generates random short codes.
type CodeGenerator func() string

// CreatedHook is called after a new mapping has been persisted.
// It is not called when Create returns an existing mapping.
type CreatedHook func(ctx context.Context, shortURL *ShortURL)

// Validator checks a candidate URL before it is stored.
type Validator interface {
	Validate(ctx context.Context, candidate string) error
}

// Registry creates and resolves short URL mappings.
type Registry struct {
	store        Repository
	validator    Validator
	generateCode CodeGenerator
	onCreated    CreatedHook
	maxAttempts  int
	now          func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithCreatedHook registers a hook fired for every newly minted mapping.
func WithCreatedHook(hook CreatedHook) Option {
	return func(r *Registry) {
		r.onCreated = hook
	}
}

// WithMaxAttempts sets how many codes are tried before giving up on collisions.
func WithMaxAttempts(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store Repository, validator Validator, generator CodeGenerator, opts ...Option) *Registry {
	r := &Registry{
		store:        store,
		validator:    validator,
		generateCode: generator,
		maxAttempts:  defaultMaxAttempts,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Create returns the mapping for candidate, minting a new code only when the
// exact URL has never been stored.
func (r *Registry) Create(ctx context.Context, candidate string) (*ShortURL, error) {
	if err := r.validator.Validate(ctx, candidate); err != nil {
		return nil, err
	}

	urlHash := HashURL(candidate)

	existing, err := r.store.GetByHash(ctx, urlHash)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	for i := 0; i < r.maxAttempts; i++ {
		shortURL := &ShortURL{
			Code:        Code(r.generateCode()),
			OriginalURL: candidate,
			URLHash:     urlHash,
			CreatedAt:   r.now().UTC(),
		}

		stored, err := r.store.Save(ctx, shortURL)
		if errors.Is(err, ErrCodeConflict) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStore, err)
		}

		// A concurrent request may have stored the same URL first.
		if stored.Code == shortURL.Code && r.onCreated != nil {
			r.onCreated(ctx, stored)
		}

		return stored, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrStore, ErrCodeExhausted)
}

// Resolve returns the mapping for code, or ErrNotFound.
func (r *Registry) Resolve(ctx context.Context, code string) (*ShortURL, error) {
	shortURL, err := r.store.GetByCode(ctx, Code(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	return shortURL, nil
}
