package shortener

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
)

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// URLValidator accepts absolute URLs whose hostname resolves.
// The scheme is not restricted, so ftp:// and similar URLs pass.
type URLValidator struct {
	resolver Resolver
	timeout  time.Duration
	validate *validator.Validate
}

// NewURLValidator creates a validator. A zero timeout leaves DNS lookups unbounded.
func NewURLValidator(resolver Resolver, timeout time.Duration) *URLValidator {
	return &URLValidator{
		resolver: resolver,
		timeout:  timeout,
		validate: validator.New(),
	}
}

// Validate returns an error wrapping ErrInvalidURL when candidate is malformed
// or its host cannot be resolved.
func (v *URLValidator) Validate(ctx context.Context, candidate string) error {
	if err := v.validate.Var(candidate, "required,url"); err != nil {
		return ErrInvalidURL
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return ErrInvalidURL
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	if _, err = v.resolver.LookupHost(ctx, u.Hostname()); err != nil {
		return fmt.Errorf("%w: lookup %s: %w", ErrInvalidURL, u.Hostname(), err)
	}

	return nil
}
