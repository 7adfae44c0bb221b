package cachewarm

import (
	"context"
	"fmt"

	"github.com/serroba/url-shortener/internal/messaging"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

var errIncompleteEvent = fmt.Errorf("%w: mapping created event missing code or url", messaging.ErrPermanent)

// Warmer stores a mapping in the redirect cache.
type Warmer interface {
	Warm(ctx context.Context, shortURL *shortener.ShortURL) error
}

// NewHandler returns a message handler that warms the cache for each event.
func NewHandler(warmer Warmer, logger *zap.Logger) messaging.Handler[MappingCreatedEvent] {
	return func(ctx context.Context, event *MappingCreatedEvent) error {
		if event.Code == "" || event.OriginalURL == "" {
			return errIncompleteEvent
		}

		if err := warmer.Warm(ctx, event.ShortURL()); err != nil {
			return err
		}

		logger.Debug("cache warmed", zap.String("code", event.Code))

		return nil
	}
}
