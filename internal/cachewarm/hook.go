package cachewarm

import (
	"context"

	"github.com/serroba/url-shortener/internal/messaging"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

// NewCreatedHook returns a registry hook that publishes a MappingCreatedEvent.
// Publish failures are logged; they never fail the create request.
func NewCreatedHook(publish messaging.Publish[MappingCreatedEvent], logger *zap.Logger) shortener.CreatedHook {
	return func(ctx context.Context, shortURL *shortener.ShortURL) {
		if err := publish(ctx, NewMappingCreatedEvent(shortURL)); err != nil {
			logger.Error("failed to publish mapping created event",
				zap.String("code", string(shortURL.Code)),
				zap.Error(err),
			)
		}
	}
}
