// Package cachewarm pushes newly created mappings into the redirect cache.
//
// The server publishes a MappingCreatedEvent for every new mapping; the consumer
// binary subscribes and writes the mapping into Redis so the first redirect is a cache hit.
package cachewarm

import (
	"time"

	"github.com/serroba/url-shortener/internal/shortener"
)

const TopicMappingCreated = "mapping.created"

// MappingCreatedEvent is emitted when a new short URL mapping is stored.
type MappingCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	URLHash     string    `json:"urlHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMappingCreatedEvent builds the event for shortURL.
func NewMappingCreatedEvent(shortURL *shortener.ShortURL) *MappingCreatedEvent {
	return &MappingCreatedEvent{
		Code:        string(shortURL.Code),
		OriginalURL: shortURL.OriginalURL,
		URLHash:     string(shortURL.URLHash),
		CreatedAt:   shortURL.CreatedAt,
	}
}

// ShortURL converts the event back to the domain mapping.
func (e *MappingCreatedEvent) ShortURL() *shortener.ShortURL {
	return &shortener.ShortURL{
		Code:        shortener.Code(e.Code),
		OriginalURL: e.OriginalURL,
		URLHash:     shortener.URLHash(e.URLHash),
		CreatedAt:   e.CreatedAt,
	}
}
