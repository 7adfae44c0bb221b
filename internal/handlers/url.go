package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener/internal/metrics"
	"github.com/serroba/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgInvalidURL    = "invalid url"
	msgNoShortURL    = "No short URL found for the given input"
	msgDatabaseError = "Database error"
)

// Registry creates and resolves short URLs.
type Registry interface {
	Create(ctx context.Context, candidate string) (*shortener.ShortURL, error)
	Resolve(ctx context.Context, code string) (*shortener.ShortURL, error)
}

// URLHandler handles URL shortening operations.
//
// Failures are reported as 200 responses with an "error" field rather than 4xx/5xx.
type URLHandler struct {
	registry Registry
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(registry Registry, m *metrics.Metrics, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	resp := &CreateShortURLResponse{}

	candidate, err := req.URL()
	if err != nil {
		h.logger.Debug("unreadable create request body", zap.Error(err))
		h.observe("create", "invalid_url")
		resp.Body.Error = msgInvalidURL

		return resp, nil
	}

	shortURL, err := h.registry.Create(ctx, candidate)
	if err != nil {
		if errors.Is(err, shortener.ErrInvalidURL) {
			h.logger.Info("invalid url", zap.String("url", candidate), zap.Error(err))
			h.observe("create", "invalid_url")
		} else {
			h.logger.Error("failed to create short url", zap.String("url", candidate), zap.Error(err))
			h.observe("create", "store_error")
		}

		resp.Body.Error = msgInvalidURL

		return resp, nil
	}

	h.observe("create", "ok")

	resp.Body.OriginalURL = shortURL.OriginalURL
	resp.Body.ShortURL = string(shortURL.Code)

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*huma.StreamResponse, error) {
	shortURL, err := h.registry.Resolve(ctx, req.ShortURL)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			h.observe("resolve", "not_found")

			return h.jsonResponse(&ErrorBody{Error: msgNoShortURL}), nil
		}

		h.logger.Error("failed to resolve short url", zap.String("code", req.ShortURL), zap.Error(err))
		h.observe("resolve", "store_error")

		return h.jsonResponse(&ErrorBody{Error: msgDatabaseError}), nil
	}

	h.observe("resolve", "ok")

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Location", shortURL.OriginalURL)
			ctx.SetStatus(http.StatusFound)
		},
	}, nil
}

func (h *URLHandler) Hello(_ context.Context, _ *struct{}) (*HelloResponse, error) {
	resp := &HelloResponse{}
	resp.Body.Greeting = "hello API"

	return resp, nil
}

func (h *URLHandler) observe(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.RegistryOutcomes.WithLabelValues(operation, outcome).Inc()
	}
}

// jsonResponse writes body as JSON with status 200.
func (h *URLHandler) jsonResponse(body any) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetStatus(http.StatusOK)

			if err := writeJSON(ctx.BodyWriter(), body); err != nil {
				h.logger.Warn("failed to write response body", zap.String("path", ctx.URL().Path), zap.Error(err))
			}
		},
	}
}

func writeJSON(w io.Writer, body any) error {
	return json.NewEncoder(w).Encode(body)
}
