package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// APIConfig returns the huma configuration for the service.
// The schema link hook is dropped so JSON bodies carry no "$schema" field.
func APIConfig() huma.Config {
	config := huma.DefaultConfig("URL Shortener", "1.0.0")
	config.CreateHooks = nil

	return config
}

// RegisterRoutes registers the URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/api/shorturl",
		Summary:     "Create short URL",
		Description: "Returns the short code for a URL, creating it on first submission. " +
			"Invalid or unresolvable URLs yield {\"error\": \"invalid url\"} with status 200.",
		Tags: []string{"URLs"},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/api/shorturl/{short_url}",
		Summary:     "Redirect to original URL",
		Description: "Redirects (302) to the original URL for the short code. " +
			"Unknown codes yield a JSON error body with status 200.",
		Tags: []string{"URLs"},
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		OperationID: "hello",
		Method:      http.MethodGet,
		Path:        "/api/hello",
		Summary:     "Greeting",
		Tags:        []string{"Misc"},
	}, urlHandler.Hello)
}
