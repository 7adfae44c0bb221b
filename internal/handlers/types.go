package handlers

import (
	"encoding/json"
	"mime"
	"net/url"
)

// CreateShortURLRequest is the request for creating a short URL.
// The body is a form with a "url" field; a JSON object with a "url" key is also accepted.
type CreateShortURLRequest struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte `contentType:"application/x-www-form-urlencoded"`
}

// URL extracts the submitted URL from the request body.
func (r *CreateShortURLRequest) URL() (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.ContentType)

	if mediaType == "application/json" {
		var body struct {
			URL string `json:"url"`
		}

		if err := json.Unmarshal(r.RawBody, &body); err != nil {
			return "", err
		}

		return body.URL, nil
	}

	values, err := url.ParseQuery(string(r.RawBody))
	if err != nil {
		return "", err
	}

	return values.Get("url"), nil
}

// CreateShortURLResponse carries either the mapping or an error message, always with status 200.
type CreateShortURLResponse struct {
	Body struct {
		OriginalURL string `doc:"The original URL" example:"https://www.freecodecamp.org" json:"original_url,omitempty"`
		ShortURL    string `doc:"The short code"   example:"aB3dE_9x"                     json:"short_url,omitempty"`
		Error       string `doc:"Error message"    example:"invalid url"                  json:"error,omitempty"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	ShortURL string `doc:"The short code" example:"aB3dE_9x" path:"short_url"`
}

// ErrorBody is the JSON body written when a short code cannot be resolved.
type ErrorBody struct {
	Error string `json:"error"`
}

// HelloResponse is the response of the hello endpoint.
type HelloResponse struct {
	Body struct {
		Greeting string `example:"hello API" json:"greeting"`
	}
}
