package shortener

import "testing"

func TestHashURL(t *testing.T) {
	t.Run("same input produces same hash", func(t *testing.T) {
		if HashURL("https://example.com/path") != HashURL("https://example.com/path") {
			t.Error("same input produced different hashes")
		}
	})

	t.Run("trailing slash is significant", func(t *testing.T) {
		if HashURL("https://example.com/path") == HashURL("https://example.com/path/") {
			t.Error("expected different hashes")
		}
	})

	t.Run("case is significant", func(t *testing.T) {
		if HashURL("https://EXAMPLE.com") == HashURL("https://example.com") {
			t.Error("expected different hashes")
		}
	})

	t.Run("hash is 64 hex characters (SHA256)", func(t *testing.T) {
		hash := HashURL("https://example.com/path")
		if len(hash) != 64 {
			t.Errorf("hash length is %d, expected 64", len(hash))
		}

		for _, c := range hash {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				t.Errorf("hash contains non-hex character: %c", c)
			}
		}
	})
}
