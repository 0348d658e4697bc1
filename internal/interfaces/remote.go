package interfaces

import "context"

// LetterEntry describes one letter in the remote template collection.
type LetterEntry struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
	Default     bool   `json:"default"`
}

// TemplateStore is the remote template collection. Listing order carries no
// meaning beyond deterministic display.
type TemplateStore interface {
	List(ctx context.Context) ([]LetterEntry, error)
	// Fetch returns the remote letter contents, failing with a
	// remote-not-found error when no such entry exists.
	Fetch(ctx context.Context, path string) ([]byte, error)
	// Put overwrites or creates a remote entry. A remote-rejected failure
	// means the gateway refused the content; callers must not advance the
	// ledger for that path.
	Put(ctx context.Context, path string, data []byte) error
}

// TestHarness renders a letter template against a test document in a given
// language and returns the captured artifact. Stateless across calls.
type TestHarness interface {
	Render(ctx context.Context, letterPath string, document []byte, language string) ([]byte, error)
}
