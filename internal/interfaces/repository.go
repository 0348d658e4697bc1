package interfaces

// LetterRepository enumerates and accesses the tracked letter files on disk.
// Paths are always relative to the tracked root and slash-separated.
type LetterRepository interface {
	// List returns every tracked relative path, sorted.
	List() ([]string, error)
	// Fingerprint returns the SHA-256 content fingerprint of a tracked file,
	// or "" if the file does not exist locally.
	Fingerprint(path string) (string, error)
	// Read returns the file contents, failing with a not-found error when the
	// file is absent.
	Read(path string) ([]byte, error)
	// Write stores the file contents, creating parent directories as needed.
	Write(path string, data []byte) error
	// Root returns the absolute path of the tracked root directory.
	Root() string
}
