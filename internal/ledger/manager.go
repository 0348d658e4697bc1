package ledger

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lettersync/cli/internal/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Manager implements the StatusLedger interface on top of a SQLite database.
// The full path→fingerprint mapping is loaded into memory on Initialize;
// Get/Set/Remove touch only the in-memory copy, and Save rewrites the
// persisted mapping wholesale inside one transaction. A crash between saves
// therefore loses at most the unsaved tail, never already-flushed entries.
type Manager struct {
	db           *sql.DB
	fingerprints map[string]string
}

// NewManager creates a new status ledger manager
func NewManager() *Manager {
	return &Manager{}
}

// Initialize opens the database, creates the schema if needed, and loads the
// fingerprint mapping. A missing database file means no history, not an error.
func (m *Manager) Initialize(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return errors.NewGenericError("failed to open status database", err)
	}

	m.db = db

	// Test the database connection to detect corruption early
	if err := m.db.Ping(); err != nil {
		m.db.Close()
		return errors.NewGenericError("status database is corrupted or inaccessible", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS letters (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		last_synced TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		operation TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		details TEXT
	);
	`

	if _, err := m.db.Exec(schema); err != nil {
		m.db.Close()
		if isCorruptionError(err) {
			return errors.NewGenericError("status database is corrupted and cannot be initialized", err)
		}
		return errors.NewGenericError("failed to create status database schema", err)
	}

	return m.load()
}

// isCorruptionError checks if an error indicates database corruption
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.Contains(errMsg, "database disk image is malformed") ||
		strings.Contains(errMsg, "file is not a database") ||
		strings.Contains(errMsg, "database is locked") ||
		strings.Contains(errMsg, "database corruption")
}

// load reads the persisted mapping into memory wholesale.
func (m *Manager) load() error {
	rows, err := m.db.Query("SELECT path, fingerprint FROM letters")
	if err != nil {
		if isCorruptionError(err) {
			return errors.NewGenericError("status database is corrupted", err)
		}
		return errors.NewGenericError("failed to query letter fingerprints", err)
	}
	defer rows.Close()

	fingerprints := make(map[string]string)
	for rows.Next() {
		var path, fingerprint string
		if err := rows.Scan(&path, &fingerprint); err != nil {
			return errors.NewGenericError("failed to scan letter row", err)
		}
		fingerprints[path] = fingerprint
	}

	if err := rows.Err(); err != nil {
		return errors.NewGenericError("failed to iterate letter rows", err)
	}

	m.fingerprints = fingerprints
	return nil
}

// Get returns the recorded fingerprint for a path, if any.
func (m *Manager) Get(path string) (string, bool) {
	fingerprint, ok := m.fingerprints[path]
	return fingerprint, ok
}

// Set records a fingerprint in memory. Callers must Save after a batch of
// successful applies.
func (m *Manager) Set(path string, fingerprint string) {
	if m.fingerprints == nil {
		m.fingerprints = make(map[string]string)
	}
	m.fingerprints[path] = fingerprint
}

// Remove drops a path from the in-memory mapping.
func (m *Manager) Remove(path string) {
	delete(m.fingerprints, path)
}

// Paths returns every tracked path in the ledger, sorted.
func (m *Manager) Paths() []string {
	paths := make([]string, 0, len(m.fingerprints))
	for path := range m.fingerprints {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Save persists the full mapping in one transaction and records the operation
// in the sync history.
func (m *Manager) Save(operation string, details string) error {
	if m.db == nil {
		return errors.NewGenericError("status database not initialized", nil)
	}

	tx, err := m.db.Begin()
	if err != nil {
		if isCorruptionError(err) {
			return errors.NewGenericError("status database is corrupted", err)
		}
		return errors.NewGenericError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	timestamp := time.Now()

	if _, err := tx.Exec("DELETE FROM letters"); err != nil {
		return errors.NewGenericError("failed to clear letter fingerprints", err)
	}

	stmt, err := tx.Prepare("INSERT INTO letters (path, fingerprint, last_synced) VALUES (?, ?, ?)")
	if err != nil {
		return errors.NewGenericError("failed to prepare statement", err)
	}
	defer stmt.Close()

	for path, fingerprint := range m.fingerprints {
		if _, err := stmt.Exec(path, fingerprint, timestamp); err != nil {
			return errors.NewGenericError(fmt.Sprintf("failed to insert fingerprint for %s", path), err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO sync_history (operation, timestamp, status, details) VALUES (?, ?, ?, ?)",
		operation,
		timestamp,
		"success",
		details,
	); err != nil {
		return errors.NewGenericError("failed to record sync history", err)
	}

	if err := tx.Commit(); err != nil {
		if isCorruptionError(err) {
			return errors.NewGenericError("status database is corrupted", err)
		}
		return errors.NewGenericError("failed to commit transaction", err)
	}

	return nil
}

// LastSync retrieves the timestamp of the last successful synchronization.
func (m *Manager) LastSync() (time.Time, error) {
	if m.db == nil {
		return time.Time{}, errors.NewGenericError("status database not initialized", nil)
	}

	var timestampStr sql.NullString
	err := m.db.QueryRow(`
		SELECT MAX(timestamp) FROM sync_history WHERE status = 'success'
	`).Scan(&timestampStr)

	if err == sql.ErrNoRows || !timestampStr.Valid {
		return time.Time{}, nil
	}

	if err != nil {
		return time.Time{}, errors.NewGenericError("failed to get last sync timestamp", err)
	}

	// SQLite stores timestamps in a handful of formats depending on the
	// driver version; try them in order.
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		time.DateTime,
	}

	var timestamp time.Time
	var parseErr error
	for _, format := range formats {
		timestamp, parseErr = time.Parse(format, timestampStr.String)
		if parseErr == nil {
			return timestamp, nil
		}
	}

	return time.Time{}, errors.NewGenericError("failed to parse timestamp", parseErr)
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}

	if err := m.db.Close(); err != nil {
		return errors.NewGenericError("failed to close status database", err)
	}

	m.db = nil
	return nil
}
