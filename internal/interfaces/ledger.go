package interfaces

import "time"

// StatusLedger records, per tracked relative path, the fingerprint seen at the
// last successful synchronization. Mutations are in-memory only until Save is
// called; Save rewrites the persisted mapping wholesale in one transaction.
type StatusLedger interface {
	Initialize(dbPath string) error
	Get(path string) (string, bool)
	Set(path string, fingerprint string)
	Remove(path string)
	Save(operation string, details string) error
	LastSync() (time.Time, error)
	Close() error
}
