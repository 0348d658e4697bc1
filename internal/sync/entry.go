package sync

// Entry is the three-way view of one tracked letter: the fingerprint on disk,
// the fingerprint on the gateway, and the fingerprint recorded at the last
// successful synchronization. An empty fingerprint means "absent".
type Entry struct {
	Path    string
	Local   string
	Remote  string
	Ledger  string
	Default bool
}

// EntryState classifies an entry's sync state. States are derived, never
// stored; divergence from the ledger fingerprint is the only signal used.
type EntryState int

const (
	// StateUnchanged means local, remote and ledger all agree.
	StateUnchanged EntryState = iota
	// StateLocallyModified means the local file diverged while the remote
	// entry still matches the ledger. Safe to push.
	StateLocallyModified
	// StateRemotelyModified means the remote entry diverged while the local
	// file still matches the ledger. Safe to pull.
	StateRemotelyModified
	// StateConflicted means both sides diverged from the ledger and disagree
	// with each other. Requires manual resolution; never overwritten.
	StateConflicted
	// StateRemoteOnly means the entry exists remotely but not locally. Pull
	// materializes it; typical for letters never synchronized before.
	StateRemoteOnly
	// StateLocalOnly means the file exists locally but not remotely. Push
	// creates the remote entry; pull leaves it untouched.
	StateLocalOnly
	// StateLedgerStale means local and remote agree with each other but the
	// ledger is behind. Only the ledger record needs advancing.
	StateLedgerStale
	// StateVanished means the ledger remembers a path that no longer exists
	// on either side. No action anywhere.
	StateVanished
)

func (s EntryState) String() string {
	switch s {
	case StateUnchanged:
		return "unchanged"
	case StateLocallyModified:
		return "locally modified"
	case StateRemotelyModified:
		return "remotely modified"
	case StateConflicted:
		return "conflicted"
	case StateRemoteOnly:
		return "new remote letter"
	case StateLocalOnly:
		return "local only"
	case StateLedgerStale:
		return "in sync, ledger stale"
	case StateVanished:
		return "vanished"
	default:
		return "unknown"
	}
}

// State derives the sync state from the three fingerprints.
func (e Entry) State() EntryState {
	switch {
	case e.Local == "" && e.Remote == "":
		return StateVanished
	case e.Remote == "":
		return StateLocalOnly
	case e.Local == "":
		return StateRemoteOnly
	case e.Local == e.Remote:
		if e.Ledger == e.Local {
			return StateUnchanged
		}
		return StateLedgerStale
	case e.Local == e.Ledger:
		return StateRemotelyModified
	case e.Remote == e.Ledger:
		return StateLocallyModified
	default:
		return StateConflicted
	}
}
