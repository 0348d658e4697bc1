package sync

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestEntryState(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  EntryState
	}{
		{
			name:  "all agree",
			entry: Entry{Local: "h0", Remote: "h0", Ledger: "h0"},
			want:  StateUnchanged,
		},
		{
			name:  "local diverged",
			entry: Entry{Local: "h1", Remote: "h0", Ledger: "h0"},
			want:  StateLocallyModified,
		},
		{
			name:  "remote diverged",
			entry: Entry{Local: "h0", Remote: "h1", Ledger: "h0"},
			want:  StateRemotelyModified,
		},
		{
			name:  "both diverged and disagree",
			entry: Entry{Local: "h1", Remote: "h2", Ledger: "h0"},
			want:  StateConflicted,
		},
		{
			name:  "both diverged but agree",
			entry: Entry{Local: "h1", Remote: "h1", Ledger: "h0"},
			want:  StateLedgerStale,
		},
		{
			name:  "never seen, remote only",
			entry: Entry{Local: "", Remote: "h1", Ledger: ""},
			want:  StateRemoteOnly,
		},
		{
			name:  "never pushed, local only",
			entry: Entry{Local: "h1", Remote: "", Ledger: ""},
			want:  StateLocalOnly,
		},
		{
			name:  "ledger remembers a ghost",
			entry: Entry{Local: "", Remote: "", Ledger: "h0"},
			want:  StateVanished,
		},
		{
			name:  "deleted locally after sync",
			entry: Entry{Local: "", Remote: "h0", Ledger: "h0"},
			want:  StateRemoteOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestProperty_Classification checks the classification invariants over random
// fingerprint triples drawn from a small alphabet so collisions are frequent.
func TestProperty_Classification(t *testing.T) {
	properties := gopter.NewProperties(nil)
	fingerprint := gen.OneConstOf("", "h0", "h1", "h2")

	properties.Property("conflicted means pairwise disagreement", prop.ForAll(
		func(local, remote, ledger string) bool {
			entry := Entry{Local: local, Remote: remote, Ledger: ledger}
			if entry.State() != StateConflicted {
				return true
			}
			return local != remote && local != ledger && remote != ledger
		},
		fingerprint, fingerprint, fingerprint,
	))

	properties.Property("unchanged means full agreement", prop.ForAll(
		func(local, remote, ledger string) bool {
			entry := Entry{Local: local, Remote: remote, Ledger: ledger}
			if entry.State() != StateUnchanged {
				return true
			}
			return local == remote && remote == ledger && local != ""
		},
		fingerprint, fingerprint, fingerprint,
	))

	properties.Property("agreement between sides never conflicts", prop.ForAll(
		func(content, ledger string) bool {
			entry := Entry{Local: content, Remote: content, Ledger: ledger}
			return entry.State() != StateConflicted
		},
		fingerprint, fingerprint,
	))

	properties.TestingRun(t)
}
