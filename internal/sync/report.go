package sync

import (
	"fmt"
	"io"
)

// Conflict describes one entry that diverged on both sides. It carries enough
// identifying information for a human or a calling script to act on it.
type Conflict struct {
	Path              string
	LocalFingerprint  string
	RemoteFingerprint string
	Reason            string
}

// Failure describes one entry whose apply step failed without aborting the
// rest of the batch.
type Failure struct {
	Path string
	Err  error
}

// Report is the outcome of a pull or push operation.
type Report struct {
	// Pulled lists paths whose remote contents were written locally.
	Pulled []string
	// Pushed lists paths whose local contents were written remotely.
	Pushed []string
	// Recorded lists paths where only the ledger record advanced because
	// both sides already agreed.
	Recorded []string
	// LocalPending lists paths a pull left alone because they carry local
	// edits waiting to be pushed.
	LocalPending []string
	// Unchanged counts entries that needed no action.
	Unchanged int
	// Skipped counts entries outside the operation's scope.
	Skipped int
	Conflicts []Conflict
	Failures  []Failure
}

// Changed reports whether the operation mutated anything (files, remote
// entries, or ledger records).
func (r *Report) Changed() bool {
	return len(r.Pulled)+len(r.Pushed)+len(r.Recorded) > 0
}

// Print writes a human-readable summary of the report.
func (r *Report) Print(w io.Writer) {
	for _, path := range r.Pulled {
		fmt.Fprintf(w, "pulled   %s\n", path)
	}
	for _, path := range r.Pushed {
		fmt.Fprintf(w, "pushed   %s\n", path)
	}
	for _, path := range r.Recorded {
		fmt.Fprintf(w, "recorded %s (both sides already agree)\n", path)
	}
	for _, path := range r.LocalPending {
		fmt.Fprintf(w, "pending  %s (local edits, push to sync)\n", path)
	}
	for _, conflict := range r.Conflicts {
		fmt.Fprintf(w, "CONFLICT %s: %s\n", conflict.Path, conflict.Reason)
		fmt.Fprintf(w, "  local:  %s\n", conflict.LocalFingerprint)
		fmt.Fprintf(w, "  remote: %s\n", conflict.RemoteFingerprint)
	}
	for _, failure := range r.Failures {
		fmt.Fprintf(w, "FAILED   %s: %v\n", failure.Path, failure.Err)
	}
	if !r.Changed() && len(r.LocalPending) == 0 && len(r.Conflicts) == 0 && len(r.Failures) == 0 {
		fmt.Fprintln(w, "Everything up to date.")
	}
}
