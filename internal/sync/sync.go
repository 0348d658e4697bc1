package sync

import (
	"context"
	"fmt"
	"sort"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
	"github.com/lettersync/cli/internal/repository"
)

// Syncer reconciles the remote template store, the local letter repository,
// and the status ledger. All operations are strictly sequential: one entry at
// a time, one remote call at a time, ledger recorded immediately after each
// successful apply and flushed after the batch.
type Syncer struct {
	store  interfaces.TemplateStore
	repo   interfaces.LetterRepository
	ledger interfaces.StatusLedger
}

// NewSyncer creates a syncer over the three injected collaborators.
func NewSyncer(store interfaces.TemplateStore, repo interfaces.LetterRepository, ledger interfaces.StatusLedger) *Syncer {
	return &Syncer{
		store:  store,
		repo:   repo,
		ledger: ledger,
	}
}

// Pull brings in remote edits for every non-default letter. Conflicted
// entries are reported and skipped; letters that exist only locally are left
// untouched. A session-level failure aborts the remaining entries but keeps
// the ledger records of everything already applied.
func (s *Syncer) Pull(ctx context.Context) (*Report, error) {
	return s.pull(ctx, "pull", false)
}

// PullDefaults refreshes vendor-default letters only, leaving customized
// entries alone even when they have remote changes.
func (s *Syncer) PullDefaults(ctx context.Context) (*Report, error) {
	return s.pull(ctx, "defaults", true)
}

func (s *Syncer) pull(ctx context.Context, operation string, defaultsOnly bool) (*Report, error) {
	report := &Report{}

	entries, err := s.store.List(ctx)
	if err != nil {
		return report, err
	}

	for _, remote := range entries {
		if remote.Default != defaultsOnly {
			report.Skipped++
			continue
		}

		entry, err := s.resolve(remote)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: remote.Path, Err: err})
			continue
		}

		switch entry.State() {
		case StateUnchanged, StateLocalOnly, StateVanished:
			report.Unchanged++

		case StateLocallyModified:
			// Local edits are pushed, not pulled over; tell the user
			// they are sitting on some.
			report.LocalPending = append(report.LocalPending, entry.Path)

		case StateLedgerStale:
			s.ledger.Set(entry.Path, entry.Remote)
			report.Recorded = append(report.Recorded, entry.Path)

		case StateRemotelyModified, StateRemoteOnly:
			data, err := s.store.Fetch(ctx, entry.Path)
			if err != nil {
				if errors.IsSession(err) {
					return report, s.abort(operation, report, err)
				}
				report.Failures = append(report.Failures, Failure{Path: entry.Path, Err: err})
				continue
			}
			if err := s.repo.Write(entry.Path, data); err != nil {
				report.Failures = append(report.Failures, Failure{Path: entry.Path, Err: err})
				continue
			}
			s.ledger.Set(entry.Path, entry.Remote)
			report.Pulled = append(report.Pulled, entry.Path)

		case StateConflicted:
			report.Conflicts = append(report.Conflicts, Conflict{
				Path:              entry.Path,
				LocalFingerprint:  entry.Local,
				RemoteFingerprint: entry.Remote,
				Reason:            "both sides changed since the last sync",
			})
		}
	}

	return report, s.flush(operation, report)
}

// Push uploads local edits for the selected paths. An empty selection is a
// no-op; interactive selection belongs to the shell layer, which hands the
// core an already-resolved set. Entries with remote-side changes the user has
// not seen are reported as conflicts and never overwritten.
func (s *Syncer) Push(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{}
	if len(paths) == 0 {
		return report, nil
	}

	remotes, err := s.remoteIndex(ctx)
	if err != nil {
		return report, err
	}

	for _, path := range paths {
		remote := remotes[path]
		entry, err := s.resolve(interfaces.LetterEntry{
			Path:        path,
			Fingerprint: remote.Fingerprint,
			Default:     remote.Default,
		})
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			continue
		}

		switch entry.State() {
		case StateUnchanged:
			report.Unchanged++

		case StateLedgerStale:
			s.ledger.Set(entry.Path, entry.Local)
			report.Recorded = append(report.Recorded, entry.Path)

		case StateLocallyModified, StateLocalOnly:
			data, err := s.repo.Read(entry.Path)
			if err != nil {
				report.Failures = append(report.Failures, Failure{Path: entry.Path, Err: err})
				continue
			}
			if err := s.store.Put(ctx, entry.Path, data); err != nil {
				if errors.IsSession(err) {
					return report, s.abort("push", report, err)
				}
				// Rejected content must not advance the ledger.
				report.Failures = append(report.Failures, Failure{Path: entry.Path, Err: err})
				continue
			}
			s.ledger.Set(entry.Path, repository.FingerprintData(data))
			report.Pushed = append(report.Pushed, entry.Path)

		case StateRemotelyModified:
			report.Conflicts = append(report.Conflicts, Conflict{
				Path:              entry.Path,
				LocalFingerprint:  entry.Local,
				RemoteFingerprint: entry.Remote,
				Reason:            "remote changed since the last sync, pull first",
			})

		case StateConflicted:
			report.Conflicts = append(report.Conflicts, Conflict{
				Path:              entry.Path,
				LocalFingerprint:  entry.Local,
				RemoteFingerprint: entry.Remote,
				Reason:            "both sides changed since the last sync",
			})

		case StateRemoteOnly, StateVanished:
			report.Failures = append(report.Failures, Failure{
				Path: entry.Path,
				Err:  errors.NewNotFoundError(fmt.Sprintf("no local letter %s", entry.Path)),
			})
		}
	}

	return report, s.flush("push", report)
}

// LocallyModified returns the paths a parameterless push would offer for
// selection: every letter whose local content diverged from the ledger while
// the remote side did not.
func (s *Syncer) LocallyModified(ctx context.Context) ([]string, error) {
	remotes, err := s.remoteIndex(ctx)
	if err != nil {
		return nil, err
	}

	locals, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	var modified []string
	for _, path := range locals {
		remote := remotes[path]
		entry, err := s.resolve(interfaces.LetterEntry{
			Path:        path,
			Fingerprint: remote.Fingerprint,
			Default:     remote.Default,
		})
		if err != nil {
			continue
		}
		switch entry.State() {
		case StateLocallyModified, StateLocalOnly:
			modified = append(modified, path)
		}
	}

	sort.Strings(modified)
	return modified, nil
}

// resolve completes a remote listing entry with the local and ledger
// fingerprints for the same path.
func (s *Syncer) resolve(remote interfaces.LetterEntry) (Entry, error) {
	local, err := s.repo.Fingerprint(remote.Path)
	if err != nil {
		return Entry{}, err
	}
	ledger, _ := s.ledger.Get(remote.Path)
	return Entry{
		Path:    remote.Path,
		Local:   local,
		Remote:  remote.Fingerprint,
		Ledger:  ledger,
		Default: remote.Default,
	}, nil
}

// remoteIndex lists the remote collection once and indexes it by path.
func (s *Syncer) remoteIndex(ctx context.Context) (map[string]interfaces.LetterEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]interfaces.LetterEntry, len(entries))
	for _, entry := range entries {
		index[entry.Path] = entry
	}
	return index, nil
}

// flush persists the ledger when the operation applied anything.
func (s *Syncer) flush(operation string, report *Report) error {
	if !report.Changed() {
		return nil
	}
	return s.ledger.Save(operation, summarize(report))
}

// abort flushes the applied prefix before surfacing a session failure, so the
// ledger never forgets work that was already durably applied.
func (s *Syncer) abort(operation string, report *Report, cause error) error {
	if report.Changed() {
		if saveErr := s.ledger.Save(operation, summarize(report)+" (aborted)"); saveErr != nil {
			return saveErr
		}
	}
	return cause
}

func summarize(report *Report) string {
	return fmt.Sprintf("%d pulled, %d pushed, %d recorded, %d conflicts, %d failures",
		len(report.Pulled), len(report.Pushed), len(report.Recorded),
		len(report.Conflicts), len(report.Failures))
}
