package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
)

// RenderOutcome is the result of rendering one (document, language) pair.
type RenderOutcome struct {
	Document string
	Language string
	// ArtifactPath is where the captured artifact was written, empty on failure.
	ArtifactPath string
	Err          error
}

// RenderRunner drives the render-and-capture test workflow: upload a test
// document, render the letter in each requested language, and store the
// artifact. It keeps no state between runs; the ledger is not involved.
type RenderRunner struct {
	harness      interfaces.TestHarness
	artifactsDir string
}

// NewRenderRunner creates a runner writing artifacts under artifactsDir.
func NewRenderRunner(harness interfaces.TestHarness, artifactsDir string) *RenderRunner {
	return &RenderRunner{
		harness:      harness,
		artifactsDir: artifactsDir,
	}
}

// Run processes the full documents×languages cross-product. A render failure
// for one pair is recorded in its outcome and does not stop the remaining
// pairs; only a session-level failure abandons the rest, returning the
// outcomes gathered so far together with the error.
func (r *RenderRunner) Run(ctx context.Context, documents []string, languages []string) ([]RenderOutcome, error) {
	var outcomes []RenderOutcome

	for _, document := range documents {
		data, err := os.ReadFile(document)
		if err != nil {
			readErr := errors.NewNotFoundError(fmt.Sprintf("no test document %s", document))
			for _, language := range languages {
				outcomes = append(outcomes, RenderOutcome{
					Document: document,
					Language: language,
					Err:      readErr,
				})
			}
			continue
		}

		letterPath := letterPathFor(document)
		for _, language := range languages {
			artifact, err := r.harness.Render(ctx, letterPath, data, language)
			if err != nil {
				outcomes = append(outcomes, RenderOutcome{
					Document: document,
					Language: language,
					Err:      err,
				})
				if errors.IsSession(err) {
					return outcomes, err
				}
				continue
			}

			artifactPath, err := r.writeArtifact(document, language, artifact)
			if err != nil {
				outcomes = append(outcomes, RenderOutcome{
					Document: document,
					Language: language,
					Err:      err,
				})
				continue
			}

			outcomes = append(outcomes, RenderOutcome{
				Document:     document,
				Language:     language,
				ArtifactPath: artifactPath,
			})
		}
	}

	return outcomes, nil
}

// writeArtifact stores one captured render keyed by document and language.
func (r *RenderRunner) writeArtifact(document string, language string, artifact []byte) (string, error) {
	if err := os.MkdirAll(r.artifactsDir, 0755); err != nil {
		return "", errors.NewIOError("failed to create artifacts directory", err)
	}

	stem := strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	artifactPath := filepath.Join(r.artifactsDir, fmt.Sprintf("%s-%s.png", stem, language))
	if err := os.WriteFile(artifactPath, artifact, 0644); err != nil {
		return "", errors.NewIOError(fmt.Sprintf("failed to write artifact %s", artifactPath), err)
	}
	return artifactPath, nil
}

// letterPathFor maps a test document to the letter it exercises: the document
// stem names the letter template, relative to the tracked root like every
// other letter path.
func letterPathFor(document string) string {
	stem := strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	return stem + ".xsl"
}

// PrintOutcomes writes a per-pair report after the full cross-product ran.
func PrintOutcomes(w io.Writer, outcomes []RenderOutcome) {
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(w, "FAILED %s [%s]: %v\n", outcome.Document, outcome.Language, outcome.Err)
			continue
		}
		fmt.Fprintf(w, "ok     %s [%s] -> %s\n", outcome.Document, outcome.Language, outcome.ArtifactPath)
	}
}
