package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lettersync/cli/internal/errors"
)

func TestParseRenderSpec(t *testing.T) {
	tests := []struct {
		spec      string
		pattern   string
		languages []string
	}{
		{"overdue.xml", "overdue.xml", []string{"en"}},
		{"overdue.xml@no", "overdue.xml", []string{"no"}},
		{"invoice*.xml@en,no", "invoice*.xml", []string{"en", "no"}},
		{"overdue.xml@en, no", "overdue.xml", []string{"en", "no"}},
		{"overdue.xml@", "overdue.xml", []string{"en"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			pattern, languages := parseRenderSpec(tt.spec)
			if pattern != tt.pattern {
				t.Errorf("pattern = %q, want %q", pattern, tt.pattern)
			}
			if !reflect.DeepEqual(languages, tt.languages) {
				t.Errorf("languages = %v, want %v", languages, tt.languages)
			}
		})
	}
}

func TestGlobDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"overdue.xml", "invoice1.xml", "invoice2.xml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<doc/>"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	t.Run("pattern matches subset", func(t *testing.T) {
		documents, err := globDocuments(dir, "invoice*.xml")
		if err != nil {
			t.Fatalf("globDocuments() error = %v", err)
		}
		want := []string{
			filepath.Join(dir, "invoice1.xml"),
			filepath.Join(dir, "invoice2.xml"),
		}
		if !reflect.DeepEqual(documents, want) {
			t.Errorf("documents = %v, want %v", documents, want)
		}
	})

	t.Run("no match is a not-found error", func(t *testing.T) {
		_, err := globDocuments(dir, "missing-*.xml")
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not-found error, got %v", err)
		}
	})
}

func TestTestCommand_NoProjectContext(t *testing.T) {
	inProject(t, t.TempDir())

	cmd, _ := newTestCommand()
	err := runTest(cmd, nil)
	if err == nil {
		t.Fatal("Expected error for no project context, got nil")
	}

	cliErr, ok := err.(*errors.CLIError)
	if !ok {
		t.Fatalf("Expected CLIError, got %T", err)
	}
	if cliErr.Code != errors.CodeNotInProject {
		t.Errorf("Expected error code %d, got %d", errors.CodeNotInProject, cliErr.Code)
	}
}

func TestTestCommand_WritesArtifacts(t *testing.T) {
	gateway := newFakeGateway()
	gateway.letters["overdue.xsl"] = []byte("<xsl:stylesheet/>")
	server := gateway.server(t)

	root := createSyncProject(t, server.URL)
	inProject(t, root)

	document := filepath.Join(root, "test-data", "overdue.xml")
	if err := os.WriteFile(document, []byte("<doc/>"), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}

	cmd, _ := newTestCommand()
	if err := runTest(cmd, []string{"overdue.xml@en,no"}); err != nil {
		t.Fatalf("runTest() error = %v", err)
	}

	for _, name := range []string{"overdue-en.png", "overdue-no.png"} {
		artifact := filepath.Join(root, "screenshots", name)
		if _, err := os.Stat(artifact); err != nil {
			t.Errorf("Artifact %s not written: %v", name, err)
		}
	}
}

func TestTestCommand_RenderFailure(t *testing.T) {
	gateway := newFakeGateway()
	server := gateway.server(t)

	root := createSyncProject(t, server.URL)
	inProject(t, root)

	// No matching letter on the gateway, so the rendering is rejected.
	document := filepath.Join(root, "test-data", "orphan.xml")
	if err := os.WriteFile(document, []byte("<doc/>"), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}

	cmd, _ := newTestCommand()
	err := runTest(cmd, []string{"orphan.xml"})
	if !errors.IsRenderFailed(err) {
		t.Fatalf("Expected render failure, got %v", err)
	}
}
