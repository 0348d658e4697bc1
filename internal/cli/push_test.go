package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lettersync/cli/internal/errors"
)

func TestPushCommand_NoProjectContext(t *testing.T) {
	inProject(t, t.TempDir())

	cmd, _ := newTestCommand()
	err := runPush(cmd, nil)
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

func TestPushCommand_UploadsNamedLetter(t *testing.T) {
	gateway := newFakeGateway()
	server := gateway.server(t)

	root := createSyncProject(t, server.URL)
	inProject(t, root)

	letter := filepath.Join(root, "xsl", "letters", "receipt.xsl")
	if err := os.WriteFile(letter, []byte("<receipt/>"), 0644); err != nil {
		t.Fatalf("Failed to write letter: %v", err)
	}

	cmd, out := newTestCommand()
	if err := runPush(cmd, []string{"receipt.xsl"}); err != nil {
		t.Fatalf("runPush() error = %v", err)
	}

	if string(gateway.letters["receipt.xsl"]) != "<receipt/>" {
		t.Errorf("Remote content = %q", gateway.letters["receipt.xsl"])
	}
	if !strings.Contains(out.String(), "pushed   receipt.xsl") {
		t.Errorf("Output missing push line: %q", out.String())
	}
}

func TestPushCommand_RefusesRemoteDrift(t *testing.T) {
	gateway := newFakeGateway()
	gateway.letters["overdue.xsl"] = []byte("<xsl:stylesheet/>")
	server := gateway.server(t)

	root := createSyncProject(t, server.URL)
	inProject(t, root)

	// Sync once, then diverge on both sides.
	cmd, _ := newTestCommand()
	if err := runPull(cmd, nil); err != nil {
		t.Fatalf("runPull() error = %v", err)
	}
	letter := filepath.Join(root, "xsl", "letters", "overdue.xsl")
	if err := os.WriteFile(letter, []byte("<local-edit/>"), 0644); err != nil {
		t.Fatalf("Failed to edit letter: %v", err)
	}
	gateway.letters["overdue.xsl"] = []byte("<remote-edit/>")

	cmd, out := newTestCommand()
	if err := runPush(cmd, []string{"overdue.xsl"}); err != nil {
		t.Fatalf("runPush() error = %v", err)
	}

	if !strings.Contains(out.String(), "CONFLICT overdue.xsl") {
		t.Errorf("Expected conflict output, got %q", out.String())
	}
	if string(gateway.letters["overdue.xsl"]) != "<remote-edit/>" {
		t.Error("Conflicted push must not overwrite the remote letter")
	}
}

func TestPushCommand_NothingModified(t *testing.T) {
	gateway := newFakeGateway()
	server := gateway.server(t)

	root := createSyncProject(t, server.URL)
	inProject(t, root)

	cmd, out := newTestCommand()
	if err := runPush(cmd, nil); err != nil {
		t.Fatalf("runPush() error = %v", err)
	}
	if !strings.Contains(out.String(), "No locally modified letters to push.") {
		t.Errorf("Expected nothing-to-push output, got %q", out.String())
	}
}
