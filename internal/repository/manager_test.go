package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lettersync/cli/internal/errors"
)

func writeFile(t *testing.T, root, path string, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestList(t *testing.T) {
	t.Run("walks recursively and sorts", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "overdue.xsl", "a")
		writeFile(t, root, "sub/receipt.xsl", "b")
		writeFile(t, root, "courtesy.xsl", "c")

		manager := NewManager(root)
		paths, err := manager.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}

		want := []string{"courtesy.xsl", "overdue.xsl", "sub/receipt.xsl"}
		if len(paths) != len(want) {
			t.Fatalf("Expected %v, got %v", want, paths)
		}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("Expected %q at %d, got %q", want[i], i, paths[i])
			}
		}
	})

	t.Run("missing root lists as empty", func(t *testing.T) {
		manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
		paths, err := manager.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(paths) != 0 {
			t.Errorf("Expected empty list, got %v", paths)
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Run("identical content yields identical fingerprint", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.xsl", "<xsl/>")
		writeFile(t, root, "b.xsl", "<xsl/>")

		manager := NewManager(root)
		first, err := manager.Fingerprint("a.xsl")
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}
		second, err := manager.Fingerprint("b.xsl")
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}
		if first != second {
			t.Errorf("Expected identical fingerprints, got %q and %q", first, second)
		}
		if first != FingerprintData([]byte("<xsl/>")) {
			t.Error("File fingerprint must match in-memory fingerprint of the same bytes")
		}
	})

	t.Run("independent of metadata", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.xsl", "<xsl/>")

		manager := NewManager(root)
		before, err := manager.Fingerprint("a.xsl")
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}

		past := time.Now().Add(-24 * time.Hour)
		if err := os.Chtimes(filepath.Join(root, "a.xsl"), past, past); err != nil {
			t.Fatalf("Chtimes failed: %v", err)
		}

		after, err := manager.Fingerprint("a.xsl")
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}
		if before != after {
			t.Error("Fingerprint must not change when only mtime changes")
		}
	})

	t.Run("absent file fingerprints as empty", func(t *testing.T) {
		manager := NewManager(t.TempDir())
		fingerprint, err := manager.Fingerprint("missing.xsl")
		if err != nil {
			t.Fatalf("Fingerprint failed: %v", err)
		}
		if fingerprint != "" {
			t.Errorf("Expected empty fingerprint for absent file, got %q", fingerprint)
		}
	})
}

func TestReadWrite(t *testing.T) {
	t.Run("read of missing file is a not-found error", func(t *testing.T) {
		manager := NewManager(t.TempDir())
		_, err := manager.Read("missing.xsl")
		if !errors.IsNotFound(err) {
			t.Errorf("Expected not-found error, got %v", err)
		}
	})

	t.Run("write creates parent directories", func(t *testing.T) {
		root := t.TempDir()
		manager := NewManager(root)

		if err := manager.Write("deeply/nested/letter.xsl", []byte("<xsl/>")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		data, err := manager.Read("deeply/nested/letter.xsl")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != "<xsl/>" {
			t.Errorf("Expected round-tripped content, got %q", data)
		}
	})

	t.Run("write leaves no temp files behind", func(t *testing.T) {
		root := t.TempDir()
		manager := NewManager(root)
		if err := manager.Write("letter.xsl", []byte("v1")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := manager.Write("letter.xsl", []byte("v2")); err != nil {
			t.Fatalf("Overwrite failed: %v", err)
		}

		paths, err := manager.List()
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(paths) != 1 || paths[0] != "letter.xsl" {
			t.Errorf("Expected only letter.xsl, got %v", paths)
		}
	})
}
