package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lherron/tambo/internal/ledger"
)

// TempLedger creates a migrated ledger in a temporary directory
func TempLedger(t *testing.T) (*ledger.Ledger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Failed to create test ledger: %v", err)
	}

	if _, err := l.Migrate(); err != nil {
		l.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		l.Close()
	})

	return l, path
}

// WriteFile writes content to a file in dir and returns its path
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	return WriteBytes(t, dir, filename, []byte(content))
}

// WriteBytes writes raw bytes to a file in dir and returns its path
func WriteBytes(t *testing.T, dir, filename string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFile reads content from a file
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// IsolateConfig points HOME at a temp directory and clears the TAMBO_
// environment so tests never see the developer's configuration
func IsolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"TAMBO_BASE_PATH", "TAMBO_OVERRIDE_PATH", "TAMBO_OUTPUT_PATH",
		"TAMBO_LEDGER_PATH", "TAMBO_LOG_LEVEL", "TAMBO_OUTPUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}
