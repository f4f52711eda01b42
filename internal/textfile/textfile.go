// Package textfile reads and writes the flat record files.
//
// Input is decoded as UTF-8 when valid and as ISO-8859-1 (latin-1)
// otherwise, and line endings are normalized to "\n". Output is always
// UTF-8 and replaces the target atomically.
package textfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the decoding that was applied to a file
type Encoding string

const (
	UTF8   Encoding = "utf-8"
	Latin1 Encoding = "latin-1"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Read loads path and decodes it. A missing file returns an error wrapping
// fs.ErrNotExist.
func Read(path string) (string, Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	content, enc, err := Decode(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return content, enc, nil
}

// Decode tries UTF-8 first and falls back to latin-1 only when the bytes
// are not valid UTF-8.
func Decode(data []byte) (string, Encoding, error) {
	if utf8.Valid(data) {
		return NormalizeNewlines(string(data)), UTF8, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("latin-1: %w", err)
	}
	return NormalizeNewlines(string(decoded)), Latin1, nil
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF
func NormalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return newlines.Replace(s)
}

// Write replaces path with the bytes produced by src. The data goes to a
// temporary file in the same directory which is then renamed over path, so
// readers never observe a partially written file. An existing file keeps
// its permissions.
func Write(path string, src io.WriterTo) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = src.WriteTo(tmp); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// WriteString is Write for an in-memory string
func WriteString(path, content string) error {
	return Write(path, strings.NewReader(content))
}
