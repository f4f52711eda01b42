package record

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
)

// separator terminates every record in serialized output, leaving one blank
// line between records.
const separator = "\n\n"

// WriteTo writes the set in record order, each record followed by a blank
// line. It implements io.WriterTo.
func (s Set) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, id := range SortedIDs(s) {
		n, err := io.WriteString(w, s[id]+separator)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Format returns the serialized form of s
func Format(s Set) string {
	var sb strings.Builder
	_, _ = s.WriteTo(&sb)
	return sb.String()
}

// Digest returns "sha256:<hex>" over the serialized form of s
func Digest(s Set) string {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	hash := sha256.Sum256(buf.Bytes())
	return "sha256:" + hex.EncodeToString(hash[:])
}
