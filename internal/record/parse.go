package record

import (
	"regexp"
	"strings"
	"unicode"
)

// idRule is one recognized form of record-opening line. The first capture
// group of pattern is the record ID.
type idRule struct {
	name    string
	pattern *regexp.Regexp
}

// idSpace is the whitespace allowed between a marker and the ID: every rune
// isSpace accepts. RE2's \s alone is ASCII-only.
const idSpace = `[\s\v\x1c-\x1f\x85\p{Z}]*`

// idRules are tried in order; the first match wins. The label marker also
// accepts the dotted and dotless I, which fold to "i" under Unicode
// case-insensitive matching but not under RE2's simple folding.
var idRules = []idRule{
	{name: "label", pattern: regexp.MustCompile(`^[Iiİı][Dd]:?` + idSpace + `([\p{L}\p{N}_]+)`)},
	{name: "hash", pattern: regexp.MustCompile(`^#` + idSpace + `([\p{L}\p{N}_]+)`)},
}

// isSpace reports whether r is trimmed from line ends: Unicode white space
// plus the information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// ParseStats counts what a parse pass saw
type ParseStats struct {
	Lines         int      `json:"lines" yaml:"lines"`
	BlankLines    int      `json:"blank_lines" yaml:"blank_lines"`
	PreambleLines int      `json:"preamble_lines" yaml:"preamble_lines"`
	IDLines       int      `json:"id_lines" yaml:"id_lines"`
	Duplicates    []string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// MatchID reports whether line opens a record and returns the captured ID.
// The line is expected to be trimmed already.
func MatchID(line string) (string, bool) {
	for _, rule := range idRules {
		if m := rule.pattern.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// Parse segments content into records keyed by ID.
//
// Lines are trimmed and blank lines skipped. A line matching an ID rule
// closes the active record and opens a new one that starts with that line;
// any other line is appended to the active record, or dropped if no record
// has been opened yet. A repeated ID replaces the earlier record.
func Parse(content string) Set {
	set, _ := ParseDetailed(content)
	return set
}

// ParseDetailed is Parse plus counters describing the pass
func ParseDetailed(content string) (Set, ParseStats) {
	set := make(Set)
	var stats ParseStats

	var currentID string
	var current []string
	active := false

	flush := func() {
		if !active {
			return
		}
		if set.Has(currentID) {
			stats.Duplicates = append(stats.Duplicates, currentID)
		}
		set[currentID] = strings.Join(current, "\n")
	}

	for _, raw := range strings.Split(content, "\n") {
		stats.Lines++

		line := strings.TrimFunc(raw, isSpace)
		if line == "" {
			stats.BlankLines++
			continue
		}

		if id, ok := MatchID(line); ok {
			stats.IDLines++
			flush()
			currentID = id
			current = []string{line}
			active = true
			continue
		}

		if !active {
			stats.PreambleLines++
			continue
		}
		current = append(current, line)
	}
	flush()

	return set, stats
}
