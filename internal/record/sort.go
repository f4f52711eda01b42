package record

import (
	"math/big"
	"regexp"
	"sort"
	"strings"
)

// numericPattern accepts what a base-10 integer conversion accepts for
// ASCII input: optional sign, digits, single underscores between digits.
var numericPattern = regexp.MustCompile(`^[+-]?[0-9]+(?:_[0-9]+)*$`)

// SortKey is the ordering key derived from a record ID.
//
// Numeric keys sort before text keys. Numeric keys compare by value and,
// when values are equal, by their raw text. Text keys compare byte-wise.
// Only ASCII digits make a key numeric: a key such as "٣" (Arabic-Indic
// three) is a text key and sorts after every numeric key.
type SortKey struct {
	Numeric bool
	Value   *big.Int
	Text    string
}

// KeyOf derives the sort key for id
func KeyOf(id string) SortKey {
	key := SortKey{Text: id}

	trimmed := strings.TrimSpace(id)
	if !numericPattern.MatchString(trimmed) {
		return key
	}

	value, ok := new(big.Int).SetString(strings.ReplaceAll(trimmed, "_", ""), 10)
	if !ok {
		return key
	}
	key.Numeric = true
	key.Value = value
	return key
}

// Compare returns -1, 0 or +1 ordering k before, with or after other
func (k SortKey) Compare(other SortKey) int {
	switch {
	case k.Numeric && !other.Numeric:
		return -1
	case !k.Numeric && other.Numeric:
		return 1
	case k.Numeric:
		if c := k.Value.Cmp(other.Value); c != 0 {
			return c
		}
	}
	return strings.Compare(k.Text, other.Text)
}

// Compare orders two record IDs
func Compare(a, b string) int {
	return KeyOf(a).Compare(KeyOf(b))
}

// SortIDs sorts ids in place in record order
func SortIDs(ids []string) {
	keys := make([]SortKey, len(ids))
	for i, id := range ids {
		keys[i] = KeyOf(id)
	}
	sort.Sort(byKey{ids: ids, keys: keys})
}

// SortedIDs returns the IDs of s in record order
func SortedIDs(s Set) []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

type byKey struct {
	ids  []string
	keys []SortKey
}

func (b byKey) Len() int           { return len(b.ids) }
func (b byKey) Less(i, j int) bool { return b.keys[i].Compare(b.keys[j]) < 0 }
func (b byKey) Swap(i, j int) {
	b.ids[i], b.ids[j] = b.ids[j], b.ids[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
