package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{
			name: "numeric before text, numeric by value",
			ids:  []string{"10", "2", "abc", "1"},
			want: []string{"1", "2", "10", "abc"},
		},
		{
			name: "text keys are byte-wise",
			ids:  []string{"b", "a", "B", "_x", "Ab"},
			want: []string{"Ab", "B", "_x", "a", "b"},
		},
		{
			name: "equal values tie-break on raw text",
			ids:  []string{"7", "007", "0_7", "+7"},
			want: []string{"+7", "007", "0_7", "7"},
		},
		{
			name: "signs and underscores",
			ids:  []string{"1_000", "999", "-3", "0"},
			want: []string{"-3", "0", "999", "1_000"},
		},
		{
			name: "non-ASCII digits are text",
			ids:  []string{"\u0663", "abc", "10"},
			want: []string{"10", "abc", "\u0663"},
		},
		{
			name: "malformed numbers are text",
			ids:  []string{"1__0", "_1", "1_", "5"},
			want: []string{"5", "1_", "1__0", "_1"},
		},
		{
			name: "values beyond int64",
			ids:  []string{"123456789012345678901234567890", "99", "9223372036854775808"},
			want: []string{"99", "9223372036854775808", "123456789012345678901234567890"},
		},
		{
			name: "empty",
			ids:  []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := append([]string{}, tt.ids...)
			SortIDs(ids)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCompare_TotalOrder(t *testing.T) {
	ids := []string{"10", "2", "abc", "1", "007", "7", "-1", "Z", "1_0", "vaca"}

	for _, a := range ids {
		assert.Equal(t, 0, Compare(a, a), "reflexive for %q", a)
		for _, b := range ids {
			if a == b {
				continue
			}
			ab, ba := Compare(a, b), Compare(b, a)
			assert.NotEqual(t, 0, ab, "distinct keys %q and %q compare equal", a, b)
			assert.Equal(t, -ab, ba, "antisymmetric for %q, %q", a, b)
			for _, c := range ids {
				if ab < 0 && Compare(b, c) < 0 {
					assert.Negative(t, Compare(a, c), "transitive for %q < %q < %q", a, b, c)
				}
			}
		}
	}
}

func TestKeyOf(t *testing.T) {
	k := KeyOf(" 42 ")
	assert.True(t, k.Numeric)
	assert.Equal(t, int64(42), k.Value.Int64())
	assert.Equal(t, " 42 ", k.Text)

	k = KeyOf("٣")
	assert.False(t, k.Numeric)
	assert.Nil(t, k.Value)
}

func TestSortedIDs(t *testing.T) {
	s := Set{"10": "a", "2": "b", "abc": "c", "1": "d"}
	assert.Equal(t, []string{"1", "2", "10", "abc"}, SortedIDs(s))
	assert.Empty(t, SortedIDs(nil))
}
