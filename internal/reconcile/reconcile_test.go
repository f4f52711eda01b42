package reconcile

import (
	"strings"
	"testing"

	"github.com/lherron/tambo/internal/record"
)

func TestPlan(t *testing.T) {
	base := record.Set{"1": "A", "2": "B", "10": "X", "abc": "same"}
	override := record.Set{"2": "C", "3": "D", "abc": "same"}

	r := Plan(base, override)

	checkIDs(t, "added", r.Added, []string{"3"})
	checkIDs(t, "replaced", r.Replaced, []string{"2"})
	checkIDs(t, "unchanged", r.Unchanged, []string{"abc"})
	checkIDs(t, "retained", r.Retained, []string{"1", "10"})

	if r.Stats.Total != 5 {
		t.Errorf("Total = %d, want 5", r.Stats.Total)
	}
	if r.Stats.Total != len(record.Merge(base, override)) {
		t.Errorf("Total %d does not match merged size", r.Stats.Total)
	}
	if r.Stats.Updated != 3 {
		t.Errorf("Updated = %d, want 3", r.Stats.Updated)
	}
	if !r.Changed() {
		t.Error("expected report to be marked changed")
	}
}

func TestPlan_NoChanges(t *testing.T) {
	base := record.Set{"1": "A"}
	r := Plan(base, record.Set{"1": "A"})

	if r.Changed() {
		t.Error("identical sets should not be marked changed")
	}
	if got := r.Summary(); got != "Merged 1 cows. Updated 1 records." {
		t.Errorf("Summary() = %q", got)
	}
}

func TestPlan_Empty(t *testing.T) {
	r := Plan(record.Set{}, record.Set{})
	if r.Stats.Total != 0 || len(r.Entries()) != 0 {
		t.Errorf("expected empty report, got %+v", r.Stats)
	}
}

func TestEntries(t *testing.T) {
	r := Plan(
		record.Set{"10": "a", "2": "b", "z": "c"},
		record.Set{"2": "B", "1": "n"},
	)

	want := []Entry{
		{ID: "1", Status: StatusAdded},
		{ID: "2", Status: StatusReplaced},
		{ID: "10", Status: StatusRetained},
		{ID: "z", Status: StatusRetained},
	}
	got := r.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSummary(t *testing.T) {
	r := Plan(record.Set{"1": "A", "2": "B"}, record.Set{"2": "C", "3": "D"})
	want := "Merged 3 cows. Updated 2 records."
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestDiff(t *testing.T) {
	text, err := Diff("7", "# 7\nestado: Seca", "# 7\nestado: Lactancia", 3)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	for _, want := range []string{
		"--- base/7",
		"+++ override/7",
		"-estado: Seca",
		"+estado: Lactancia",
		" # 7",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("diff missing %q:\n%s", want, text)
		}
	}
}

func TestDiff_Identical(t *testing.T) {
	text, err := Diff("7", "# 7", "# 7", 3)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if text != "" {
		t.Errorf("expected empty diff, got %q", text)
	}
}

func TestDiffReplaced(t *testing.T) {
	base := record.Set{"10": "# 10\na", "2": "# 2\nb", "3": "# 3"}
	override := record.Set{"10": "# 10\nA", "2": "# 2\nB", "3": "# 3"}
	r := Plan(base, override)

	text, err := DiffReplaced(r, base, override, 1)
	if err != nil {
		t.Fatalf("DiffReplaced() error = %v", err)
	}

	i2 := strings.Index(text, "base/2")
	i10 := strings.Index(text, "base/10")
	if i2 < 0 || i10 < 0 || i2 > i10 {
		t.Errorf("expected diffs for 2 then 10:\n%s", text)
	}
	if strings.Contains(text, "base/3") {
		t.Errorf("unchanged record should not be diffed:\n%s", text)
	}
}

func checkIDs(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}
