// Package reconcile classifies what merging an override record set into a
// base set does to each record, and renders that as a report.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/lherron/tambo/internal/record"
	"github.com/pmezard/go-difflib/difflib"
)

// Status describes the fate of one record ID in a merge
type Status string

const (
	// StatusAdded means the ID exists only in the override set
	StatusAdded Status = "added"
	// StatusReplaced means both sets hold the ID with different text
	StatusReplaced Status = "replaced"
	// StatusUnchanged means both sets hold the ID with identical text
	StatusUnchanged Status = "unchanged"
	// StatusRetained means the ID exists only in the base set
	StatusRetained Status = "retained"
)

// Entry is one classified record ID
type Entry struct {
	ID     string `json:"id" yaml:"id"`
	Status Status `json:"status" yaml:"status"`
}

// Stats holds the per-status counts of a merge
type Stats struct {
	Total     int `json:"total" yaml:"total"`
	Updated   int `json:"updated" yaml:"updated"`
	Added     int `json:"added" yaml:"added"`
	Replaced  int `json:"replaced" yaml:"replaced"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Retained  int `json:"retained" yaml:"retained"`
}

// Report is the outcome of planning a merge. ID lists are in record order.
type Report struct {
	RunID        string   `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	BasePath     string   `json:"base_path,omitempty" yaml:"base_path,omitempty"`
	OverridePath string   `json:"override_path,omitempty" yaml:"override_path,omitempty"`
	OutputPath   string   `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DryRun       bool     `json:"dry_run" yaml:"dry_run"`
	Digest       string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Stats        Stats    `json:"stats" yaml:"stats"`
	Added        []string `json:"added,omitempty" yaml:"added,omitempty"`
	Replaced     []string `json:"replaced,omitempty" yaml:"replaced,omitempty"`
	Unchanged    []string `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
	Retained     []string `json:"retained,omitempty" yaml:"retained,omitempty"`

	BaseStats     record.ParseStats `json:"base_parse" yaml:"base_parse"`
	OverrideStats record.ParseStats `json:"override_parse" yaml:"override_parse"`
}

// Plan classifies every ID of base and override
func Plan(base, override record.Set) *Report {
	r := &Report{}

	for id, text := range override {
		old, ok := base[id]
		switch {
		case !ok:
			r.Added = append(r.Added, id)
		case old == text:
			r.Unchanged = append(r.Unchanged, id)
		default:
			r.Replaced = append(r.Replaced, id)
		}
	}
	for id := range base {
		if !override.Has(id) {
			r.Retained = append(r.Retained, id)
		}
	}

	record.SortIDs(r.Added)
	record.SortIDs(r.Replaced)
	record.SortIDs(r.Unchanged)
	record.SortIDs(r.Retained)

	r.Stats = Stats{
		Added:     len(r.Added),
		Replaced:  len(r.Replaced),
		Unchanged: len(r.Unchanged),
		Retained:  len(r.Retained),
		Updated:   len(override),
	}
	r.Stats.Total = r.Stats.Added + r.Stats.Replaced + r.Stats.Unchanged + r.Stats.Retained

	return r
}

// Entries returns every classified ID in record order
func (r *Report) Entries() []Entry {
	status := make(map[string]Status, r.Stats.Total)
	for _, id := range r.Added {
		status[id] = StatusAdded
	}
	for _, id := range r.Replaced {
		status[id] = StatusReplaced
	}
	for _, id := range r.Unchanged {
		status[id] = StatusUnchanged
	}
	for _, id := range r.Retained {
		status[id] = StatusRetained
	}

	ids := make([]string, 0, len(status))
	for id := range status {
		ids = append(ids, id)
	}
	record.SortIDs(ids)

	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ID: id, Status: status[id]}
	}
	return entries
}

// Changed reports whether the merge alters the base set
func (r *Report) Changed() bool {
	return r.Stats.Added > 0 || r.Stats.Replaced > 0
}

// Summary is the one-line user-facing result
func (r *Report) Summary() string {
	return fmt.Sprintf("Merged %d cows. Updated %d records.", r.Stats.Total, r.Stats.Updated)
}

// Diff renders a unified diff between two versions of record id
func Diff(id, old, updated string, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(old),
		B:        difflib.SplitLines(updated),
		FromFile: "base/" + id,
		ToFile:   "override/" + id,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff record %s: %w", id, err)
	}
	return text, nil
}

// DiffReplaced renders diffs for every replaced record, in record order
func DiffReplaced(r *Report, base, override record.Set, context int) (string, error) {
	var sb strings.Builder
	for _, id := range r.Replaced {
		text, err := Diff(id, base[id], override[id], context)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
