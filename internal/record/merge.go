package record

// Merge folds override into a copy of base. Every ID in override is written
// over the copy, so the result holds the union of both key sets and the
// override text wins on collision. Neither input is modified.
func Merge(base, override Set) Set {
	merged := base.Clone()
	for id, text := range override {
		merged[id] = text
	}
	return merged
}
