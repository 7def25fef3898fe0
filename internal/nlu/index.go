package nlu

import "hotable/internal/domain"

// Index maps a normalized pattern to every tag that declared it, in
// registration order.
type Index map[string][]string

func BuildIndex(intents []domain.IntentDefinition) Index {
	idx := make(Index)
	for _, intent := range intents {
		for _, pattern := range intent.Patterns {
			key := Normalize(pattern)
			idx[key] = append(idx[key], intent.Tag)
		}
	}
	return idx
}

// Lookup returns the first tag registered for key.
func (idx Index) Lookup(key string) (string, bool) {
	tags, ok := idx[key]
	if !ok || len(tags) == 0 {
		return "", false
	}
	return tags[0], true
}

// Collisions lists keys shared by more than one distinct tag.
func (idx Index) Collisions() map[string][]string {
	out := make(map[string][]string)
	for key, tags := range idx {
		seen := map[string]struct{}{}
		for _, t := range tags {
			seen[t] = struct{}{}
		}
		if len(seen) > 1 {
			out[key] = append([]string{}, tags...)
		}
	}
	return out
}
