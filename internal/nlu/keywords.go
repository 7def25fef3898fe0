package nlu

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotable/internal/domain"
)

// KeywordTable is a read-only surface form -> canonical value dictionary,
// scanned longest surface form first.
type KeywordTable struct {
	byLength   []domain.KeywordEntry
	canonicals []string
}

func NewKeywordTable(entries []domain.KeywordEntry) *KeywordTable {
	lower := cases.Lower(language.Und)
	t := &KeywordTable{byLength: make([]domain.KeywordEntry, 0, len(entries))}
	seenCanonical := map[string]struct{}{}
	seenSurface := map[string]struct{}{}
	for _, e := range entries {
		surface := lower.String(strings.TrimSpace(e.Surface))
		canonical := strings.TrimSpace(e.Canonical)
		if surface == "" || canonical == "" {
			continue
		}
		if _, dup := seenSurface[surface]; dup {
			continue
		}
		seenSurface[surface] = struct{}{}
		t.byLength = append(t.byLength, domain.KeywordEntry{Surface: surface, Canonical: canonical})
		if _, ok := seenCanonical[canonical]; !ok {
			seenCanonical[canonical] = struct{}{}
			t.canonicals = append(t.canonicals, canonical)
		}
	}
	// Stable so that equally long surface forms keep declaration order.
	sort.SliceStable(t.byLength, func(i, j int) bool {
		return utf8.RuneCountInString(t.byLength[i].Surface) > utf8.RuneCountInString(t.byLength[j].Surface)
	})
	return t
}

// Find returns the first surface form, longest first, contained in the
// normalized text.
func (t *KeywordTable) Find(normalized string) (domain.KeywordEntry, bool) {
	if t == nil || normalized == "" {
		return domain.KeywordEntry{}, false
	}
	for _, e := range t.byLength {
		if strings.Contains(normalized, e.Surface) {
			return e, true
		}
	}
	return domain.KeywordEntry{}, false
}

func (t *KeywordTable) Lookup(normalized string) string {
	e, ok := t.Find(normalized)
	if !ok {
		return ""
	}
	return e.Canonical
}

// Canonicals returns the distinct canonical values in declaration order.
func (t *KeywordTable) Canonicals() []string {
	if t == nil {
		return nil
	}
	return append([]string{}, t.canonicals...)
}

// Extractor finds restaurant and cuisine entities independently of each other.
type Extractor struct {
	restaurants *KeywordTable
	cuisines    *KeywordTable
}

func NewExtractor(restaurants, cuisines *KeywordTable) *Extractor {
	return &Extractor{restaurants: restaurants, cuisines: cuisines}
}

func (x *Extractor) Extract(utterance string) domain.Entities {
	return x.ExtractNormalized(Normalize(utterance))
}

func (x *Extractor) ExtractNormalized(normalized string) domain.Entities {
	return domain.Entities{
		Restaurant: x.restaurants.Lookup(normalized),
		Cuisine:    x.cuisines.Lookup(normalized),
	}
}
