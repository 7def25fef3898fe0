package dialogue

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"hotable/internal/domain"
	"hotable/internal/nlu"
)

const (
	unknownMinRunes    = 3
	suggestMinRunes    = 4
	suggestMinSimilar  = 0.6
	wordTrimCharacters = ".,?!:;\"'-"
)

// vocabulary is every word the bot knows how to interpret: entity surface
// forms, stop words and intent hint words.
type vocabulary struct {
	words      map[string]struct{}
	phrases    []string
	surfaces   []string
	canonicals map[string]string
}

func newVocabulary(kw domain.Keywords) *vocabulary {
	v := &vocabulary{
		words:      map[string]struct{}{},
		canonicals: map[string]string{},
	}
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := v.words[s]; ok {
			return
		}
		v.words[s] = struct{}{}
		v.phrases = append(v.phrases, s)
	}
	for _, e := range kw.Restaurants {
		add(e.Surface)
		surface := strings.ToLower(strings.TrimSpace(e.Surface))
		if _, ok := v.canonicals[surface]; !ok && surface != "" {
			v.canonicals[surface] = e.Canonical
			v.surfaces = append(v.surfaces, surface)
		}
	}
	for _, e := range kw.Cuisines {
		add(e.Surface)
	}
	for _, w := range kw.StopWords {
		add(w)
	}
	for _, hints := range kw.IntentHints {
		for _, h := range hints {
			add(h)
		}
	}
	return v
}

// unknownWord returns the first word of message that is neither known nor a
// fragment of a known phrase. Such a word is likely a venue we do not serve.
func (v *vocabulary) unknownWord(message string) string {
	for _, raw := range strings.Fields(strings.ToLower(message)) {
		w := strings.Trim(raw, wordTrimCharacters)
		if utf8.RuneCountInString(w) < unknownMinRunes {
			continue
		}
		if _, ok := v.words[w]; ok {
			continue
		}
		if v.isFragment(w) {
			continue
		}
		return w
	}
	return ""
}

func (v *vocabulary) isFragment(w string) bool {
	for _, p := range v.phrases {
		if strings.Contains(p, w) {
			return true
		}
	}
	return false
}

// suggest proposes a served restaurant for a mistyped name.
func (r *Router) suggest(word string) string {
	if utf8.RuneCountInString(word) < suggestMinRunes {
		return ""
	}
	for _, m := range fuzzy.Find(word, r.vocabulary.surfaces) {
		if nlu.SequenceRatio(word, m.Str) >= suggestMinSimilar {
			return r.vocabulary.canonicals[m.Str]
		}
	}
	return ""
}
