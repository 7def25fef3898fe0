package nlu

import (
	"math/rand"

	"hotable/internal/domain"
)

const (
	DefaultThreshold  = 0.25
	GenericApology    = "Przepraszam, nie zrozumiałem. Spróbuj zapytać inaczej."
	exactMatchScore   = 1.0
	strategyRuleBased = "rules"
)

type Config struct {
	Threshold   float64
	FallbackTag string
	Rules       Rules
}

func DefaultConfig() Config {
	return Config{
		Threshold:   DefaultThreshold,
		FallbackTag: DefaultFallbackTag,
		Rules:       DefaultRules(),
	}
}

type compiledPattern struct {
	tag         string
	raw         string
	normalized  string
	significant []string
}

// Engine is the rule-based intent classifier and entity extractor. It is
// built once from an injected corpus and keyword tables and is read-only
// afterwards, so one Engine can serve concurrent callers.
type Engine struct {
	cfg         Config
	intents     []domain.IntentDefinition
	patterns    []compiledPattern
	index       Index
	responses   map[string][]string
	restaurants *KeywordTable
	cuisines    *KeywordTable
	extractor   *Extractor
	stopWords   map[string]struct{}
}

func NewEngine(intents []domain.IntentDefinition, kw domain.Keywords, cfg Config) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.FallbackTag == "" {
		cfg.FallbackTag = DefaultFallbackTag
	}

	e := &Engine{
		cfg:         cfg,
		intents:     append([]domain.IntentDefinition{}, intents...),
		index:       BuildIndex(intents),
		responses:   make(map[string][]string, len(intents)),
		restaurants: NewKeywordTable(kw.Restaurants),
		cuisines:    NewKeywordTable(kw.Cuisines),
		stopWords:   make(map[string]struct{}, len(kw.StopWords)),
	}
	e.extractor = NewExtractor(e.restaurants, e.cuisines)
	for _, w := range kw.StopWords {
		e.stopWords[Normalize(w)] = struct{}{}
	}

	for _, intent := range intents {
		if _, ok := e.responses[intent.Tag]; !ok {
			e.responses[intent.Tag] = append([]string{}, intent.Responses...)
		}
		for _, p := range intent.Patterns {
			n := Normalize(p)
			e.patterns = append(e.patterns, compiledPattern{
				tag:         intent.Tag,
				raw:         p,
				normalized:  n,
				significant: significantWords(uniqueWords(n), e.stopWords),
			})
		}
	}
	return e
}

func (e *Engine) Strategy() string {
	return strategyRuleBased
}

func (e *Engine) FallbackTag() string {
	return e.cfg.FallbackTag
}

func (e *Engine) Classify(utterance string) Classification {
	return e.Predict(utterance)
}

// Predict runs the full pipeline: exact lookup, exhaustive scoring, entity
// override, fixed-phrase override and the confidence gate.
func (e *Engine) Predict(utterance string) Classification {
	normalized := Normalize(utterance)
	if normalized == "" {
		return e.result(e.cfg.FallbackTag, 0, OriginExact, "")
	}

	if tag, ok := e.index.Lookup(normalized); ok {
		return e.result(tag, exactMatchScore, OriginExact, normalized)
	}

	best := e.scoreNormalized(normalized)

	// Short entity-bearing questions under-score against longer canned
	// patterns, so a recognised entity wins over a weak scorer result.
	if best.Score < e.cfg.Rules.EntityBelow {
		if kw, ok := e.restaurants.Find(normalized); ok {
			tag := e.cfg.Rules.RestaurantDefault
			if cueTag, _, hit := matchFirst(e.cfg.Rules.RestaurantCues, normalized); hit {
				tag = cueTag
			}
			return e.result(tag, best.Score, OriginOverride, kw.Surface)
		}
		if kw, ok := e.cuisines.Find(normalized); ok {
			return e.result(e.cfg.Rules.CuisineTag, best.Score, OriginOverride, kw.Surface)
		}
	}

	if tag, phrase, ok := matchFirst(e.cfg.Rules.Phrases, normalized); ok {
		return e.result(tag, best.Score, OriginOverride, phrase)
	}

	if best.Score < e.cfg.Threshold {
		return e.result(e.cfg.FallbackTag, best.Score, OriginScored, best.Evidence)
	}
	return best
}

// Score returns the exhaustive-stage winner without exact lookup, overrides
// or gating. Useful for inspecting how confident the scorer alone is.
func (e *Engine) Score(utterance string) Classification {
	normalized := Normalize(utterance)
	if normalized == "" {
		return e.result(e.cfg.FallbackTag, 0, OriginScored, "")
	}
	return e.scoreNormalized(normalized)
}

func (e *Engine) scoreNormalized(normalized string) Classification {
	userSig := significantWords(uniqueWords(normalized), e.stopWords)

	best := e.result(e.cfg.FallbackTag, 0, OriginScored, "")
	for _, p := range e.patterns {
		sim := SequenceRatio(normalized, p.normalized)
		overlap := overlapScore(userSig, p.significant)
		containment := containmentScore(normalized, p.normalized)

		combined := combinedScore(sim, overlap, containment)
		// Strictly greater: ties keep the earliest pattern in corpus order.
		if combined > best.Score {
			best = e.result(p.tag, combined, OriginScored, p.raw)
		}
	}
	return best
}

func (e *Engine) result(tag string, score float64, origin Origin, evidence string) Classification {
	return Classification{
		Tag:      tag,
		Score:    score,
		Origin:   origin,
		Unit:     UnitHeuristic,
		Evidence: evidence,
	}
}

func (e *Engine) Extract(utterance string) domain.Entities {
	return e.extractor.Extract(utterance)
}

// Response picks one registered template for tag uniformly at random.
func (e *Engine) Response(tag string) string {
	options := e.responses[tag]
	if len(options) == 0 {
		return GenericApology
	}
	return options[rand.Intn(len(options))]
}

func (e *Engine) Responses(tag string) []string {
	return append([]string{}, e.responses[tag]...)
}

// Tags returns the corpus tags in declaration order.
func (e *Engine) Tags() []string {
	out := make([]string, 0, len(e.intents))
	seen := map[string]struct{}{}
	for _, intent := range e.intents {
		if _, ok := seen[intent.Tag]; ok {
			continue
		}
		seen[intent.Tag] = struct{}{}
		out = append(out, intent.Tag)
	}
	return out
}

func (e *Engine) Index() Index {
	return e.index
}
