package nlu

import (
	"math"
	"unicode/utf8"

	"hotable/internal/domain"
)

const (
	DefaultBayesMinProbability = 0.3
	bayesAlpha                 = 1.0
	bayesMinTokenRunes         = 2
	strategyBayes              = "bayes"
)

// BayesClassifier is a multinomial naive Bayes model trained on the corpus
// patterns. Its scores are posterior probabilities and are reported with
// UnitProbability.
type BayesClassifier struct {
	tags        []string
	docCount    map[string]int
	tokenCount  map[string]map[string]int
	totalTokens map[string]int
	vocabulary  map[string]struct{}
	documents   int
	minProb     float64
	fallbackTag string
}

func NewBayesClassifier(intents []domain.IntentDefinition, minProb float64, fallbackTag string) *BayesClassifier {
	if minProb <= 0 {
		minProb = DefaultBayesMinProbability
	}
	if fallbackTag == "" {
		fallbackTag = DefaultFallbackTag
	}
	c := &BayesClassifier{
		docCount:    map[string]int{},
		tokenCount:  map[string]map[string]int{},
		totalTokens: map[string]int{},
		vocabulary:  map[string]struct{}{},
		minProb:     minProb,
		fallbackTag: fallbackTag,
	}
	for _, intent := range intents {
		if _, ok := c.docCount[intent.Tag]; !ok {
			c.tags = append(c.tags, intent.Tag)
			c.tokenCount[intent.Tag] = map[string]int{}
		}
		for _, p := range intent.Patterns {
			toks := bayesTokens(Normalize(p))
			if len(toks) == 0 {
				continue
			}
			c.docCount[intent.Tag]++
			c.documents++
			for _, tok := range toks {
				c.tokenCount[intent.Tag][tok]++
				c.totalTokens[intent.Tag]++
				c.vocabulary[tok] = struct{}{}
			}
		}
	}
	return c
}

func bayesTokens(normalized string) []string {
	ws := words(normalized)
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		if utf8.RuneCountInString(w) >= bayesMinTokenRunes {
			out = append(out, w)
		}
	}
	return out
}

func (c *BayesClassifier) Strategy() string {
	return strategyBayes
}

func (c *BayesClassifier) FallbackTag() string {
	return c.fallbackTag
}

// Classify returns the most probable tag, or the fallback tag when no known
// token is present or the winning posterior is below the minimum.
func (c *BayesClassifier) Classify(utterance string) Classification {
	normalized := Normalize(utterance)
	fallback := Classification{Tag: c.fallbackTag, Origin: OriginScored, Unit: UnitProbability}
	if normalized == "" || c.documents == 0 {
		return fallback
	}

	var known []string
	for _, tok := range bayesTokens(normalized) {
		if _, ok := c.vocabulary[tok]; ok {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return fallback
	}

	vocab := float64(len(c.vocabulary))
	logs := make([]float64, 0, len(c.tags))
	tags := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		if c.docCount[tag] == 0 {
			continue
		}
		lp := math.Log(float64(c.docCount[tag]) / float64(c.documents))
		denom := float64(c.totalTokens[tag]) + bayesAlpha*vocab
		for _, tok := range known {
			lp += math.Log((float64(c.tokenCount[tag][tok]) + bayesAlpha) / denom)
		}
		logs = append(logs, lp)
		tags = append(tags, tag)
	}

	bestIdx := 0
	maxLog := logs[0]
	for i, lp := range logs {
		if lp > maxLog {
			maxLog = lp
			bestIdx = i
		}
	}
	sum := 0.0
	for _, lp := range logs {
		sum += math.Exp(lp - maxLog)
	}
	prob := 1 / sum

	if prob < c.minProb {
		fallback.Score = prob
		fallback.Evidence = tags[bestIdx]
		return fallback
	}
	return Classification{
		Tag:      tags[bestIdx],
		Score:    prob,
		Origin:   OriginScored,
		Unit:     UnitProbability,
		Evidence: tags[bestIdx],
	}
}
