package nlu

// Origin tells which stage produced a classification.
type Origin string

const (
	OriginExact    Origin = "exact"
	OriginScored   Origin = "scored"
	OriginOverride Origin = "override"
)

// ScoreUnit keeps heuristic scores and model probabilities apart: they are
// not comparable and must never be mixed in one decision.
type ScoreUnit string

const (
	UnitHeuristic   ScoreUnit = "heuristic"
	UnitProbability ScoreUnit = "probability"
)

const DefaultFallbackTag = "fallback"

type Classification struct {
	Tag    string
	Score  float64
	Origin Origin
	Unit   ScoreUnit
	// Evidence is the pattern, keyword or phrase that decided the result.
	Evidence string
}

// Classifier is the predict contract shared by the rule engine and the naive
// Bayes strategy.
type Classifier interface {
	Classify(utterance string) Classification
}
