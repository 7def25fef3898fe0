package domain

// IntentDefinition is one corpus record. Patterns and responses keep their
// declaration order.
type IntentDefinition struct {
	Tag       string   `yaml:"tag" json:"tag"`
	Patterns  []string `yaml:"patterns" json:"patterns"`
	Responses []string `yaml:"responses" json:"responses"`
}

// KeywordEntry maps one surface form to its canonical entity value.
type KeywordEntry struct {
	Surface   string
	Canonical string
}

type Keywords struct {
	Restaurants []KeywordEntry
	Cuisines    []KeywordEntry
	StopWords   []string
	// IntentHints are auxiliary synonyms per intent; the rule engine does not
	// score with them, they feed unknown-word detection.
	IntentHints map[string][]string
}

// Entities holds the canonical values found in an utterance. An empty string
// means the slot was not found.
type Entities struct {
	Restaurant string `json:"restaurant,omitempty"`
	Cuisine    string `json:"cuisine,omitempty"`
}

func (e Entities) Empty() bool {
	return e.Restaurant == "" && e.Cuisine == ""
}

type EvalCase struct {
	Message string `yaml:"message" json:"message"`
	Expect  string `yaml:"expect" json:"expect"`
}
