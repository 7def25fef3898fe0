package corpus

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hotable/internal/domain"
)

//go:embed data/*.yaml
var bundled embed.FS

const (
	intentsFile     = "data/intents.yaml"
	keywordsFile    = "data/keywords.yaml"
	restaurantsFile = "data/restaurants.yaml"
	evaluationFile  = "data/evaluation.yaml"
)

var (
	ErrEmptyTag     = errors.New("intent tag is empty")
	ErrDuplicateTag = errors.New("duplicate intent tag")
	ErrEmptyAlias   = errors.New("keyword entry has no canonical value")
	ErrNoRestaurant = errors.New("restaurant profile has no name")
)

type intentsDoc struct {
	Intents []domain.IntentDefinition `yaml:"intents"`
}

type keywordGroup struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

type keywordsDoc struct {
	Restaurants []keywordGroup      `yaml:"restaurants"`
	Cuisines    []keywordGroup      `yaml:"cuisines"`
	StopWords   []string            `yaml:"stop_words"`
	IntentHints map[string][]string `yaml:"intent_hints"`
}

type restaurantsDoc struct {
	Restaurants []domain.RestaurantProfile `yaml:"restaurants"`
}

type evaluationDoc struct {
	Cases []domain.EvalCase `yaml:"cases"`
}

// read returns the file at path, or the bundled copy when path is empty.
func read(path, fallback string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return bundled.ReadFile(fallback)
	}
	return os.ReadFile(path)
}

func LoadIntents(path string) ([]domain.IntentDefinition, error) {
	raw, err := read(path, intentsFile)
	if err != nil {
		return nil, fmt.Errorf("read intents: %w", err)
	}
	return ParseIntents(raw)
}

func ParseIntents(raw []byte) ([]domain.IntentDefinition, error) {
	var doc intentsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode intents: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Intents))
	for i, intent := range doc.Intents {
		tag := strings.TrimSpace(intent.Tag)
		if tag == "" {
			return nil, fmt.Errorf("intent #%d: %w", i, ErrEmptyTag)
		}
		if _, dup := seen[tag]; dup {
			return nil, fmt.Errorf("intent %q: %w", tag, ErrDuplicateTag)
		}
		seen[tag] = struct{}{}
		doc.Intents[i].Tag = tag
	}
	return doc.Intents, nil
}

func LoadKeywords(path string) (domain.Keywords, error) {
	raw, err := read(path, keywordsFile)
	if err != nil {
		return domain.Keywords{}, fmt.Errorf("read keywords: %w", err)
	}
	return ParseKeywords(raw)
}

// ParseKeywords flattens canonical groups into surface entries, keeping the
// declaration order of groups and aliases.
func ParseKeywords(raw []byte) (domain.Keywords, error) {
	var doc keywordsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Keywords{}, fmt.Errorf("decode keywords: %w", err)
	}
	restaurants, err := flatten("restaurants", doc.Restaurants)
	if err != nil {
		return domain.Keywords{}, err
	}
	cuisines, err := flatten("cuisines", doc.Cuisines)
	if err != nil {
		return domain.Keywords{}, err
	}
	return domain.Keywords{
		Restaurants: restaurants,
		Cuisines:    cuisines,
		StopWords:   doc.StopWords,
		IntentHints: doc.IntentHints,
	}, nil
}

func flatten(section string, groups []keywordGroup) ([]domain.KeywordEntry, error) {
	var out []domain.KeywordEntry
	for i, g := range groups {
		canonical := strings.TrimSpace(g.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("%s #%d: %w", section, i, ErrEmptyAlias)
		}
		for _, alias := range g.Aliases {
			out = append(out, domain.KeywordEntry{Surface: alias, Canonical: canonical})
		}
	}
	return out, nil
}

func LoadRestaurants(path string) ([]domain.RestaurantProfile, error) {
	raw, err := read(path, restaurantsFile)
	if err != nil {
		return nil, fmt.Errorf("read restaurants: %w", err)
	}
	var doc restaurantsDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	for i, p := range doc.Restaurants {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("restaurant #%d: %w", i, ErrNoRestaurant)
		}
	}
	return doc.Restaurants, nil
}

func LoadEvalCases(path string) ([]domain.EvalCase, error) {
	raw, err := read(path, evaluationFile)
	if err != nil {
		return nil, fmt.Errorf("read evaluation cases: %w", err)
	}
	var doc evaluationDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode evaluation cases: %w", err)
	}
	return doc.Cases, nil
}
