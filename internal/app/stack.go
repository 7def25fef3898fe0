package app

import (
	"errors"
	"fmt"
	"log/slog"

	"hotable/internal/config"
	"hotable/internal/corpus"
	"hotable/internal/db"
	"hotable/internal/dialogue"
	"hotable/internal/domain"
	"hotable/internal/nlu"
)

var ErrUnknownVenue = errors.New("restaurant keyword has no catalog profile")

// Stack is the loaded corpus plus the classifier chosen for this deployment.
type Stack struct {
	Engine     *nlu.Engine
	Classifier nlu.Classifier
	Strategy   string
	Keywords   domain.Keywords
	Profiles   []domain.RestaurantProfile
	Catalog    *corpus.Catalog
}

func LoadStack(cfg config.NLUConfig) (*Stack, error) {
	intents, err := corpus.LoadIntents(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load intents: %w", err)
	}
	kw, err := corpus.LoadKeywords(cfg.KeywordsPath)
	if err != nil {
		return nil, fmt.Errorf("load keywords: %w", err)
	}
	profiles, err := corpus.LoadRestaurants(cfg.RestaurantsPath)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}

	catalog := corpus.NewCatalog(profiles)
	// Every extractable venue must be renderable by the dialogue handlers.
	for _, name := range nlu.NewKeywordTable(kw.Restaurants).Canonicals() {
		if _, ok := catalog.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVenue, name)
		}
	}

	engineCfg := nlu.DefaultConfig()
	engineCfg.Threshold = cfg.ConfidenceThreshold
	engine := nlu.NewEngine(intents, kw, engineCfg)

	s := &Stack{
		Engine:     engine,
		Classifier: engine,
		Strategy:   engine.Strategy(),
		Keywords:   kw,
		Profiles:   profiles,
		Catalog:    catalog,
	}
	if cfg.Strategy == config.StrategyBayes {
		bayes := nlu.NewBayesClassifier(intents, cfg.BayesMinProbability, engine.FallbackTag())
		s.Classifier = bayes
		s.Strategy = bayes.Strategy()
	}
	return s, nil
}

func (s *Stack) Router(repo db.Repository, logger *slog.Logger) *dialogue.Router {
	return dialogue.NewRouter(dialogue.Config{
		Classifier: s.Classifier,
		Engine:     s.Engine,
		Keywords:   s.Keywords,
		Catalog:    s.Catalog,
		Repository: repo,
		Logger:     logger,
	})
}

// Predict runs the deployment's classifier and renders it as the wire type.
func (s *Stack) Predict(message string) domain.PredictResponse {
	c := s.Classifier.Classify(message)
	return domain.PredictResponse{
		Intent:   c.Tag,
		Score:    c.Score,
		Origin:   string(c.Origin),
		Unit:     string(c.Unit),
		Strategy: s.Strategy,
		Evidence: c.Evidence,
	}
}
