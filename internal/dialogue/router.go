package dialogue

import (
	"context"
	"log/slog"
	"strings"

	"hotable/internal/corpus"
	"hotable/internal/db"
	"hotable/internal/domain"
	"hotable/internal/nlu"
)

const emptyMessageText = "Nie otrzymałem wiadomości. Spróbuj ponownie."

// Reply is the outcome of one conversation turn.
type Reply struct {
	Text       string
	Intent     string
	Score      float64
	Origin     nlu.Origin
	Unit       nlu.ScoreUnit
	Entities   domain.Entities
	Suggestion string
}

type Config struct {
	Classifier nlu.Classifier
	Engine     *nlu.Engine
	Keywords   domain.Keywords
	Catalog    *corpus.Catalog
	Repository db.Repository
	Logger     *slog.Logger
}

type handler func(ctx context.Context, t *turn) (string, error)

// Router turns classified messages into replies. It holds no conversation
// state itself: callers pass the session context in and store what comes
// back.
type Router struct {
	classifier nlu.Classifier
	engine     *nlu.Engine
	catalog    *corpus.Catalog
	repo       db.Repository
	logger     *slog.Logger
	vocabulary *vocabulary
	handlers   map[string]handler
}

type turn struct {
	message    string
	class      nlu.Classification
	entities   domain.Entities
	unknown    string
	suggestion string
	state      domain.ConversationContext
}

func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = cfg.Engine
	}
	r := &Router{
		classifier: classifier,
		engine:     cfg.Engine,
		catalog:    cfg.Catalog,
		repo:       cfg.Repository,
		logger:     logger,
		vocabulary: newVocabulary(cfg.Keywords),
	}
	r.handlers = map[string]handler{
		"out_of_scope":        r.templated,
		"bot_purpose":         r.templated,
		"thanks":              r.templated,
		"unavailable_cuisine": r.templated,
		"list_cuisines":       r.templated,
		"ask_recommendation":  r.templated,
		"fallback":            r.fallback,
		"greet":               r.resetAndRespond,
		"goodbye":             r.resetAndRespond,
		"book_table":          r.bookTable,
		"list_restaurants":    r.listRestaurants,
		"search_cuisine":      r.searchCuisine,
		"restaurant_info":     r.restaurantInfo,
		"check_seats":         r.checkSeats,
		"check_contact":       r.checkContact,
		"check_hours":         r.checkHours,
		"check_capacity":      r.checkCapacity,
	}
	return r
}

// Turn handles one user message against the given session context and
// returns the reply together with the updated context.
func (r *Router) Turn(ctx context.Context, state domain.ConversationContext, message string) (Reply, domain.ConversationContext, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{Text: emptyMessageText}, state, nil
	}

	state.TurnCount++
	t := &turn{
		message:  message,
		class:    r.classifier.Classify(message),
		entities: r.engine.Extract(message),
		state:    state,
	}
	if t.entities.Restaurant == "" {
		t.unknown = r.vocabulary.unknownWord(message)
		if t.unknown != "" {
			t.suggestion = r.suggest(t.unknown)
		}
	}

	r.logger.Info("chat turn",
		"turn", state.TurnCount,
		"intent", t.class.Tag,
		"origin", t.class.Origin,
		"score", t.class.Score,
		"restaurant", t.entities.Restaurant,
		"cuisine", t.entities.Cuisine,
		"unknown_word", t.unknown,
	)

	h, ok := r.handlers[t.class.Tag]
	if !ok {
		h = r.unhandled
	}
	text, err := h(ctx, t)
	if err != nil {
		return Reply{}, state, err
	}

	return Reply{
		Text:       text,
		Intent:     t.class.Tag,
		Score:      t.class.Score,
		Origin:     t.class.Origin,
		Unit:       t.class.Unit,
		Entities:   t.entities,
		Suggestion: t.suggestion,
	}, t.state, nil
}

// restaurant returns the extracted restaurant, or the one remembered from an
// earlier turn.
func (t *turn) restaurant() string {
	if t.entities.Restaurant != "" {
		return t.entities.Restaurant
	}
	return t.state.LastRestaurant
}
