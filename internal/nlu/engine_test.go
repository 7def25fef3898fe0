package nlu

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotable/internal/domain"
)

func intent(tag string, patterns ...string) domain.IntentDefinition {
	return domain.IntentDefinition{Tag: tag, Patterns: patterns}
}

func newTestEngine(intents []domain.IntentDefinition, kw domain.Keywords) *Engine {
	return NewEngine(intents, kw, DefaultConfig())
}

func TestPredictExactMatch(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "Cześć")}, domain.Keywords{})

	got := e.Predict("cześć!")
	assert.Equal(t, "greet", got.Tag)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, OriginExact, got.Origin)
	assert.Equal(t, UnitHeuristic, got.Unit)
}

func TestPredictEmptyInputFallsBack(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "Cześć")}, domain.Keywords{})

	for _, in := range []string{"", "   ", "?!"} {
		got := e.Predict(in)
		assert.Equal(t, DefaultFallbackTag, got.Tag, "input %q", in)
		assert.Equal(t, 0.0, got.Score)
		assert.Equal(t, OriginExact, got.Origin)
	}
}

func TestPredictScoredContainment(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "cześć"), intent("other", "hi")}, domain.Keywords{})

	got := e.Predict("Cześć wszystkim")
	assert.Equal(t, "greet", got.Tag)
	assert.Equal(t, OriginScored, got.Origin)
	assert.InDelta(t, 0.9, got.Score, 1e-9)
	assert.Equal(t, "cześć", got.Evidence)
}

func TestPredictLowConfidenceFallsBack(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "cześć"), intent("other", "hi")}, domain.Keywords{})

	got := e.Predict("jaka jest pogoda")
	assert.Equal(t, DefaultFallbackTag, got.Tag)
	assert.Equal(t, OriginScored, got.Origin)
	assert.Less(t, got.Score, DefaultThreshold)
}

func TestPredictTiesKeepEarliestPattern(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{
		intent("first", "dobry wieczór"),
		intent("second", "dobry wieczór"),
	}, domain.Keywords{})

	got := e.Predict("bardzo dobry wieczór")
	assert.Equal(t, "first", got.Tag)
	assert.Equal(t, OriginScored, got.Origin)
}

func TestPredictRestaurantOverrideUsesCues(t *testing.T) {
	kw := domain.Keywords{Restaurants: []domain.KeywordEntry{{Surface: "neon", Canonical: "Neon"}}}
	e := newTestEngine([]domain.IntentDefinition{intent("other", "hi")}, kw)

	cases := []struct {
		in   string
		want string
	}{
		{in: "neon telefon", want: "check_contact"},
		{in: "neon wolne", want: "check_seats"},
		{in: "neon kiedy", want: "check_hours"},
		// Entity override wins over the fixed "co polecasz" phrase.
		{in: "neon co polecasz", want: "restaurant_info"},
	}
	for _, tc := range cases {
		got := e.Predict(tc.in)
		assert.Equal(t, tc.want, got.Tag, "input %q", tc.in)
		assert.Equal(t, OriginOverride, got.Origin, "input %q", tc.in)
		assert.Equal(t, "neon", got.Evidence)
	}
}

func TestPredictCuisineOverride(t *testing.T) {
	kw := domain.Keywords{Cuisines: []domain.KeywordEntry{{Surface: "pizza", Canonical: "Śródziemnomorska"}}}
	e := newTestEngine([]domain.IntentDefinition{intent("other", "hi")}, kw)

	got := e.Predict("pizza proszę")
	assert.Equal(t, "search_cuisine", got.Tag)
	assert.Equal(t, OriginOverride, got.Origin)
	assert.Equal(t, "pizza", got.Evidence)
}

func TestPredictPhraseOverride(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("menu", "co polecasz dzisiaj")}, domain.Keywords{})

	got := e.Predict("co polecasz")
	assert.Equal(t, "ask_recommendation", got.Tag)
	assert.Equal(t, OriginOverride, got.Origin)
	assert.Equal(t, "co polecasz", got.Evidence)
	assert.Greater(t, got.Score, 0.5)
}

func TestPredictStrongScoreSkipsEntityOverride(t *testing.T) {
	kw := domain.Keywords{Restaurants: []domain.KeywordEntry{{Surface: "neon", Canonical: "Neon"}}}
	e := newTestEngine([]domain.IntentDefinition{intent("book_table", "rezerwacja w neon")}, kw)

	got := e.Predict("rezerwacja w neon jutro")
	assert.Equal(t, "book_table", got.Tag)
	assert.Equal(t, OriginScored, got.Origin)
}

func TestScoreSkipsOverridesAndGate(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "cześć")}, domain.Keywords{})

	got := e.Score("cześć")
	assert.Equal(t, "greet", got.Tag)
	assert.Equal(t, OriginScored, got.Origin)
	assert.InDelta(t, 1.0, got.Score, 1e-9)
}

func TestExtractLongestSurfaceFirst(t *testing.T) {
	kw := domain.Keywords{
		Restaurants: []domain.KeywordEntry{
			{Surface: "porto", Canonical: "Porto Azzurro"},
			{Surface: "Neon", Canonical: "Neon"},
		},
		Cuisines: []domain.KeywordEntry{
			{Surface: "pizza", Canonical: "Włoska"},
			{Surface: "pizza neapolitańska", Canonical: "Neapolitańska"},
		},
	}
	e := newTestEngine(nil, kw)

	got := e.Extract("Chcę PIZZA neapolitańska w Neonie")
	assert.Equal(t, domain.Entities{Restaurant: "Neon", Cuisine: "Neapolitańska"}, got)

	none := e.Extract("dzień dobry")
	assert.True(t, none.Empty())
}

func TestExtractDeterministic(t *testing.T) {
	e := newTestEngine(nil, domain.Keywords{
		Restaurants: []domain.KeywordEntry{
			{Surface: "porto azzurro", Canonical: "Porto Azzurro"},
			{Surface: "porto", Canonical: "Porto Azzurro"},
			{Surface: "neon", Canonical: "Neon"},
			{Surface: "zielnik", Canonical: "Zielnik"},
		},
		Cuisines: []domain.KeywordEntry{
			{Surface: "śródziemnomorsk", Canonical: "Śródziemnomorska"},
			{Surface: "włosk", Canonical: "Śródziemnomorska"},
			{Surface: "polsk", Canonical: "Polska"},
		},
	})
	cases := []struct {
		name string
		in   string
		want domain.Entities
	}{
		{name: "restaurant", in: "Chcę zarezerwować stolik w Porto Azzurro", want: domain.Entities{Restaurant: "Porto Azzurro"}},
		{name: "diacritic capitals", in: "KUCHNIA WŁOSKA w NEONIE", want: domain.Entities{Restaurant: "Neon", Cuisine: "Śródziemnomorska"}},
		{name: "combining marks", in: "KUCHNIA S\u0301RO\u0301DZIEMNOMORSKA", want: domain.Entities{Cuisine: "Śródziemnomorska"}},
		{name: "tabs", in: "zielnik\tkuchnia\t\tpolska", want: domain.Entities{Restaurant: "Zielnik", Cuisine: "Polska"}},
		{name: "punctuation only", in: "?!...", want: domain.Entities{}},
		{name: "empty", in: "", want: domain.Entities{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first := e.Extract(tc.in)
			assert.Equal(t, tc.want, first)
			for i := 0; i < 20; i++ {
				require.Equal(t, first, e.Extract(tc.in))
			}
		})
	}
}

func TestKeywordTableKeepsFirstDuplicateSurface(t *testing.T) {
	table := NewKeywordTable([]domain.KeywordEntry{
		{Surface: "ziel", Canonical: "Zielnik"},
		{Surface: "ZIEL", Canonical: "Other"},
		{Surface: "", Canonical: "Empty"},
	})
	assert.Equal(t, "Zielnik", table.Lookup("w ziel"))
	assert.Equal(t, []string{"Zielnik"}, table.Canonicals())
}

func TestIndexCollisionsResolveToFirstTag(t *testing.T) {
	idx := BuildIndex([]domain.IntentDefinition{
		intent("greet", "hej"),
		intent("thanks", "Hej!"),
	})
	tag, ok := idx.Lookup("hej")
	require.True(t, ok)
	assert.Equal(t, "greet", tag)
	assert.Equal(t, map[string][]string{"hej": {"greet", "thanks"}}, idx.Collisions())
}

func TestResponse(t *testing.T) {
	e := newTestEngine([]domain.IntentDefinition{
		{Tag: "greet", Patterns: []string{"cześć"}, Responses: []string{"Hej!", "Dzień dobry!"}},
		{Tag: "silent", Patterns: []string{"cisza"}},
	}, domain.Keywords{})

	for i := 0; i < 20; i++ {
		assert.Contains(t, []string{"Hej!", "Dzień dobry!"}, e.Response("greet"))
	}
	assert.Equal(t, GenericApology, e.Response("silent"))
	assert.Equal(t, GenericApology, e.Response("unknown"))
	assert.Equal(t, []string{"greet", "silent"}, e.Tags())
}

func TestPredictConcurrentUse(t *testing.T) {
	kw := domain.Keywords{Restaurants: []domain.KeywordEntry{{Surface: "neon", Canonical: "Neon"}}}
	e := newTestEngine([]domain.IntentDefinition{intent("greet", "cześć")}, kw)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if got := e.Predict("neon telefon"); got.Tag != "check_contact" {
					t.Errorf("tag=%s, want check_contact", got.Tag)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestBayesClassifier(t *testing.T) {
	intents := []domain.IntentDefinition{
		intent("greet", "cześć", "dzień dobry", "hej"),
		intent("check_hours", "godziny otwarcia", "o której otwieracie", "kiedy czynne"),
	}
	c := NewBayesClassifier(intents, 0, "")

	got := c.Classify("jakie macie godziny otwarcia")
	assert.Equal(t, "check_hours", got.Tag)
	assert.Equal(t, UnitProbability, got.Unit)
	assert.InDelta(t, 0.754, got.Score, 0.01)

	unknown := c.Classify("zupełnie obce słowa")
	assert.Equal(t, DefaultFallbackTag, unknown.Tag)
	assert.Equal(t, 0.0, unknown.Score)
	assert.Equal(t, UnitProbability, unknown.Unit)
}

func TestBayesClassifierBelowMinimumFallsBack(t *testing.T) {
	intents := []domain.IntentDefinition{
		intent("a", "wspólne słowo"),
		intent("b", "wspólne słowo"),
	}
	c := NewBayesClassifier(intents, 0.6, "fallback")

	got := c.Classify("wspólne")
	assert.Equal(t, "fallback", got.Tag)
	assert.InDelta(t, 0.5, got.Score, 1e-9)
	assert.Equal(t, "a", got.Evidence)
}
