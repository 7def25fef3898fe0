package nlu

import "strings"

// CueRule assigns Tag when the normalized utterance contains any of Cues.
type CueRule struct {
	Tag  string
	Cues []string
}

func (r CueRule) match(normalized string) (string, bool) {
	for _, cue := range r.Cues {
		if cue != "" && strings.Contains(normalized, cue) {
			return cue, true
		}
	}
	return "", false
}

// Rules configures the override layer that runs after exhaustive scoring.
type Rules struct {
	// EntityBelow is the best exhaustive score under which entity keywords
	// may override the scorer.
	EntityBelow float64
	// RestaurantCues refine a restaurant mention into a specific question,
	// checked in order; RestaurantDefault applies when none matches.
	RestaurantCues    []CueRule
	RestaurantDefault string
	CuisineTag        string
	// Phrases are fixed multi-word triggers checked in order, regardless of
	// the exhaustive score.
	Phrases []CueRule
}

func DefaultRules() Rules {
	return Rules{
		EntityBelow: 0.5,
		RestaurantCues: []CueRule{
			{Tag: "check_seats", Cues: []string{"ile", "wolne", "miejsca", "stoliki", "dostępność"}},
			{Tag: "check_contact", Cues: []string{"adres", "telefon", "numer", "kontakt", "gdzie jest"}},
			{Tag: "check_hours", Cues: []string{"godziny", "otwarte", "czynne", "kiedy"}},
		},
		RestaurantDefault: "restaurant_info",
		CuisineTag:        "search_cuisine",
		Phrases: []CueRule{
			{Tag: "check_seats", Cues: []string{"ile miejsc", "ile stolików", "wolne stoliki", "czy są miejsca"}},
			{Tag: "check_contact", Cues: []string{"jaki adres", "gdzie jest", "telefon do", "kontakt do"}},
			{Tag: "check_hours", Cues: []string{"godziny otwarcia", "o której", "do której", "kiedy otwarte"}},
			{Tag: "ask_recommendation", Cues: []string{"co polecasz", "którą polecasz", "co wybrać", "nie wiem co"}},
			{Tag: "list_restaurants", Cues: []string{"jakie restauracje", "lista restauracji", "pokaż lokale", "jakie lokale"}},
			{Tag: "list_cuisines", Cues: []string{"jakie kuchnie", "rodzaje kuchni", "typy jedzenia", "co serwujecie"}},
		},
	}
}

func matchFirst(rules []CueRule, normalized string) (tag, cue string, ok bool) {
	for _, r := range rules {
		if c, hit := r.match(normalized); hit {
			return r.Tag, c, true
		}
	}
	return "", "", false
}
