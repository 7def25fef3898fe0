package domain

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Response  string   `json:"response"`
	Intent    string   `json:"intent"`
	Score     float64  `json:"score"`
	Origin    string   `json:"origin"`
	Entities  Entities `json:"entities"`
	TurnCount int      `json:"turn_count"`
}

// ConversationContext is the per-session slot state carried between turns.
// It is owned by the dialogue router and its session store, never by the
// classification engine.
type ConversationContext struct {
	LastRestaurant string `json:"last_restaurant,omitempty"`
	LastCuisine    string `json:"last_cuisine,omitempty"`
	TurnCount      int    `json:"turn_count"`
}

// Reset clears the entity slots but keeps the turn counter.
func (c ConversationContext) Reset() ConversationContext {
	return ConversationContext{TurnCount: c.TurnCount}
}

type Restaurant struct {
	Name            string `json:"name"`
	Cuisine         string `json:"cuisine"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Hours           string `json:"hours"`
	MaxTables       int    `json:"max_tables"`
	AvailableTables int    `json:"available_tables"`
	Description     string `json:"description,omitempty"`
}

// RestaurantProfile is the static catalog entry rendered by the dialogue
// router; availability lives in the repository, not here.
type RestaurantProfile struct {
	Name        string   `yaml:"name" json:"name"`
	Icon        string   `yaml:"icon" json:"icon"`
	Cuisine     string   `yaml:"cuisine" json:"cuisine"`
	Summary     string   `yaml:"summary" json:"summary"`
	Description string   `yaml:"description" json:"description"`
	Phone       string   `yaml:"phone" json:"phone"`
	Address     string   `yaml:"address" json:"address"`
	Hours       string   `yaml:"hours" json:"hours"`
	MaxTables   int      `yaml:"max_tables" json:"max_tables"`
	PriceRange  string   `yaml:"price_range" json:"price_range"`
	Features    []string `yaml:"features" json:"features"`
	Available   int      `yaml:"available_tables" json:"available_tables"`
}

func (p RestaurantProfile) Restaurant() Restaurant {
	return Restaurant{
		Name:            p.Name,
		Cuisine:         p.Cuisine,
		Phone:           p.Phone,
		Address:         p.Address,
		Hours:           p.Hours,
		MaxTables:       p.MaxTables,
		AvailableTables: p.Available,
		Description:     p.Description,
	}
}

// MQTT payloads

type AvailabilityUpdate struct {
	Restaurant      string `json:"restaurant,omitempty"`
	AvailableTables int    `json:"available_tables"`
}

type TurnEvent struct {
	SessionID string   `json:"session_id"`
	Turn      int      `json:"turn"`
	Message   string   `json:"message"`
	Intent    string   `json:"intent"`
	Score     float64  `json:"score"`
	Origin    string   `json:"origin"`
	Entities  Entities `json:"entities"`
}
