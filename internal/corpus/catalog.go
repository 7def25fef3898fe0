package corpus

import "hotable/internal/domain"

// Catalog is the static restaurant data rendered in replies, indexed by the
// canonical restaurant name.
type Catalog struct {
	order    []string
	profiles map[string]domain.RestaurantProfile
}

func NewCatalog(profiles []domain.RestaurantProfile) *Catalog {
	c := &Catalog{profiles: make(map[string]domain.RestaurantProfile, len(profiles))}
	for _, p := range profiles {
		if _, ok := c.profiles[p.Name]; ok {
			continue
		}
		c.order = append(c.order, p.Name)
		c.profiles[p.Name] = p
	}
	return c
}

func (c *Catalog) Get(name string) (domain.RestaurantProfile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns the active venues in declaration order.
func (c *Catalog) Names() []string {
	return append([]string{}, c.order...)
}

func (c *Catalog) Profiles() []domain.RestaurantProfile {
	out := make([]domain.RestaurantProfile, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.profiles[name])
	}
	return out
}

// Cuisines returns the distinct venue cuisines in declaration order.
func (c *Catalog) Cuisines() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, name := range c.order {
		cuisine := c.profiles[name].Cuisine
		if _, ok := seen[cuisine]; ok || cuisine == "" {
			continue
		}
		seen[cuisine] = struct{}{}
		out = append(out, cuisine)
	}
	return out
}

// RestaurantsByCuisine groups venue names under their canonical cuisine.
func (c *Catalog) RestaurantsByCuisine() map[string][]string {
	out := make(map[string][]string)
	for _, name := range c.order {
		p := c.profiles[name]
		out[p.Cuisine] = append(out[p.Cuisine], name)
	}
	return out
}

// Icon returns the venue icon for a cuisine, or a generic plate.
func (c *Catalog) Icon(cuisine string) string {
	for _, name := range c.order {
		if p := c.profiles[name]; p.Cuisine == cuisine && p.Icon != "" {
			return p.Icon
		}
	}
	return "🍽️"
}
