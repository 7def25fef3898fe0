package db

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"hotable/internal/domain"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrInvalidAvailability = errors.New("available tables must not be negative")
)

// Repository is the restaurant availability backend used by the dialogue
// router and the availability hub.
type Repository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	RestaurantsByCuisine(ctx context.Context, cuisine string) ([]domain.Restaurant, error)
	// CheckAvailability resolves name by case-insensitive equality first and
	// falls back to a case-insensitive substring match.
	CheckAvailability(ctx context.Context, name string) (domain.Restaurant, error)
	// UpdateAvailability only writes to the venue whose name equals name
	// ignoring case, and returns the stored row.
	UpdateAvailability(ctx context.Context, name string, tables int) (domain.Restaurant, error)
	Close()
}

// fold maps s to a caseless form. Unlike SQL LOWER in SQLite it also folds
// Polish diacritic capitals.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func containsFold(s, sub string) bool {
	return strings.Contains(fold(s), fold(sub))
}

func sortByName(items []domain.Restaurant) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}

// resolve applies the exact-then-partial lookup over an in-process list.
func resolve(items []domain.Restaurant, name string) (domain.Restaurant, bool) {
	want := fold(name)
	if want == "" {
		return domain.Restaurant{}, false
	}
	for _, r := range items {
		if fold(r.Name) == want {
			return r, true
		}
	}
	for _, r := range items {
		if strings.Contains(fold(r.Name), want) {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}

func filterByCuisine(items []domain.Restaurant, cuisine string) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(items))
	for _, r := range items {
		if containsFold(r.Cuisine, cuisine) {
			out = append(out, r)
		}
	}
	return out
}

func SeedRestaurants(profiles []domain.RestaurantProfile) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.Restaurant())
	}
	return out
}
