package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotable/internal/domain"
)

func seed() []domain.Restaurant {
	return []domain.Restaurant{
		{Name: "Zielnik", Cuisine: "Polska", MaxTables: 6, AvailableTables: 0},
		{Name: "Neon", Cuisine: "StreetFood", MaxTables: 10, AvailableTables: 4},
		{Name: "Porto Azzurro", Cuisine: "Śródziemnomorska", MaxTables: 15, AvailableTables: 7},
	}
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "hotable.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Seed(ctx, seed()))
	return store
}

func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"memory": NewMemoryStore(seed()),
		"sqlite": openSQLite(t),
	}
}

func TestRepositoryContract(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			all, err := repo.ListRestaurants(ctx)
			require.NoError(t, err)
			names := make([]string, 0, len(all))
			for _, r := range all {
				names = append(names, r.Name)
			}
			assert.Equal(t, []string{"Neon", "Porto Azzurro", "Zielnik"}, names)

			med, err := repo.RestaurantsByCuisine(ctx, "ŚRÓDZIEMNO")
			require.NoError(t, err)
			require.Len(t, med, 1)
			assert.Equal(t, "Porto Azzurro", med[0].Name)

			none, err := repo.RestaurantsByCuisine(ctx, "Tajska")
			require.NoError(t, err)
			assert.Empty(t, none)

			exact, err := repo.CheckAvailability(ctx, "neon")
			require.NoError(t, err)
			assert.Equal(t, 4, exact.AvailableTables)

			partial, err := repo.CheckAvailability(ctx, "porto")
			require.NoError(t, err)
			assert.Equal(t, "Porto Azzurro", partial.Name)

			_, err = repo.CheckAvailability(ctx, "Sakura")
			assert.True(t, errors.Is(err, ErrRestaurantNotFound))

			stored, err := repo.UpdateAvailability(ctx, "ZIELNIK", 3)
			require.NoError(t, err)
			assert.Equal(t, "Zielnik", stored.Name)
			assert.Equal(t, 3, stored.AvailableTables)
			updated, err := repo.CheckAvailability(ctx, "Zielnik")
			require.NoError(t, err)
			assert.Equal(t, 3, updated.AvailableTables)

			_, err = repo.UpdateAvailability(ctx, "Sakura", 1)
			assert.True(t, errors.Is(err, ErrRestaurantNotFound))
			_, err = repo.UpdateAvailability(ctx, "Neon", -1)
			assert.True(t, errors.Is(err, ErrInvalidAvailability))
		})
	}
}

func TestSQLiteSeedKeepsLiveAvailability(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	_, err := store.UpdateAvailability(ctx, "Neon", 9)
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx, seed()))

	neon, err := store.CheckAvailability(ctx, "Neon")
	require.NoError(t, err)
	assert.Equal(t, 9, neon.AvailableTables)
}

func TestUpdateAvailabilityNeedsFullName(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, target := range []string{"e", "porto", "Zielni", "", "  "} {
				_, err := repo.UpdateAvailability(ctx, target, 0)
				if !errors.Is(err, ErrRestaurantNotFound) {
					t.Fatalf("UpdateAvailability(%q) err=%v, want ErrRestaurantNotFound", target, err)
				}
			}

			all, err := repo.ListRestaurants(ctx)
			require.NoError(t, err)
			for _, r := range all {
				assert.Equal(t, seedTables(r.Name), r.AvailableTables, r.Name)
			}

			stored, err := repo.UpdateAvailability(ctx, " porto AZZURRO ", 1)
			require.NoError(t, err)
			assert.Equal(t, "Porto Azzurro", stored.Name)
		})
	}
}

func seedTables(name string) int {
	for _, r := range seed() {
		if r.Name == name {
			return r.AvailableTables
		}
	}
	return -1
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seed())

	first, err := store.ListRestaurants(ctx)
	require.NoError(t, err)
	first[0].AvailableTables = 99

	second, err := store.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, second[0].AvailableTables)
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike=%q", got)
	}
}
