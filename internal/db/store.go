package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotable/internal/domain"
)

// Store is the PostgreSQL-backed Repository.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			name TEXT PRIMARY KEY,
			cuisine TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			hours TEXT NOT NULL DEFAULT '',
			max_tables INTEGER NOT NULL DEFAULT 0,
			available_tables INTEGER NOT NULL DEFAULT 0 CHECK (available_tables >= 0),
			description TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_cuisine ON restaurants(cuisine);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Seed upserts catalog data. Live availability of existing rows is kept.
func (s *Store) Seed(ctx context.Context, items []domain.Restaurant) error {
	for _, r := range items {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO restaurants(name, cuisine, phone, address, hours, max_tables, available_tables, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name)
			DO UPDATE SET cuisine = EXCLUDED.cuisine,
				phone = EXCLUDED.phone,
				address = EXCLUDED.address,
				hours = EXCLUDED.hours,
				max_tables = EXCLUDED.max_tables,
				description = EXCLUDED.description,
				updated_at = NOW();
		`, r.Name, r.Cuisine, r.Phone, r.Address, r.Hours, r.MaxTables, r.AvailableTables, r.Description)
		if err != nil {
			return fmt.Errorf("seed %s: %w", r.Name, err)
		}
	}
	return nil
}

const restaurantColumns = `name, cuisine, phone, address, hours, max_tables, available_tables, description`

func (s *Store) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	return collectRestaurants(rows)
}

func (s *Store) RestaurantsByCuisine(ctx context.Context, cuisine string) ([]domain.Restaurant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE cuisine ILIKE $1
		ORDER BY name ASC
	`, "%"+escapeLike(cuisine)+"%")
	if err != nil {
		return nil, err
	}
	return collectRestaurants(rows)
}

func (s *Store) CheckAvailability(ctx context.Context, name string) (domain.Restaurant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}

	out, err := s.queryOne(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE name ILIKE $1
		LIMIT 1
	`, escapeLike(name))
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, err
	}

	out, err = s.queryOne(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE name ILIKE $1
		ORDER BY name ASC
		LIMIT 1
	`, "%"+escapeLike(name)+"%")
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	if err != nil {
		return domain.Restaurant{}, err
	}
	return out, nil
}

func (s *Store) UpdateAvailability(ctx context.Context, name string, tables int) (domain.Restaurant, error) {
	if tables < 0 {
		return domain.Restaurant{}, ErrInvalidAvailability
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	out, err := s.queryOne(ctx, `
		UPDATE restaurants
		SET available_tables = $2, updated_at = NOW()
		WHERE name ILIKE $1
		RETURNING `+restaurantColumns, escapeLike(name), tables)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	if err != nil {
		return domain.Restaurant{}, err
	}
	return out, nil
}

func (s *Store) queryOne(ctx context.Context, query string, args ...any) (domain.Restaurant, error) {
	var r domain.Restaurant
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&r.Name,
		&r.Cuisine,
		&r.Phone,
		&r.Address,
		&r.Hours,
		&r.MaxTables,
		&r.AvailableTables,
		&r.Description,
	)
	return r, err
}

func collectRestaurants(rows pgx.Rows) ([]domain.Restaurant, error) {
	defer rows.Close()

	out := make([]domain.Restaurant, 0)
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(
			&r.Name,
			&r.Cuisine,
			&r.Phone,
			&r.Address,
			&r.Hours,
			&r.MaxTables,
			&r.AvailableTables,
			&r.Description,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
