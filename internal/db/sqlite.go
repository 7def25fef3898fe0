package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"hotable/internal/domain"
)

// SQLiteStore is a single-file local Repository. Matching is done in Go
// because SQLite's LOWER only folds ASCII.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS restaurants (
			name TEXT PRIMARY KEY,
			cuisine TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			hours TEXT NOT NULL DEFAULT '',
			max_tables INTEGER NOT NULL DEFAULT 0,
			available_tables INTEGER NOT NULL DEFAULT 0 CHECK (available_tables >= 0),
			description TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (s *SQLiteStore) Seed(ctx context.Context, items []domain.Restaurant) error {
	for _, r := range items {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO restaurants(name, cuisine, phone, address, hours, max_tables, available_tables, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name)
			DO UPDATE SET cuisine = excluded.cuisine,
				phone = excluded.phone,
				address = excluded.address,
				hours = excluded.hours,
				max_tables = excluded.max_tables,
				description = excluded.description,
				updated_at = CURRENT_TIMESTAMP;
		`, r.Name, r.Cuisine, r.Phone, r.Address, r.Hours, r.MaxTables, r.AvailableTables, r.Description)
		if err != nil {
			return fmt.Errorf("seed %s: %w", r.Name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
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

func (s *SQLiteStore) RestaurantsByCuisine(ctx context.Context, cuisine string) ([]domain.Restaurant, error) {
	all, err := s.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return filterByCuisine(all, cuisine), nil
}

func (s *SQLiteStore) CheckAvailability(ctx context.Context, name string) (domain.Restaurant, error) {
	all, err := s.ListRestaurants(ctx)
	if err != nil {
		return domain.Restaurant{}, err
	}
	r, ok := resolve(all, name)
	if !ok {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	return r, nil
}

func (s *SQLiteStore) UpdateAvailability(ctx context.Context, name string, tables int) (domain.Restaurant, error) {
	if tables < 0 {
		return domain.Restaurant{}, ErrInvalidAvailability
	}
	want := fold(name)
	if want == "" {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	all, err := s.ListRestaurants(ctx)
	if err != nil {
		return domain.Restaurant{}, err
	}
	for _, r := range all {
		if fold(r.Name) != want {
			continue
		}
		if _, err := s.db.ExecContext(ctx, `
			UPDATE restaurants
			SET available_tables = ?, updated_at = CURRENT_TIMESTAMP
			WHERE name = ?
		`, tables, r.Name); err != nil {
			return domain.Restaurant{}, err
		}
		r.AvailableTables = tables
		return r, nil
	}
	return domain.Restaurant{}, ErrRestaurantNotFound
}
