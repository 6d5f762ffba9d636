// README: Bulk load of the CSV reference tables into PostgreSQL.
package reference

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCounts reports how many rows were written per table.
type SeedCounts struct {
	Prices    int
	Locations int
	Vehicles  int
	Users     int
}

// ApplySchema executes DDL such as migrations/0001_init.sql.
func ApplySchema(ctx context.Context, db *pgxpool.Pool, ddl string) error {
	if _, err := db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Seed replaces the contents of the four reference tables with src in a
// single transaction.
func Seed(ctx context.Context, db *pgxpool.Pool, src Source) (SeedCounts, error) {
	var counts SeedCounts

	prices, err := src.PriceTable(ctx)
	if err != nil {
		return counts, err
	}
	locations, err := src.DriverLocations(ctx)
	if err != nil {
		return counts, err
	}
	vehicles, err := src.Vehicles(ctx)
	if err != nil {
		return counts, err
	}
	users, err := src.Users(ctx)
	if err != nil {
		return counts, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return counts, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE direction_prices, driver_locations, my_autos, users RESTART IDENTITY`); err != nil {
		return counts, fmt.Errorf("truncate: %w", err)
	}

	for _, p := range prices {
		if _, err := tx.Exec(ctx,
			`INSERT INTO direction_prices (from_city, to_city, price) VALUES ($1, $2, $3)`,
			p.From, p.To, p.Price); err != nil {
			return counts, fmt.Errorf("insert %s: %w", PriceTableName, err)
		}
	}
	for _, l := range locations {
		if _, err := tx.Exec(ctx,
			`INSERT INTO driver_locations (user_id, latitude, longitude) VALUES ($1, $2, $3)`,
			string(l.UserID), nullable(l.Latitude), nullable(l.Longitude)); err != nil {
			return counts, fmt.Errorf("insert %s: %w", DriverLocationsName, err)
		}
	}
	for _, v := range vehicles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO my_autos (user_id, transport_model, transport_weight, transport_volume) VALUES ($1, $2, $3, $4)`,
			string(v.UserID), v.Model, v.Weight, v.Volume); err != nil {
			return counts, fmt.Errorf("insert %s: %w", VehiclesName, err)
		}
	}
	for _, u := range users {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (user_id, fullname, phone, status) VALUES ($1, $2, $3, $4)`,
			string(u.UserID), u.FullName, u.Phone, u.Status); err != nil {
			return counts, fmt.Errorf("insert %s: %w", UsersName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return counts, err
	}
	counts = SeedCounts{
		Prices:    len(prices),
		Locations: len(locations),
		Vehicles:  len(vehicles),
		Users:     len(users),
	}
	log.Printf("seed: prices=%d locations=%d vehicles=%d users=%d",
		counts.Prices, counts.Locations, counts.Vehicles, counts.Users)
	return counts, nil
}

func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}
