// README: Reference tables backed by PostgreSQL (schema in migrations/0001_init.sql).
package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freight/internal/types"
)

type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) PriceTable(ctx context.Context) ([]PriceRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT from_city, to_city, price
		FROM direction_prices
		ORDER BY id`)
	if err != nil {
		return nil, unavailable(PriceTableName, err)
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (PriceRow, error) {
		var p PriceRow
		err := r.Scan(&p.From, &p.To, &p.Price)
		return p, err
	})
	if err != nil {
		return nil, unavailable(PriceTableName, err)
	}
	return out, nil
}

func (s *PostgresSource) DriverLocations(ctx context.Context) ([]DriverLocation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id,
		       COALESCE(latitude, 'NaN'::float8),
		       COALESCE(longitude, 'NaN'::float8)
		FROM driver_locations
		ORDER BY id`)
	if err != nil {
		return nil, unavailable(DriverLocationsName, err)
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (DriverLocation, error) {
		var (
			d  DriverLocation
			id string
		)
		err := r.Scan(&id, &d.Latitude, &d.Longitude)
		d.UserID = types.ID(id)
		return d, err
	})
	if err != nil {
		return nil, unavailable(DriverLocationsName, err)
	}
	return out, nil
}

func (s *PostgresSource) Vehicles(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, transport_model, transport_weight, transport_volume
		FROM my_autos
		ORDER BY id`)
	if err != nil {
		return nil, unavailable(VehiclesName, err)
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (Vehicle, error) {
		var (
			v  Vehicle
			id string
		)
		err := r.Scan(&id, &v.Model, &v.Weight, &v.Volume)
		v.UserID = types.ID(id)
		return v, err
	})
	if err != nil {
		return nil, unavailable(VehiclesName, err)
	}
	return out, nil
}

func (s *PostgresSource) Users(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, fullname, phone, status
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, unavailable(UsersName, err)
	}
	out, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (User, error) {
		var (
			u  User
			id string
		)
		err := r.Scan(&id, &u.FullName, &u.Phone, &u.Status)
		u.UserID = types.ID(id)
		return u, err
	})
	if err != nil {
		return nil, unavailable(UsersName, err)
	}
	return out, nil
}

func unavailable(table string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, table, err)
}
