// README: Reference tables consumed per request: price directions and the three driver rosters.
package reference

import (
	"context"
	"errors"

	"freight/internal/types"
)

// ErrUnavailable marks a reference table that is missing or malformed.
var ErrUnavailable = errors.New("reference data unavailable")

// File and table names of the four reference tables.
const (
	PriceTableName      = "direction_prices"
	DriverLocationsName = "driver_locations"
	VehiclesName        = "my_autos"
	UsersName           = "users"
)

// PriceRow is one direction of the city price table.
type PriceRow struct {
	From  string
	To    string
	Price string
}

// DriverLocation is the last known position of a driver. Coordinates that
// could not be read are NaN.
type DriverLocation struct {
	UserID    types.ID
	Latitude  float64
	Longitude float64
}

// Vehicle is a transport owned by a user. Capacities are kept as read so the
// matcher can decide which rows are usable.
type Vehicle struct {
	UserID types.ID
	Model  string
	Weight string
	Volume string
}

type User struct {
	UserID   types.ID
	FullName string
	Phone    string
	Status   string
}

// Source provides a consistent snapshot of every reference table.
type Source interface {
	PriceTable(ctx context.Context) ([]PriceRow, error)
	DriverLocations(ctx context.Context) ([]DriverLocation, error)
	Vehicles(ctx context.Context) ([]Vehicle, error)
	Users(ctx context.Context) ([]User, error)
}

// LocationSource supplies driver positions only.
type LocationSource interface {
	DriverLocations(ctx context.Context) ([]DriverLocation, error)
}

type overlay struct {
	Source
	locations LocationSource
}

func (o overlay) DriverLocations(ctx context.Context) ([]DriverLocation, error) {
	return o.locations.DriverLocations(ctx)
}

// WithDriverLocations returns src with its location roster replaced by loc.
func WithDriverLocations(src Source, loc LocationSource) Source {
	if loc == nil {
		return src
	}
	return overlay{Source: src, locations: loc}
}
