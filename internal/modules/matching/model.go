// README: Matching types: joined driver records, capacities, and ranked candidates.
package matching

import (
	"errors"

	"freight/internal/types"
)

// ErrSelectionFailed wraps failures inside clustering or ranking.
var ErrSelectionFailed = errors.New("matching: driver selection failed")

const (
	defaultMaxClusters = 4
	defaultTopK        = 5
	defaultSeed        = 42
)

// DriverRecord is one (location, vehicle, user) join row. Capacities are the
// raw values from the vehicle table.
type DriverRecord struct {
	UserID          types.ID
	FullName        string
	Phone           string
	Status          string
	TransportModel  string
	TransportWeight string
	TransportVolume string
	Position        types.Point
}

// Capacity is a point in (weight, volume) space.
type Capacity struct {
	Weight float64
	Volume float64
}

type RankedCandidate struct {
	Driver           DriverRecord
	Capacity         Capacity
	CapacityDistance float64
	DistanceKm       float64
}

// capableDriver is a record whose capacity parsed cleanly.
type capableDriver struct {
	record   DriverRecord
	capacity Capacity
}
