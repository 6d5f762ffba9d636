// Package location provides Firebase-based driver position reads used as the
// live location roster for matching.
package location

import (
	"context"
	"fmt"
	"math"
	"sort"

	"firebase.google.com/go/v4/db"

	"freight/internal/reference"
	"freight/internal/types"
)

const driverLocationsNode = "driver_locations"

// rtdbReader is the part of the RTDB client used here.
type rtdbReader interface {
	Get(ctx context.Context, path string, v interface{}) error
}

type dbClientReader struct {
	client *db.Client
}

func (r dbClientReader) Get(ctx context.Context, path string, v interface{}) error {
	return r.client.NewRef(path).Get(ctx, v)
}

// FirebaseService reads driver positions from Firebase RTDB.
type FirebaseService struct {
	reader rtdbReader
}

func NewFirebaseService(client *db.Client) *FirebaseService {
	return &FirebaseService{reader: dbClientReader{client: client}}
}

// rtdbDriverEntry mirrors a single driver entry stored under /driver_locations.
// Missing coordinates decode as nil.
type rtdbDriverEntry struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Status    string   `json:"status"`
	Timestamp int64    `json:"timestamp"`
}

// DriverLocations returns every entry under /driver_locations ordered by user
// id so repeated reads of the same data produce the same roster.
func (s *FirebaseService) DriverLocations(ctx context.Context) ([]reference.DriverLocation, error) {
	var data map[string]rtdbDriverEntry
	if err := s.reader.Get(ctx, driverLocationsNode, &data); err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", reference.ErrUnavailable, driverLocationsNode, err)
	}

	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]reference.DriverLocation, 0, len(ids))
	for _, id := range ids {
		e := data[id]
		out = append(out, reference.DriverLocation{
			UserID:    types.ID(id),
			Latitude:  orNaN(e.Lat),
			Longitude: orNaN(e.Lng),
		})
	}
	return out, nil
}

func orNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
