// README: Location module errors and collaborator contracts.
package location

import (
	"context"
	"errors"

	"freight/internal/types"
)

// ErrNotFound covers every geocoding miss: no result, provider error, or timeout.
var ErrNotFound = errors.New("location: place not found")

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (types.Point, error)
}
