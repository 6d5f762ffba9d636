// README: Pure geographic computation helpers.
package location

import (
	"math"

	"freight/internal/types"
)

// KmPerDegree converts a planar degree offset to kilometres.
const KmPerDegree = 111.0

// FlatKm treats latitude and longitude as a plane and scales the Euclidean
// degree distance by KmPerDegree. It ignores longitude convergence and is
// only meant for ordering nearby candidates.
func FlatKm(a, b types.Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lng-b.Lng) * KmPerDegree
}
