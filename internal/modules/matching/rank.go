// README: Ranking of same-cluster drivers by capacity match, then proximity.
package matching

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"freight/internal/modules/location"
	"freight/internal/types"
)

// usable keeps the records whose weight and volume parse as finite numbers.
func usable(records []DriverRecord) []capableDriver {
	out := make([]capableDriver, 0, len(records))
	for _, r := range records {
		w, ok := parseCapacity(r.TransportWeight)
		if !ok {
			continue
		}
		v, ok := parseCapacity(r.TransportVolume)
		if !ok {
			continue
		}
		out = append(out, capableDriver{record: r, capacity: Capacity{Weight: w, Volume: v}})
	}
	return out
}

func parseCapacity(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// rankCluster keeps drivers labelled reqLabel, orders them by capacity distance to
// req and then by flat distance to origin, and returns at most topK. NaN
// distances sort after every number.
func rankCluster(drivers []capableDriver, labels []int, reqLabel int, req Capacity, origin types.Point, topK int) []RankedCandidate {
	out := make([]RankedCandidate, 0, len(drivers))
	for i, d := range drivers {
		if labels[i] != reqLabel {
			continue
		}
		out = append(out, RankedCandidate{
			Driver:           d.record,
			Capacity:         d.capacity,
			CapacityDistance: math.Hypot(d.capacity.Weight-req.Weight, d.capacity.Volume-req.Volume),
			DistanceKm:       location.FlatKm(d.record.Position, origin),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := compareNaNLast(out[i].CapacityDistance, out[j].CapacityDistance); c != 0 {
			return c < 0
		}
		return compareNaNLast(out[i].DistanceKm, out[j].DistanceKm) < 0
	})

	if topK <= 0 {
		topK = defaultTopK
	}
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

func compareNaNLast(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
