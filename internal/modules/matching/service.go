// README: Matching service clusters the roster by capacity and shortlists drivers for a shipment.
package matching

import (
	"context"
	"fmt"
	"math"

	"freight/internal/config"
	"freight/internal/platform/obs"
	"freight/internal/types"
)

type Service struct {
	store  *Store
	kmeans KMeans
	topK   int
}

func NewService(store *Store, cfg config.MatchingConfig) *Service {
	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Service{
		store:  store,
		kmeans: DefaultKMeans(cfg.Seed, cfg.MaxClusters),
		topK:   topK,
	}
}

// FindBestDrivers loads a fresh roster, clusters it, and ranks the drivers in
// the request's cluster. An empty roster yields an empty, non-nil result.
func (s *Service) FindBestDrivers(ctx context.Context, origin types.Point, req Capacity) (out []RankedCandidate, err error) {
	defer obs.Time(ctx, "matching.find_best_drivers")(&err)

	if !finite(req.Weight) || !finite(req.Volume) {
		return nil, fmt.Errorf("%w: request capacity (%v, %v)", ErrSelectionFailed, req.Weight, req.Volume)
	}

	records, err := s.store.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return s.rank(records, origin, req)
}

func (s *Service) rank(records []DriverRecord, origin types.Point, req Capacity) (out []RankedCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrSelectionFailed, r)
		}
	}()

	drivers := usable(records)
	if len(drivers) == 0 {
		return []RankedCandidate{}, nil
	}
	points := make([]Capacity, len(drivers))
	for i, d := range drivers {
		points[i] = d.capacity
	}

	c := s.kmeans.Fit(points)
	return rankCluster(drivers, c.Labels, c.Predict(req), req, origin, s.topK), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
