// README: Pricing service: encode a normalized direction and predict its price.
package pricing

import (
	"context"

	"freight/internal/platform/obs"
	"freight/internal/types"
)

type Service struct {
	store     *Store
	predictor *Predictor
}

func NewService(store *Store, predictor *Predictor) *Service {
	return &Service{store: store, predictor: predictor}
}

// Encode builds both column encodings from a fresh snapshot and encodes the
// pair. Names must already be normalized.
func (s *Service) Encode(ctx context.Context, from, to string) (dir Direction, err error) {
	defer obs.Time(ctx, "pricing.encode")(&err)

	table, err := s.store.Snapshot(ctx)
	if err != nil {
		return Direction{}, err
	}
	fromEnc := BuildEncoding(table.From)
	toEnc := BuildEncoding(table.To)

	dir = Direction{From: from, To: to}
	if dir.FromCode, err = fromEnc.Encode(from); err != nil {
		return Direction{}, err
	}
	if dir.ToCode, err = toEnc.Encode(to); err != nil {
		return Direction{}, err
	}
	return dir, nil
}

func (s *Service) Price(ctx context.Context, dir Direction) (q Quote, err error) {
	defer obs.Time(ctx, "pricing.predict")(&err)

	amount, err := s.predictor.Predict(ctx, dir.FromCode, dir.ToCode)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Direction: dir,
		Price:     types.Money{Amount: amount, Currency: types.DefaultCurrency},
	}, nil
}
