// README: Location service resolves place names through a cache and a bounded provider call.
package location

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"freight/internal/platform/obs"
	"freight/internal/types"
)

const defaultTimeout = 5 * time.Second

type Service struct {
	geocoder Geocoder
	store    *Store
	timeout  time.Duration
}

func NewService(geocoder Geocoder, store *Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{geocoder: geocoder, store: store, timeout: timeout}
}

// Geocode returns the coordinates of place or ErrNotFound. Cache failures are
// logged and fall through to the provider.
func (s *Service) Geocode(ctx context.Context, place string) (p types.Point, err error) {
	defer obs.Time(ctx, "location.geocode")(&err)

	place = strings.TrimSpace(place)
	if place == "" {
		return types.Point{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	cached, ok, cerr := s.store.Get(ctx, place)
	if cerr != nil {
		log.Printf("location: cache get %q: %v", place, cerr)
	}
	if ok {
		return cached, nil
	}

	if s.geocoder == nil {
		return types.Point{}, fmt.Errorf("%w: no geocoder configured", ErrNotFound)
	}
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err = s.geocoder.Geocode(gctx, place)
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: %q: %v", ErrNotFound, place, err)
	}

	if perr := s.store.Put(ctx, place, p); perr != nil {
		log.Printf("location: cache put %q: %v", place, perr)
	}
	return p, nil
}
