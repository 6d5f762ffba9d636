// README: Geocode cache backed by Redis string keys with a TTL.
package location

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"freight/internal/types"
)

const cacheKeyPrefix = "geocode:"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore returns a cache over rdb. A nil client disables caching.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, place string) (types.Point, bool, error) {
	if s == nil || s.redis == nil {
		return types.Point{}, false, nil
	}
	v, err := s.redis.Get(ctx, cacheKeyPrefix+place).Result()
	if errors.Is(err, redis.Nil) {
		return types.Point{}, false, nil
	}
	if err != nil {
		return types.Point{}, false, err
	}
	p, err := decodePoint(v)
	if err != nil {
		return types.Point{}, false, fmt.Errorf("cached %q: %w", place, err)
	}
	return p, true, nil
}

func (s *Store) Put(ctx context.Context, place string, p types.Point) error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, cacheKeyPrefix+place, encodePoint(p), s.ttl).Err()
}

func encodePoint(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func decodePoint(v string) (types.Point, error) {
	lat, lng, ok := strings.Cut(v, ",")
	if !ok {
		return types.Point{}, fmt.Errorf("malformed point %q", v)
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return types.Point{}, err
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return types.Point{}, err
	}
	return types.Point{Lat: la, Lng: ln}, nil
}
