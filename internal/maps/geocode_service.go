package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"freight/internal/types"
)

// ErrNoResults is returned when the provider recognises no place for the query.
var ErrNoResults = errors.New("maps: no geocoding results")

// GeocodeService handles interactions with the Google Maps Geocoding API.
type GeocodeService struct {
	client *maps.Client
	region string
}

// NewGeocodeService creates a new GeocodeService with the given API Key.
// region is a ccTLD bias such as "uz"; empty means no bias.
func NewGeocodeService(apiKey, region string, opts ...maps.ClientOption) (*GeocodeService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client, region: region}, nil
}

// Geocode returns the coordinates of the first result for address.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (types.Point, error) {
	r := &maps.GeocodingRequest{
		Address: address,
		Region:  s.region,
	}

	results, err := s.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return types.Point{}, ErrNoResults
	}

	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
