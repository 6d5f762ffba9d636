// README: Driver roster built by joining the location, vehicle and user tables.
package matching

import (
	"context"

	"freight/internal/reference"
	"freight/internal/types"
)

type Store struct {
	src reference.Source
}

func NewStore(src reference.Source) *Store {
	return &Store{src: src}
}

// Roster inner-joins locations with vehicles and users on user id. Output
// follows location order, then vehicle order, then user order. A driver with
// two vehicles appears twice.
func (s *Store) Roster(ctx context.Context) ([]DriverRecord, error) {
	locations, err := s.src.DriverLocations(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.src.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.src.Users(ctx)
	if err != nil {
		return nil, err
	}
	return join(locations, vehicles, users), nil
}

func join(locations []reference.DriverLocation, vehicles []reference.Vehicle, users []reference.User) []DriverRecord {
	byUserV := make(map[types.ID][]reference.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byUserV[v.UserID] = append(byUserV[v.UserID], v)
	}
	byUserU := make(map[types.ID][]reference.User, len(users))
	for _, u := range users {
		byUserU[u.UserID] = append(byUserU[u.UserID], u)
	}

	var out []DriverRecord
	for _, l := range locations {
		for _, v := range byUserV[l.UserID] {
			for _, u := range byUserU[l.UserID] {
				out = append(out, DriverRecord{
					UserID:          l.UserID,
					FullName:        u.FullName,
					Phone:           u.Phone,
					Status:          u.Status,
					TransportModel:  v.Model,
					TransportWeight: v.Weight,
					TransportVolume: v.Volume,
					Position:        types.Point{Lat: l.Latitude, Lng: l.Longitude},
				})
			}
		}
	}
	return out
}
