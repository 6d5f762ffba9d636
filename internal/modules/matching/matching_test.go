// README: Matching tests covering the roster join, k-means, ranking, and the service flow.
package matching

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/config"
	"freight/internal/reference"
	"freight/internal/types"
)

// ---------------------------------------------------------------------------
// In-memory reference source
// ---------------------------------------------------------------------------

type memorySource struct {
	locations []reference.DriverLocation
	vehicles  []reference.Vehicle
	users     []reference.User
	err       error
}

func (m *memorySource) PriceTable(context.Context) ([]reference.PriceRow, error) {
	return nil, nil
}

func (m *memorySource) DriverLocations(context.Context) ([]reference.DriverLocation, error) {
	return m.locations, m.err
}

func (m *memorySource) Vehicles(context.Context) ([]reference.Vehicle, error) {
	return m.vehicles, nil
}

func (m *memorySource) Users(context.Context) ([]reference.User, error) {
	return m.users, nil
}

func (m *memorySource) addDriver(id string, lat, lng float64, weight, volume string) {
	uid := types.ID(id)
	m.locations = append(m.locations, reference.DriverLocation{UserID: uid, Latitude: lat, Longitude: lng})
	m.vehicles = append(m.vehicles, reference.Vehicle{UserID: uid, Model: "truck-" + id, Weight: weight, Volume: volume})
	m.users = append(m.users, reference.User{UserID: uid, FullName: "Driver " + id, Phone: "+998-" + id, Status: "active"})
}

func newTestService(src reference.Source) *Service {
	return NewService(NewStore(src), config.MatchingConfig{Seed: 42, MaxClusters: 4, TopK: 5})
}

var origin = types.Point{Lat: 41.3, Lng: 69.2}

// ---------------------------------------------------------------------------
// Join
// ---------------------------------------------------------------------------

func TestJoin_InnerOnUserID(t *testing.T) {
	locations := []reference.DriverLocation{
		{UserID: "a", Latitude: 1, Longitude: 1},
		{UserID: "ghost", Latitude: 2, Longitude: 2}, // no vehicle, no user
		{UserID: "b", Latitude: 3, Longitude: 3},
		{UserID: "c", Latitude: 4, Longitude: 4}, // vehicle but no user
	}
	vehicles := []reference.Vehicle{
		{UserID: "b", Model: "Isuzu", Weight: "5000", Volume: "30"},
		{UserID: "a", Model: "Gazel", Weight: "1500", Volume: "9"},
		{UserID: "a", Model: "Labo", Weight: "800", Volume: "4"},
		{UserID: "c", Model: "Kamaz", Weight: "10000", Volume: "60"},
	}
	users := []reference.User{
		{UserID: "a", FullName: "Ali"},
		{UserID: "b", FullName: "Bobur"},
	}

	got := join(locations, vehicles, users)
	require.Len(t, got, 3)
	assert.Equal(t, "Gazel", got[0].TransportModel)
	assert.Equal(t, "Labo", got[1].TransportModel)
	assert.Equal(t, "Bobur", got[2].FullName)
	assert.Equal(t, types.Point{Lat: 3, Lng: 3}, got[2].Position)
}

// ---------------------------------------------------------------------------
// Clustering
// ---------------------------------------------------------------------------

func TestClusterCount(t *testing.T) {
	km := DefaultKMeans(42, 4)
	tests := []struct {
		name   string
		points []Capacity
		want   int
	}{
		{"empty", nil, 0},
		{"single", []Capacity{{1, 1}}, 1},
		{"two", []Capacity{{1, 1}, {2, 2}}, 2},
		{"capped at four", []Capacity{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 6}}, 4},
		{"duplicates cap k", []Capacity{{1, 1}, {1, 1}, {1, 1}, {2, 2}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, km.ClusterCount(tt.points))
		})
	}
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	points := []Capacity{
		{100, 1}, {110, 1.1}, {105, 0.9},
		{5000, 30}, {5100, 31}, {4900, 29},
	}
	km := DefaultKMeans(42, 2)
	c := km.Fit(points)

	require.Len(t, c.Labels, len(points))
	assert.Equal(t, c.Labels[0], c.Labels[1])
	assert.Equal(t, c.Labels[0], c.Labels[2])
	assert.Equal(t, c.Labels[3], c.Labels[4])
	assert.Equal(t, c.Labels[3], c.Labels[5])
	assert.NotEqual(t, c.Labels[0], c.Labels[3])

	assert.Equal(t, c.Labels[0], c.Predict(Capacity{120, 1.5}))
	assert.Equal(t, c.Labels[3], c.Predict(Capacity{4000, 20}))
}

func TestKMeans_Deterministic(t *testing.T) {
	points := []Capacity{{1, 2}, {3, 1}, {10, 12}, {11, 10}, {50, 40}, {52, 41}, {90, 3}, {95, 2}, {20, 20}}
	a := DefaultKMeans(42, 4).Fit(points)
	b := DefaultKMeans(42, 4).Fit(points)
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Centroids, b.Centroids)
	assert.InDelta(t, a.Inertia, b.Inertia, 0)
}

func TestKMeans_IdenticalPoints(t *testing.T) {
	c := DefaultKMeans(42, 4).Fit([]Capacity{{7, 7}, {7, 7}, {7, 7}})
	assert.Equal(t, []int{0, 0, 0}, c.Labels)
	assert.Len(t, c.Centroids, 1)
	assert.Zero(t, c.Inertia)
}

// ---------------------------------------------------------------------------
// Ranking
// ---------------------------------------------------------------------------

func TestRank_OrdersByCapacityThenDistance(t *testing.T) {
	drivers := []capableDriver{
		{record: DriverRecord{UserID: "far", Position: types.Point{Lat: 42.3, Lng: 69.2}}, capacity: Capacity{100, 1}},
		{record: DriverRecord{UserID: "near", Position: types.Point{Lat: 41.31, Lng: 69.2}}, capacity: Capacity{100, 1}},
		{record: DriverRecord{UserID: "close-fit", Position: origin}, capacity: Capacity{108, 1.2}},
		{record: DriverRecord{UserID: "other", Position: origin}, capacity: Capacity{9000, 50}},
	}
	labels := []int{0, 0, 0, 1}

	got := rankCluster(drivers, labels, 0, Capacity{110, 1.2}, origin, 5)
	require.Len(t, got, 3)
	assert.Equal(t, types.ID("close-fit"), got[0].Driver.UserID)
	assert.Equal(t, types.ID("near"), got[1].Driver.UserID)
	assert.Equal(t, types.ID("far"), got[2].Driver.UserID)
	assert.InDelta(t, 2.0, got[0].CapacityDistance, 1e-9)
	assert.InDelta(t, 111.0, got[2].DistanceKm, 1e-6)
}

func TestRank_NaNDistanceSortsLast(t *testing.T) {
	drivers := []capableDriver{
		{record: DriverRecord{UserID: "unknown", Position: types.Point{Lat: math.NaN(), Lng: math.NaN()}}, capacity: Capacity{100, 1}},
		{record: DriverRecord{UserID: "known", Position: types.Point{Lat: 45, Lng: 70}}, capacity: Capacity{100, 1}},
	}
	got := rankCluster(drivers, []int{0, 0}, 0, Capacity{100, 1}, origin, 5)
	require.Len(t, got, 2)
	assert.Equal(t, types.ID("known"), got[0].Driver.UserID)
	assert.True(t, math.IsNaN(got[1].DistanceKm))
}

func TestRank_FullTiesKeepInputOrder(t *testing.T) {
	pos := types.Point{Lat: 41.35, Lng: 69.25}
	drivers := []capableDriver{
		{record: DriverRecord{UserID: "first", Position: pos}, capacity: Capacity{500, 2}},
		{record: DriverRecord{UserID: "second", Position: pos}, capacity: Capacity{500, 2}},
		{record: DriverRecord{UserID: "third", Position: pos}, capacity: Capacity{500, 2}},
	}
	got := rankCluster(drivers, []int{0, 0, 0}, 0, Capacity{480, 2.5}, origin, 5)
	require.Len(t, got, 3)
	ids := []types.ID{got[0].Driver.UserID, got[1].Driver.UserID, got[2].Driver.UserID}
	assert.Equal(t, []types.ID{"first", "second", "third"}, ids)
}

func TestRank_TruncatesToTopK(t *testing.T) {
	var drivers []capableDriver
	var labels []int
	for i := 0; i < 8; i++ {
		drivers = append(drivers, capableDriver{
			record:   DriverRecord{UserID: types.ID(string(rune('a' + i)))},
			capacity: Capacity{float64(100 + i), 1},
		})
		labels = append(labels, 0)
	}
	got := rankCluster(drivers, labels, 0, Capacity{100, 1}, origin, 5)
	require.Len(t, got, 5)
	assert.Equal(t, types.ID("a"), got[0].Driver.UserID)
	assert.Equal(t, types.ID("e"), got[4].Driver.UserID)
}

func TestUsable_DropsUnparseableCapacity(t *testing.T) {
	records := []DriverRecord{
		{UserID: "ok", TransportWeight: " 1500 ", TransportVolume: "9.5"},
		{UserID: "bad-weight", TransportWeight: "abc", TransportVolume: "9"},
		{UserID: "empty-volume", TransportWeight: "100", TransportVolume: ""},
		{UserID: "nan", TransportWeight: "NaN", TransportVolume: "1"},
		{UserID: "inf", TransportWeight: "100", TransportVolume: "+Inf"},
	}
	got := usable(records)
	require.Len(t, got, 1)
	assert.Equal(t, types.ID("ok"), got[0].record.UserID)
	assert.Equal(t, Capacity{1500, 9.5}, got[0].capacity)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

func TestFindBestDrivers_SmallTruckWinsSmallLoad(t *testing.T) {
	src := &memorySource{}
	src.addDriver("small", 41.31, 69.21, "100", "1")
	src.addDriver("large", 41.30, 69.20, "500", "5")

	got, err := newTestService(src).FindBestDrivers(context.Background(), origin, Capacity{110, 1.2})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, types.ID("small"), got[0].Driver.UserID)
	assert.Equal(t, "truck-small", got[0].Driver.TransportModel)
}

func TestFindBestDrivers_EmptyRoster(t *testing.T) {
	got, err := newTestService(&memorySource{}).FindBestDrivers(context.Background(), origin, Capacity{100, 1})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindBestDrivers_AllCapacitiesUnparseable(t *testing.T) {
	src := &memorySource{}
	src.addDriver("x", 41, 69, "n/a", "1")
	got, err := newTestService(src).FindBestDrivers(context.Background(), origin, Capacity{100, 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindBestDrivers_SingleDriver(t *testing.T) {
	src := &memorySource{}
	src.addDriver("only", 41, 69, "20000", "80")
	got, err := newTestService(src).FindBestDrivers(context.Background(), origin, Capacity{100, 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.ID("only"), got[0].Driver.UserID)
}

func TestFindBestDrivers_RosterUnavailable(t *testing.T) {
	src := &memorySource{err: reference.ErrUnavailable}
	_, err := newTestService(src).FindBestDrivers(context.Background(), origin, Capacity{100, 1})
	assert.ErrorIs(t, err, reference.ErrUnavailable)
}

func TestFindBestDrivers_NonFiniteRequest(t *testing.T) {
	_, err := newTestService(&memorySource{}).FindBestDrivers(context.Background(), origin, Capacity{math.NaN(), 1})
	assert.True(t, errors.Is(err, ErrSelectionFailed))
}
