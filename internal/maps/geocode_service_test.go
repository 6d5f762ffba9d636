package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestService(t *testing.T, body string) (*GeocodeService, chan url.Values) {
	t.Helper()
	seen := make(chan url.Values, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	svc, err := NewGeocodeService("test-key", "uz", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return svc, seen
}

func TestGeocode_FirstResult(t *testing.T) {
	svc, seen := newTestService(t, `{"status":"OK","results":[
		{"geometry":{"location":{"lat":41.2995,"lng":69.2401}}},
		{"geometry":{"location":{"lat":1,"lng":2}}}
	]}`)

	p, err := svc.Geocode(context.Background(), "Тошкент")
	require.NoError(t, err)
	assert.InDelta(t, 41.2995, p.Lat, 1e-9)
	assert.InDelta(t, 69.2401, p.Lng, 1e-9)
	q := <-seen
	assert.Equal(t, "Тошкент", q.Get("address"))
	assert.Equal(t, "uz", q.Get("region"))
}

func TestGeocode_ZeroResults(t *testing.T) {
	svc, _ := newTestService(t, `{"status":"ZERO_RESULTS","results":[]}`)

	_, err := svc.Geocode(context.Background(), "Атлантида")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocode_ProviderError(t *testing.T) {
	svc, _ := newTestService(t, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)

	_, err := svc.Geocode(context.Background(), "Тошкент")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
}
