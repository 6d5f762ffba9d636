package ml

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearArtifact(t *testing.T) {
	m, err := Decode(strings.NewReader(`{"kind":"linear","n_features":2,"intercept":10,"coefficients":[2,0.5]}`))
	require.NoError(t, err)

	got, err := m.Predict(context.Background(), []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 18.0, got, 1e-9)

	_, err = m.Predict(context.Background(), []float64{1})
	assert.ErrorIs(t, err, ErrFeatureCount)
}

// A two-tree forest: tree A splits on the origin code, tree B is a single leaf.
const forestJSON = `{
  "kind": "forest",
  "n_features": 2,
  "trees": [
    {"children_left": [1, -1, -1], "children_right": [2, -1, -1],
     "feature": [0, -2, -2], "threshold": [1.5, -2, -2], "value": [0, 40, 80]},
    {"children_left": [-1], "children_right": [-1],
     "feature": [-2], "threshold": [-2], "value": [60]}
  ]
}`

func TestForestArtifact(t *testing.T) {
	m, err := Decode(strings.NewReader(forestJSON))
	require.NoError(t, err)

	ctx := context.Background()
	left, err := m.Predict(ctx, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, left, 1e-9) // (40+60)/2

	right, err := m.Predict(ctx, []float64{2, 0})
	require.NoError(t, err)
	assert.InDelta(t, 70.0, right, 1e-9) // (80+60)/2

	// threshold itself goes left
	edge, err := m.Predict(ctx, []float64{1.5, 0})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, edge, 1e-9)
}

func TestArtifactValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", `{"kind":"svm"}`},
		{"linear without coefficients", `{"kind":"linear"}`},
		{"linear wrong width", `{"kind":"linear","n_features":3,"coefficients":[1,2]}`},
		{"forest without trees", `{"kind":"forest","trees":[]}`},
		{"ragged tree", `{"kind":"forest","trees":[{"children_left":[-1],"children_right":[],"feature":[0],"threshold":[0],"value":[1]}]}`},
		{"backward child", `{"kind":"forest","trees":[{"children_left":[0,-1],"children_right":[1,-1],"feature":[0,0],"threshold":[0,0],"value":[1,2]}]}`},
		{"feature out of range", `{"kind":"forest","n_features":2,"trees":[{"children_left":[1,-1,-1],"children_right":[2,-1,-1],"feature":[5,-2,-2],"threshold":[0,0,0],"value":[0,1,2]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrBadArtifact)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(forestJSON), 0o600))

	m, err := LoadFile(path)
	require.NoError(t, err)
	_, err = m.Predict(context.Background(), []float64{0, 0})
	require.NoError(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRemoteRegressor_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		sum := 0.0
		for _, f := range req.Features[0] {
			sum += f
		}
		_ = json.NewEncoder(w).Encode(remoteResponse{Predictions: []float64{sum}})
	}))
	defer srv.Close()

	r := NewRemoteRegressor(srv.URL, time.Second)
	r.backoff = time.Millisecond

	got, err := r.Predict(context.Background(), []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, got, 1e-9)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRemoteRegressor_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad features", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	r := NewRemoteRegressor(srv.URL, time.Second)
	r.backoff = time.Millisecond

	_, err := r.Predict(context.Background(), []float64{1, 2})
	require.Error(t, err)
	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemoteRegressor_ServerReportedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(remoteResponse{Error: "model not loaded"})
	}))
	defer srv.Close()

	_, err := NewRemoteRegressor(srv.URL, time.Second).Predict(context.Background(), []float64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}
