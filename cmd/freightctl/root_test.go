package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/pipeline"
)

func TestServiceConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FREIGHT_DATA_DIR", "from-env")
	t.Cleanup(viper.Reset)

	viper.Set("data-dir", "from-flag")
	viper.Set("dsn", "postgres://cli@localhost/freight")

	cfg, err := serviceConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Data.Dir)
	assert.Equal(t, "postgres://cli@localhost/freight", cfg.DB.DSN)
}

func TestWriteQuote(t *testing.T) {
	km := 3.5
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, writeQuote(cmd, pipeline.Response{
		PredictedPrice: 650000,
		Drivers: []pipeline.DriverResponse{
			{FullName: "Алишер Каримов", TransportWeight: 5000, TransportVolume: 20, DistanceKm: &km},
		},
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.EqualValues(t, 650000, got["predicted_price"])
	assert.Contains(t, buf.String(), "Алишер Каримов")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["quote"])
	assert.True(t, names["seed"])
}
