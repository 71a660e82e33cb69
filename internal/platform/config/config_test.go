package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Wing.EdgeScale)
	assert.Equal(t, 2.0, cfg.Wing.VolumeExp)
	assert.Equal(t, 0.15, cfg.Wing.MinConfidence)
	assert.Equal(t, 100, cfg.Wing.NewsPerNode)
	assert.Equal(t, 120, cfg.Indicator.LookbackDays)
	assert.Equal(t, 30, cfg.Indicator.DisplayDays)
	assert.Equal(t, 30, cfg.Indicator.ForeignPoints)
	assert.Equal(t, 90, cfg.Indicator.RecommendationWindowDays)
	assert.Equal(t, 12, cfg.Enrich.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.Enrich.BodyTTL)
	assert.Equal(t, 5*time.Second, cfg.Vendor.Timeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WING_EDGE_SCALE", "3")
	t.Setenv("INDICATOR_DISPLAY_DAYS", "20")
	t.Setenv("VENDOR_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Wing.EdgeScale)
	assert.Equal(t, 20, cfg.Indicator.DisplayDays)
	assert.Equal(t, 3*time.Second, cfg.Vendor.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "wing:\n  min_confidence: 0.2\nenrich:\n  concurrency: 16\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.Wing.MinConfidence)
	assert.Equal(t, 16, cfg.Enrich.Concurrency)
	assert.Equal(t, 2.5, cfg.Wing.EdgeScale, "unset keys keep defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"min confidence above one", map[string]string{"WING_MIN_CONFIDENCE": "1.5"}},
		{"non-positive news per node", map[string]string{"WING_NEWS_PER_NODE": "0"}},
		{"display window not shorter than lookback", map[string]string{"INDICATOR_DISPLAY_DAYS": "120"}},
		{"zero concurrency", map[string]string{"ENRICH_CONCURRENCY": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
