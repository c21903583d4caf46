package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_simulator/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.75, cfg.MinRadiationFraction, 1e-9)
	assert.True(t, cfg.PVOnRoof)
	assert.True(t, cfg.PVOnWall)
	assert.Equal(t, "mono", cfg.PanelType)
	assert.InDelta(t, 1, cfg.ModuleLengthM, 1e-9)
	assert.InDelta(t, 0.1, cfg.MiscLosses, 1e-9)
	assert.InDelta(t, 46.9524, cfg.LatitudeDeg, 1e-9)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PV_MIN_RADIATION_FRACTION", "0.5")
	t.Setenv("PV_ON_WALL", "false")
	t.Setenv("PV_PANEL_TYPE", "amorphous")
	t.Setenv("PV_LATITUDE_DEG", "-33.45")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.MinRadiationFraction, 1e-9)
	assert.False(t, cfg.PVOnWall)
	assert.Equal(t, "amorphous", cfg.PanelType)
	assert.InDelta(t, -33.45, cfg.LatitudeDeg, 1e-9)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("PV_PANEL_TYPE", "thin-film")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoad_RejectsOutOfRangeFraction(t *testing.T) {
	t.Setenv("PV_MIN_RADIATION_FRACTION", "1.5")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestPVConfig_Mapping(t *testing.T) {
	cfg := &AppConfig{
		MinRadiationFraction: 0.6,
		PVOnRoof:             true,
		PanelType:            "poly",
		ModuleLengthM:        2,
		MiscLosses:           0.05,
		LatitudeDeg:          8.54,
	}

	pc := cfg.PVConfig()
	assert.InDelta(t, 0.6, pc.MinRadiationFraction, 1e-9)
	assert.True(t, pc.PVOnRoof)
	assert.False(t, pc.PVOnWall)
	assert.Equal(t, model.PanelPolycrystalline, pc.PanelType)
	assert.InDelta(t, 2, pc.ModuleLengthM, 1e-9)
	assert.InDelta(t, 8.54, pc.LatitudeDeg, 1e-9)
}
