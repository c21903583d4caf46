package pv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_simulator/internal/model"
)

func constantWeather(ghi float64) *model.WeatherSeries {
	w := &model.WeatherSeries{
		DryBulbC:        make([]float64, model.HoursPerYear),
		GlobalHorizWhM2: make([]float64, model.HoursPerYear),
		DiffuseRatio:    make([]float64, model.HoursPerYear),
	}
	for i := range w.GlobalHorizWhM2 {
		w.DryBulbC[i] = 15
		w.GlobalHorizWhM2[i] = ghi
		w.DiffuseRatio[i] = 0.3
	}
	return w
}

func constantColumn(v float64) []float64 {
	col := make([]float64, model.HoursPerYear)
	for i := range col {
		col[i] = v
	}
	return col
}

func tableFor(meta []model.SurfaceMetadata, values map[string]float64) *model.RadiationTable {
	rad := &model.RadiationTable{Hourly: map[string][]float64{}}
	for _, m := range meta {
		rad.SensorIDs = append(rad.SensorIDs, m.Surface)
		rad.Hourly[m.Surface] = constantColumn(values[m.Surface])
	}
	return rad
}

var defaultFilterConfig = FilterConfig{
	MinRadiationFraction: 0.5,
	PVOnRoof:             true,
	PVOnWall:             true,
}

func TestFilterLowPotential_DropsWindowsAndLowRadiation(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "srf0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
		{Surface: "srf1", Type: model.SurfaceWindow, Zdir: 0, AreaM2: 5},
		{Surface: "srf2", Type: model.SurfaceWall, Zdir: 0, AreaM2: 12},
	}
	// max yearly = 100 * 8760 = 876000; threshold at 0.5 = 438000
	// srf0: 60 * 8760 = 525600 -> kept; srf2: 40 * 8760 = 350400 -> dropped
	rad := tableFor(meta, map[string]float64{"srf0": 60, "srf1": 90, "srf2": 40})

	maxYearly, minYearly, points, err := FilterLowPotential(constantWeather(100), rad, meta, defaultFilterConfig)
	require.NoError(t, err)

	assert.InDelta(t, 876000, maxYearly, 0.01)
	assert.InDelta(t, 438000, minYearly, 0.01)
	require.Len(t, points, 1)
	assert.Equal(t, "srf0", points[0].ID)
	assert.InDelta(t, 525600, points[0].AnnualWhM2, 0.01)
}

func TestFilterLowPotential_SurfaceTypeFlags(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "roof0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
		{Surface: "wall0", Type: model.SurfaceWall, Zdir: 0, AreaM2: 12},
	}
	rad := tableFor(meta, map[string]float64{"roof0": 90, "wall0": 90})

	cfg := defaultFilterConfig
	cfg.PVOnWall = false
	_, _, points, err := FilterLowPotential(constantWeather(100), rad, meta, cfg)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "roof0", points[0].ID)

	cfg = defaultFilterConfig
	cfg.PVOnRoof = false
	_, _, points, err = FilterLowPotential(constantWeather(100), rad, meta, cfg)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "wall0", points[0].ID)
}

func TestFilterLowPotential_ZeroesNegligibleHours(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "srf0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
	}
	rad := tableFor(meta, map[string]float64{"srf0": 90})
	rad.Hourly["srf0"][0] = 50 // at the cutoff, zeroed
	rad.Hourly["srf0"][1] = 50.1
	rad.Hourly["srf0"][2] = 0

	_, _, points, err := FilterLowPotential(constantWeather(100), rad, meta, defaultFilterConfig)
	require.NoError(t, err)
	require.Len(t, points, 1)

	assert.Equal(t, 0.0, points[0].Hourly[0])
	assert.InDelta(t, 50.1, points[0].Hourly[1], 1e-9)
	assert.Equal(t, 0.0, points[0].Hourly[2])
	// the annual sum counts the raw series, before zeroing
	assert.InDelta(t, 90*8757+50+50.1, points[0].AnnualWhM2, 0.01)
}

func TestFilterLowPotential_NeverGrowsPointSet(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "srf0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
		{Surface: "srf1", Type: model.SurfaceWall, Zdir: 0, AreaM2: 12},
		{Surface: "srf2", Type: model.SurfaceWindow, Zdir: 0, AreaM2: 4},
	}
	rad := tableFor(meta, map[string]float64{"srf0": 90, "srf1": 90, "srf2": 90})

	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		cfg := defaultFilterConfig
		cfg.MinRadiationFraction = frac
		_, _, points, err := FilterLowPotential(constantWeather(100), rad, meta, cfg)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(points), len(meta))
	}
}

func TestFilterLowPotential_ThresholdBoundary(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "srf0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
	}
	// annual exactly equals the threshold: 50 * 8760 = 0.5 * 100 * 8760
	rad := tableFor(meta, map[string]float64{"srf0": 50})

	_, _, points, err := FilterLowPotential(constantWeather(100), rad, meta, defaultFilterConfig)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestFilterLowPotential_IntegrityErrors(t *testing.T) {
	meta := []model.SurfaceMetadata{
		{Surface: "srf0", Type: model.SurfaceRoof, Zdir: 1, AreaM2: 20},
	}
	rad := tableFor(meta, map[string]float64{"srf0": 90})

	var integrity *DataIntegrityError

	_, _, _, err := FilterLowPotential(&model.WeatherSeries{}, rad, meta, defaultFilterConfig)
	assert.ErrorAs(t, err, &integrity)

	_, _, _, err = FilterLowPotential(constantWeather(100), rad, nil, defaultFilterConfig)
	assert.ErrorAs(t, err, &integrity)

	_, _, _, err = FilterLowPotential(constantWeather(100), &model.RadiationTable{}, meta, defaultFilterConfig)
	assert.ErrorAs(t, err, &integrity)

	// metadata row without a radiation column
	extra := append(meta, model.SurfaceMetadata{Surface: "srf9", Type: model.SurfaceRoof})
	mismatched := &model.RadiationTable{
		SensorIDs: []string{"srf0", "other"},
		Hourly:    map[string][]float64{"srf0": constantColumn(90), "other": constantColumn(90)},
	}
	_, _, _, err = FilterLowPotential(constantWeather(100), mismatched, extra, defaultFilterConfig)
	assert.ErrorAs(t, err, &integrity)

	// short radiation column
	short := tableFor(meta, map[string]float64{"srf0": 90})
	short.Hourly["srf0"] = short.Hourly["srf0"][:100]
	_, _, _, err = FilterLowPotential(constantWeather(100), short, meta, defaultFilterConfig)
	assert.ErrorAs(t, err, &integrity)

	// unknown surface type
	bad := []model.SurfaceMetadata{{Surface: "srf0", Type: "chimney"}}
	_, _, _, err = FilterLowPotential(constantWeather(100), rad, bad, defaultFilterConfig)
	require.Error(t, err)
	assert.True(t, errors.As(err, &integrity))
}
