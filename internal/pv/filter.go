package pv

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"pv_simulator/internal/model"
)

// hourlyCutoffWm2 is the irradiance below which panel output is treated as
// negligible; such samples are zeroed for every retained point.
const hourlyCutoffWm2 = 50

// FilterConfig holds the sensor-selection parameters.
type FilterConfig struct {
	MinRadiationFraction float64 // fraction of yearly horizontal radiation, [0, 1]
	PVOnRoof             bool
	PVOnWall             bool
}

// FilterLowPotential joins the radiation and metadata tables into sensor
// points and removes those with low solar potential.
//
// Returns the yearly horizontal radiation (the normalization ceiling for
// radiation-fraction categorization), the minimum yearly radiation threshold,
// and the retained points with their hourly series cleaned.
func FilterLowPotential(weather *model.WeatherSeries, rad *model.RadiationTable, meta []model.SurfaceMetadata, cfg FilterConfig) (maxYearly, minYearly float64, points []model.SensorPoint, err error) {
	if weather == nil || weather.Len() != model.HoursPerYear {
		return 0, 0, nil, &DataIntegrityError{Reason: "weather series must cover 8760 hours"}
	}
	if len(meta) == 0 {
		return 0, 0, nil, &DataIntegrityError{Reason: "empty metadata table"}
	}
	if rad == nil || len(rad.SensorIDs) == 0 {
		return 0, 0, nil, &DataIntegrityError{Reason: "empty radiation table"}
	}
	if len(rad.SensorIDs) != len(meta) {
		return 0, 0, nil, &DataIntegrityError{
			Reason: fmt.Sprintf("radiation table has %d columns, metadata has %d rows", len(rad.SensorIDs), len(meta)),
		}
	}

	maxYearly = floats.Sum(weather.GlobalHorizWhM2)
	minYearly = maxYearly * cfg.MinRadiationFraction

	points = make([]model.SensorPoint, 0, len(meta))
	for _, m := range meta {
		hourly, ok := rad.Hourly[m.Surface]
		if !ok {
			return 0, 0, nil, &DataIntegrityError{
				Reason: fmt.Sprintf("sensor %s has metadata but no radiation column", m.Surface),
			}
		}
		if len(hourly) != model.HoursPerYear {
			return 0, 0, nil, &DataIntegrityError{
				Reason: fmt.Sprintf("sensor %s radiation column has %d rows", m.Surface, len(hourly)),
			}
		}

		// No panels on windows; roofs and walls only when enabled.
		switch m.Type {
		case model.SurfaceWindow:
			continue
		case model.SurfaceRoof:
			if !cfg.PVOnRoof {
				continue
			}
		case model.SurfaceWall:
			if !cfg.PVOnWall {
				continue
			}
		default:
			return 0, 0, nil, &DataIntegrityError{
				Reason: fmt.Sprintf("sensor %s has unknown surface type %q", m.Surface, m.Type),
			}
		}

		annual := floats.Sum(hourly)
		if annual < minYearly {
			continue
		}

		cleaned := make([]float64, len(hourly))
		for i, v := range hourly {
			if v > hourlyCutoffWm2 {
				cleaned[i] = v
			}
		}

		points = append(points, model.SensorPoint{
			ID:         m.Surface,
			Surface:    m.Type,
			Xdir:       m.Xdir,
			Ydir:       m.Ydir,
			Zdir:       m.Zdir,
			AreaM2:     m.AreaM2,
			Hourly:     cleaned,
			AnnualWhM2: annual,
		})
	}

	return maxYearly, minYearly, points, nil
}
