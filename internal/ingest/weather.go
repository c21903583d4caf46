package ingest

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"pv_simulator/internal/model"
)

// weatherRow mirrors one row of the hourly weather CSV.
type weatherRow struct {
	DryBulbC        float64  `csv:"drybulb_C"`
	GlobalHorizWhM2 float64  `csv:"glohorrad_Whm2"`
	DiffuseRatio    *float64 `csv:"ratio_diffhout"` // may be empty
}

// ReadWeather parses an hourly weather CSV covering one full year. Missing
// diffuse-ratio values default to 0.
func ReadWeather(r io.Reader) (*model.WeatherSeries, error) {
	var rows []*weatherRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing weather csv: %w", err)
	}
	if len(rows) != model.HoursPerYear {
		return nil, fmt.Errorf("weather csv has %d rows, want %d", len(rows), model.HoursPerYear)
	}

	w := &model.WeatherSeries{
		DryBulbC:        make([]float64, len(rows)),
		GlobalHorizWhM2: make([]float64, len(rows)),
		DiffuseRatio:    make([]float64, len(rows)),
	}
	for i, row := range rows {
		w.DryBulbC[i] = row.DryBulbC
		w.GlobalHorizWhM2[i] = row.GlobalHorizWhM2
		if row.DiffuseRatio != nil {
			w.DiffuseRatio[i] = *row.DiffuseRatio
		}
	}
	return w, nil
}
