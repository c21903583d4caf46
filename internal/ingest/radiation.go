package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"pv_simulator/internal/model"
)

// ReadRadiation parses the wide per-surface irradiance table: a header row
// of sensor ids followed by 8760 hourly rows in W/m2. The column set is
// dynamic, one per sensor, so this reader works on raw records rather than
// tagged structs.
func ReadRadiation(r io.Reader) (*model.RadiationTable, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing radiation csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("radiation csv is empty")
	}

	header := records[0]
	rows := records[1:]
	if len(rows) != model.HoursPerYear {
		return nil, fmt.Errorf("radiation csv has %d data rows, want %d", len(rows), model.HoursPerYear)
	}

	table := &model.RadiationTable{
		SensorIDs: make([]string, len(header)),
		Hourly:    make(map[string][]float64, len(header)),
	}
	for col, id := range header {
		table.SensorIDs[col] = id
		table.Hourly[id] = make([]float64, len(rows))
	}

	for i, record := range rows {
		if len(record) != len(header) {
			return nil, fmt.Errorf("radiation csv row %d has %d columns, want %d", i+1, len(record), len(header))
		}
		for col, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("radiation csv row %d column %s: %w", i+1, header[col], err)
			}
			table.Hourly[header[col]][i] = v
		}
	}

	return table, nil
}
