package ingest

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"pv_simulator/internal/model"
)

// ReadMetadata parses the per-surface metadata CSV: one row per sensor with
// surface type, normal-vector components and raw area.
func ReadMetadata(r io.Reader) ([]model.SurfaceMetadata, error) {
	var rows []*model.SurfaceMetadata
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing metadata csv: %w", err)
	}

	meta := make([]model.SurfaceMetadata, len(rows))
	for i, row := range rows {
		if row.Surface == "" {
			return nil, fmt.Errorf("metadata csv row %d has empty SURFACE id", i+1)
		}
		meta[i] = *row
	}
	return meta, nil
}
