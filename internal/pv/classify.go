package pv

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"pv_simulator/internal/model"
)

type bucketTriple struct {
	tilt int
	rad  int
	az   int
}

// Classify partitions the oriented points into sensor groups by their
// (tilt, radiation, azimuth) bucket triple. Every categorized point belongs
// to exactly one group; points left uncategorized by the orientation solver
// are excluded. Group ordering is deterministic: ascending bucket triple.
func Classify(points []model.SensorPoint) []model.SensorGroup {
	members := make(map[bucketTriple][]*model.SensorPoint)
	for i := range points {
		pt := &points[i]
		if pt.TiltCat == 0 || pt.RadiationCat == 0 || pt.AzimuthCat == 0 {
			continue
		}
		key := bucketTriple{tilt: pt.TiltCat, rad: pt.RadiationCat, az: pt.AzimuthCat}
		members[key] = append(members[key], pt)
	}

	keys := make([]bucketTriple, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.tilt != b.tilt {
			return a.tilt < b.tilt
		}
		if a.rad != b.rad {
			return a.rad < b.rad
		}
		return a.az < b.az
	})

	groups := make([]model.SensorGroup, 0, len(keys))
	for _, key := range keys {
		pts := members[key]
		n := float64(len(pts))

		g := model.SensorGroup{
			TiltCat:      key.tilt,
			RadiationCat: key.rad,
			AzimuthCat:   key.az,
			Members:      len(pts),
			MeanHourly:   make([]float64, model.HoursPerYear),
		}

		for _, pt := range pts {
			g.TiltDeg += pt.TiltDeg
			g.PanelTiltDeg += pt.PanelTiltDeg
			g.AzimuthDeg += pt.AzimuthDeg
			g.RowSpacingM += pt.RowSpacingM
			g.AreaM2 += pt.AreaM2
			g.AnnualWhM2 += pt.AnnualWhM2
			g.TotalPVAreaM2 += pt.InstallableAreaM2
			floats.Add(g.MeanHourly, pt.Hourly)
		}

		g.TiltDeg /= n
		g.PanelTiltDeg /= n
		g.AzimuthDeg /= n
		g.RowSpacingM /= n
		g.AreaM2 /= n
		g.AnnualWhM2 /= n
		floats.Scale(1/n, g.MeanHourly)

		groups = append(groups, g)
	}

	return groups
}
