package pv

import (
	"math"

	"go.uber.org/zap"

	"pv_simulator/internal/model"
)

// flatTiltThresholdDeg separates effectively flat surfaces, which get the
// analytic optimal tilt and shadow-free row spacing, from sloped surfaces,
// which keep their geometric orientation.
const flatTiltThresholdDeg = 5

// OrientationParams are the run-level inputs of the orientation solver.
type OrientationParams struct {
	LatitudeDeg       float64
	WorstElevationDeg float64
	WorstAzimuthDeg   float64
	Clearness         float64 // mean clearness index [-]
	ModuleLengthM     float64
	MaxYearlyWhM2     float64 // yearly horizontal radiation ceiling
}

// SolveOrientation enriches every point in place with installed tilt,
// surface azimuth, row spacing, installable module area and the three bucket
// codes. Points whose derived tilt or radiation fraction fall outside the
// expected ranges keep a zero (uncategorized) bucket code and are reported
// through the logger; processing continues.
func SolveOrientation(points []model.SensorPoint, p OrientationParams, logger *zap.Logger) {
	// Optimal tilt for flat surfaces, computed once per run assuming a
	// south-facing panel regardless of each point's actual azimuth.
	optimalFlatRad := optimalTiltAngle(180, p.LatitudeDeg, p.Clearness)
	optimalFlatDeg := degrees(optimalFlatRad)
	spacingFlat := optimalRowSpacing(p.WorstElevationDeg, p.WorstAzimuthDeg, optimalFlatRad, p.ModuleLengthM)

	// Footprint one module occupies on a flat surface, spacing included.
	flatFootprintM2 := p.ModuleLengthM * (spacingFlat/2 + p.ModuleLengthM*math.Cos(optimalFlatRad))

	for i := range points {
		pt := &points[i]
		pt.TiltDeg = degrees(math.Acos(clamp(pt.Zdir, -1, 1)))

		if pt.TiltDeg >= flatTiltThresholdDeg {
			pt.PanelTiltDeg = pt.TiltDeg
			pt.RowSpacingM = 0
			pt.AzimuthDeg = surfaceAzimuth(pt.Xdir, pt.Ydir, pt.PanelTiltDeg)
			pt.InstallableAreaM2 = pt.AreaM2
		} else {
			pt.PanelTiltDeg = optimalFlatDeg
			pt.RowSpacingM = spacingFlat
			pt.AzimuthDeg = 0 // flat surfaces are installed facing south
			pt.InstallableAreaM2 = p.ModuleLengthM * p.ModuleLengthM * pt.AreaM2 / flatFootprintM2
		}

		pt.AzimuthCat = azimuthCategory(pt.AzimuthDeg)
		pt.TiltCat = tiltCategory(pt.PanelTiltDeg)
		if pt.TiltCat == 0 {
			logger.Warn("panel tilt outside expected range, point left uncategorized",
				zap.String("sensor", pt.ID),
				zap.Float64("tilt_deg", pt.PanelTiltDeg))
		}
		pt.RadiationCat = radiationCategory(pt.AnnualWhM2, p.MaxYearlyWhM2)
		if pt.RadiationCat == 0 {
			logger.Warn("radiation fraction outside expected range, point left uncategorized",
				zap.String("sensor", pt.ID),
				zap.Float64("annual_whm2", pt.AnnualWhM2),
				zap.Float64("max_whm2", p.MaxYearlyWhM2))
		}
	}
}

// optimalTiltAngle returns the yield-optimal tilt in radians for a panel with
// the given surface azimuth (degrees, 180 = south facing), latitude and
// clearness index, following Quinn & Lehman (2013).
func optimalTiltAngle(azimuthDeg, latitudeDeg, clearness float64) float64 {
	var gKt float64
	switch {
	case clearness <= 0.15:
		gKt = 0.977
	case clearness <= 0.7:
		gKt = 1.237 - 1.361*clearness
	default:
		gKt = 0.273
	}
	const (
		tad = 0.98 // transmittance-absorptance product, diffuse radiation
		tar = 0.97 // transmittance-absorptance product, reflected radiation
		pg  = 0.2  // ground reflectance
	)
	l := radians(latitudeDeg)
	a := radians(azimuthDeg)
	b := math.Atan(math.Cos(a) * math.Tan(l) / (1 + (tad*gKt-tar*pg)/(2*(1-gKt))))
	return math.Abs(b)
}

// optimalRowSpacing returns the minimum shadow-free distance in meters
// between panel rows, designed against the worst-hour sun position.
func optimalRowSpacing(worstElevationDeg, worstAzimuthDeg, tiltRad, moduleLengthM float64) float64 {
	h := moduleLengthM * math.Sin(tiltRad)
	d1 := h / math.Tan(radians(worstElevationDeg))
	return math.Max(d1*math.Cos(radians(180-worstAzimuthDeg)), d1*math.Cos(radians(worstAzimuthDeg-180)))
}

// surfaceAzimuth derives the surface azimuth from the horizontal components
// of the normal vector and the tilt. Plain arcsine cannot distinguish all
// quadrants, so the signs of (xdir, ydir) drive an explicit four-branch
// correction. The result is south-referenced in (-180, 180], east negative.
func surfaceAzimuth(xdir, ydir, tiltDeg float64) float64 {
	b := radians(tiltDeg)
	t := degrees(math.Asin(clamp(xdir/math.Sin(b), -1, 1)))

	// North-referenced azimuth, (east, north) = (+, +).
	var azNorth float64
	switch {
	case xdir < 0 && ydir < 0:
		azNorth = 180 + t
	case xdir < 0:
		azNorth = 360 + t
	case ydir < 0:
		azNorth = 180 + t
	default:
		azNorth = t
	}

	azSouth := azNorth - 180
	if azSouth <= -180 {
		azSouth += 360
	}
	return azSouth
}

// azimuthCategory buckets a south-referenced azimuth into the six sector
// codes. Threshold values are domain calibration constants.
func azimuthCategory(azDeg float64) int {
	switch {
	case azDeg > -122.5 && azDeg <= -67:
		return 1
	case azDeg > -67 && azDeg <= -22.5:
		return 3
	case azDeg > -22.5 && azDeg <= 22.5:
		return 5
	case azDeg > 22.5 && azDeg <= 67:
		return 4
	case azDeg >= 67 && azDeg <= 122.5:
		return 2
	default:
		return 6
	}
}

// tiltCategory buckets an installed tilt into the six tilt codes.
// Returns 0 for values outside (0, 180].
func tiltCategory(tiltDeg float64) int {
	switch {
	case tiltDeg > 0 && tiltDeg <= 5:
		return 1
	case tiltDeg > 5 && tiltDeg <= 15:
		return 2
	case tiltDeg > 15 && tiltDeg <= 25:
		return 3
	case tiltDeg > 25 && tiltDeg <= 40:
		return 4
	case tiltDeg > 40 && tiltDeg <= 60:
		return 5
	case tiltDeg > 60:
		return 6
	default:
		return 0
	}
}

// radiationCategory buckets a point's yearly radiation as a fraction of the
// yearly horizontal radiation. Returns 0 for non-positive fractions.
func radiationCategory(annualWhM2, maxYearlyWhM2 float64) int {
	frac := annualWhM2 / maxYearlyWhM2
	switch {
	case frac > 0 && frac <= 0.25:
		return 1
	case frac > 0.25 && frac <= 0.50:
		return 2
	case frac > 0.50 && frac <= 0.75:
		return 3
	case frac > 0.75 && frac <= 0.90:
		return 4
	case frac > 0.90:
		return 5
	default:
		return 0
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
