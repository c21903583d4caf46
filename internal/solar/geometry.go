package solar

import (
	"math"

	"pv_simulator/internal/model"
)

// solarConstant is the extraterrestrial irradiance [W/m2].
const solarConstant = 1367

// BuildSunPath computes the hourly solar-geometry table for a site: per-hour
// declination, hour angle, zenith and solar azimuth, the worst-hour sun
// position used as the row-spacing design point, and the mean clearness
// index derived from the weather series.
//
// Hours are evaluated at their midpoint in local solar time. The worst hour
// is solar noon on the winter solstice, the lowest noon sun of the year.
func BuildSunPath(latitudeDeg float64, weather *model.WeatherSeries) *model.SunPath {
	sp := &model.SunPath{
		DeclinationDeg: make([]float64, model.HoursPerYear),
		HourAngleDeg:   make([]float64, model.HoursPerYear),
		ZenithDeg:      make([]float64, model.HoursPerYear),
		AzimuthDeg:     make([]float64, model.HoursPerYear),
	}

	lat := radians(latitudeDeg)
	var sumGlobal, sumExtra float64

	for h := 0; h < model.HoursPerYear; h++ {
		day := h/24 + 1
		hourOfDay := float64(h%24) + 0.5

		decl := declination(day)
		ha := 15 * (hourOfDay + equationOfTimeMin(day)/60 - 12)

		g := radians(decl)
		haRad := radians(ha)
		cosZenith := math.Sin(lat)*math.Sin(g) + math.Cos(lat)*math.Cos(g)*math.Cos(haRad)
		zenith := math.Acos(clamp(cosZenith, -1, 1))

		sp.DeclinationDeg[h] = decl
		sp.HourAngleDeg[h] = ha
		sp.ZenithDeg[h] = degrees(zenith)
		sp.AzimuthDeg[h] = solarAzimuth(g, haRad, zenith)

		if weather != nil && h < weather.Len() {
			sumGlobal += weather.GlobalHorizWhM2[h]
			if cosZenith > 0 {
				eccentricity := 1 + 0.033*math.Cos(radians(360*float64(day)/365))
				sumExtra += solarConstant * eccentricity * cosZenith
			}
		}
	}

	if sumExtra > 0 {
		sp.MeanClearness = sumGlobal / sumExtra
	}

	solsticeDecl := worstDeclination(latitudeDeg)
	sp.WorstElevationDeg = 90 - math.Abs(latitudeDeg-solsticeDecl)
	sp.WorstAzimuthDeg = 180 // sun on the local meridian at solar noon

	return sp
}

// declination returns the solar declination in degrees for a day of year
// (Cooper's equation).
func declination(day int) float64 {
	return 23.45 * math.Sin(radians(360*float64(284+day)/365))
}

// equationOfTimeMin returns the equation of time in minutes for a day of
// year.
func equationOfTimeMin(day int) float64 {
	b := radians(360 * float64(day-81) / 364)
	return 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)
}

// solarAzimuth returns the sun's azimuth in degrees, south-referenced with
// west positive and east negative.
func solarAzimuth(g, ha, zenith float64) float64 {
	sinZenith := math.Sin(zenith)
	if sinZenith == 0 {
		return 0
	}
	return degrees(math.Asin(clamp(math.Cos(g)*math.Sin(ha)/sinZenith, -1, 1)))
}

// worstDeclination is the winter-solstice declination for the hemisphere of
// the given latitude.
func worstDeclination(latitudeDeg float64) float64 {
	if latitudeDeg >= 0 {
		return -23.45
	}
	return 23.45
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
