package pv

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"pv_simulator/internal/model"
)

// Optical constants of the glazing model.
const (
	refractiveIndexGlass = 1.526
	groundReflectance    = 0.2
	extinctionCoeff      = 0.4 // glazing extinction coefficient [1/m]
)

// Angle clamping limits. Angles are pushed into the open interval (0, 90)
// degrees before entering the trigonometric ratios: cos(90) = 0 divides, and
// the Fresnel formulas degenerate at exactly 0.
var (
	limLow  = radians(0.001)
	limHigh = radians(89.999)
	// Beam-modifier cutoff, kept just under pi/2 so that angles clamped to
	// 89.999 degrees still count as grazing and get a zero modifier.
	beamCutoff = 1.5707
)

// Simulate evaluates the absorbed-irradiance and power model for every group
// over the full year and combines the per-group series, weighted by group
// area, into one building-level hourly power series in kW.
func Simulate(panel PanelProperties, groups []model.SensorGroup, weather *model.WeatherSeries, sun *model.SunPath, latitudeDeg, miscLosses float64) (*model.GenerationResult, error) {
	if weather.Len() != model.HoursPerYear {
		return nil, &DataIntegrityError{Reason: "weather series must cover 8760 hours"}
	}
	if len(sun.ZenithDeg) != model.HoursPerYear {
		return nil, &DataIntegrityError{Reason: "sun path must cover 8760 hours"}
	}

	lat := radians(latitudeDeg)

	result := &model.GenerationResult{
		PowerKW:      make([]float64, model.HoursPerYear),
		GroupPowerKW: make([][]float64, len(groups)),
		Groups:       len(groups),
	}
	buildingSum := mat.NewVecDense(model.HoursPerYear, result.PowerKW)

	for gi := range groups {
		group := &groups[gi]

		tilt := radians(group.PanelTiltDeg)
		// The stored azimuth is south-referenced; the normal-vector
		// formulation below expects the north-referenced angle.
		tetaZ := radians(group.AzimuthDeg + 180)

		tetaED, tetaEG := diffuseGroundAngles(group.PanelTiltDeg)

		tanAbsorption := normalTransmittance(panel.GlazingThicknessM)
		ktetaDiffuse := incidenceModifier(tetaED, panel.GlazingThicknessM) / tanAbsorption
		ktetaGround := incidenceModifier(tetaEG, panel.GlazingThicknessM) / tanAbsorption

		power := make([]float64, model.HoursPerYear)
		for h := 0; h < model.HoursPerYear; h++ {
			iSol := group.MeanHourly[h]

			ratio := weather.DiffuseRatio[h]
			if math.IsNaN(ratio) {
				ratio = 0
			}
			iDiffuse := ratio * iSol
			iDirect := iSol - iDiffuse

			g := radians(sun.DeclinationDeg[h])
			ha := radians(sun.HourAngleDeg[h])
			sz := clampAngle(radians(sun.ZenithDeg[h]))
			teta := clampAngle(angleOfIncidence(g, lat, ha, tilt, tetaZ))

			// Ratio of beam radiation on the tilted plane to horizontal.
			rb := math.Cos(teta) / math.Cos(sz)

			// Air mass and spectral correction.
			m := 1 / math.Cos(sz)
			spectral := panel.A0 + panel.A1*m + panel.A2*m*m + panel.A3*m*m*m + panel.A4*m*m*m*m

			var ktetaBeam float64
			if teta < beamCutoff {
				ktetaBeam = incidenceModifier(teta, panel.GlazingThicknessM) / tanAbsorption
			}

			s := spectral * tanAbsorption * (ktetaBeam*iDirect*rb +
				ktetaDiffuse*iDiffuse*(1+math.Cos(tilt))/2 +
				ktetaGround*iSol*groundReflectance*(1-math.Cos(tilt))/2)
			if s < 0 {
				s = 0
			}

			// Linear cell-temperature rise against NOCT test conditions.
			tCell := weather.DryBulbC[h] + s*(panel.NOCTC-20)/800

			power[h] = panel.EffNominal * group.TotalPVAreaM2 * s *
				(1 - panel.TempCoeff*(tCell-25)) * (1 - miscLosses) / 1000
		}

		result.GroupPowerKW[gi] = power
		buildingSum.AddVec(buildingSum, mat.NewVecDense(model.HoursPerYear, power))
		result.TotalAreaM2 += group.TotalPVAreaM2
	}

	return result, nil
}

// angleOfIncidence returns the angle in radians between the solar vector and
// the surface normal, from the dot product of the two unit vectors. tetaZ is
// the north-referenced surface azimuth in radians.
func angleOfIncidence(g, lat, ha, tilt, tetaZ float64) float64 {
	// Surface normal vector.
	nE := math.Sin(tilt) * math.Sin(tetaZ)
	nN := math.Sin(tilt) * math.Cos(tetaZ)
	nZ := math.Cos(tilt)
	// Solar vector.
	sE := -math.Cos(g) * math.Sin(ha)
	sN := math.Sin(g)*math.Cos(lat) - math.Cos(g)*math.Sin(lat)*math.Cos(ha)
	sZ := math.Cos(g)*math.Cos(lat)*math.Cos(ha) + math.Sin(g)*math.Sin(lat)

	return math.Acos(clamp(nE*sE+nN*sN+nZ*sZ, -1, 1))
}

// diffuseGroundAngles returns the effective incidence angles in radians for
// ground-reflected and diffuse radiation, as empirical quadratic functions
// of the tilt (Duffie & Beckman 2013, radiation transmission through
// glazing).
func diffuseGroundAngles(tiltDeg float64) (tetaED, tetaEG float64) {
	tetaED = radians(59.68 - 0.1388*tiltDeg + 0.001497*tiltDeg*tiltDeg)
	tetaEG = radians(90 - 0.5788*tiltDeg + 0.002693*tiltDeg*tiltDeg)
	return tetaED, tetaEG
}

// normalTransmittance is the transmittance-absorptance product of the
// glazing at normal incidence.
func normalTransmittance(thicknessM float64) float64 {
	n := refractiveIndexGlass
	reflect := ((n - 1) / (n + 1)) * ((n - 1) / (n + 1))
	return math.Exp(-extinctionCoeff*thicknessM) * (1 - reflect)
}

// incidenceModifier is the transmittance-absorptance product at the given
// incidence angle, combining Snell refraction, exponential absorption along
// the refracted path and Fresnel reflection losses. Divide by the
// normal-incidence value to obtain the incidence-angle modifier.
func incidenceModifier(teta, thicknessM float64) float64 {
	n := refractiveIndexGlass
	tetaR := math.Asin(math.Sin(teta) / n)
	sum := tetaR + teta
	diff := tetaR - teta
	sinRatio := math.Sin(diff) * math.Sin(diff) / (math.Sin(sum) * math.Sin(sum))
	tanRatio := math.Tan(diff) * math.Tan(diff) / (math.Tan(sum) * math.Tan(sum))
	return math.Exp(-extinctionCoeff*thicknessM/math.Cos(tetaR)) * (1 - 0.5*(sinRatio+tanRatio))
}

// clampAngle pushes an angle in radians into the open interval (0, 90)
// degrees.
func clampAngle(a float64) float64 {
	if a < limLow {
		a = math.Abs(a)
		if a < limLow {
			return limLow
		}
		return math.Min(limHigh, a)
	}
	if a >= math.Pi/2 {
		return limHigh
	}
	return a
}
