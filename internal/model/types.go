package model

import "time"

// HoursPerYear is the length of every hourly series in the pipeline.
const HoursPerYear = 8760

type SurfaceType string

const (
	SurfaceRoof   SurfaceType = "roof"
	SurfaceWall   SurfaceType = "wall"
	SurfaceWindow SurfaceType = "window"
)

type PanelType string

const (
	PanelMonocrystalline PanelType = "mono"
	PanelPolycrystalline PanelType = "poly"
	PanelAmorphous       PanelType = "amorphous"
)

// SurfaceMetadata is one row of the raw per-surface metadata table.
type SurfaceMetadata struct {
	Surface string      `csv:"SURFACE"`
	Type    SurfaceType `csv:"TYPE"`
	Xdir    float64     `csv:"Xdir"`
	Ydir    float64     `csv:"Ydir"`
	Zdir    float64     `csv:"Zdir"`
	AreaM2  float64     `csv:"AREA_m2"`
}

// RadiationTable is the wide per-surface irradiance table: one column per
// sensor id, HoursPerYear rows, W/m2.
type RadiationTable struct {
	SensorIDs []string
	Hourly    map[string][]float64
}

// SensorPoint is one discrete surface location, joined from the radiation and
// metadata tables by the filter and enriched in place by the orientation
// solver. Not mutated after classification.
type SensorPoint struct {
	ID      string
	Surface SurfaceType
	Xdir    float64
	Ydir    float64
	Zdir    float64
	AreaM2  float64

	Hourly     []float64 // W/m2, HoursPerYear entries
	AnnualWhM2 float64

	// Derived by the orientation solver.
	TiltDeg           float64 // geometric tilt from the surface normal
	PanelTiltDeg      float64 // installed tilt (flat surfaces get the optimum)
	AzimuthDeg        float64 // south-referenced, (-180, 180], east negative
	RowSpacingM       float64
	InstallableAreaM2 float64

	// Bucket codes; 0 means uncategorized.
	TiltCat      int
	RadiationCat int
	AzimuthCat   int
}

// SensorGroup aggregates the sensor points sharing one bucket triple.
// Geometric fields are member-wise means; TotalPVAreaM2 is the summed
// installable area.
type SensorGroup struct {
	TiltCat      int
	RadiationCat int
	AzimuthCat   int

	Members int

	TiltDeg       float64
	PanelTiltDeg  float64
	AzimuthDeg    float64
	RowSpacingM   float64
	AreaM2        float64
	AnnualWhM2    float64
	TotalPVAreaM2 float64

	MeanHourly []float64 // W/m2, HoursPerYear entries
}

// WeatherSeries holds one year of hourly weather data.
type WeatherSeries struct {
	DryBulbC        []float64
	GlobalHorizWhM2 []float64
	DiffuseRatio    []float64 // diffuse-to-global ratio, missing values are 0
}

func (w *WeatherSeries) Len() int { return len(w.GlobalHorizWhM2) }

// SunPath is the per-hour solar geometry table plus the worst-hour design
// point used for row spacing. All angles in degrees.
type SunPath struct {
	DeclinationDeg []float64
	HourAngleDeg   []float64
	ZenithDeg      []float64
	AzimuthDeg     []float64

	WorstElevationDeg float64
	WorstAzimuthDeg   float64
	MeanClearness     float64
}

// GenerationResult is the building-level output of one pipeline run.
// Immutable after creation.
type GenerationResult struct {
	Building    string
	RunID       string
	GeneratedAt time.Time

	PowerKW      []float64   // building-level, HoursPerYear entries
	GroupPowerKW [][]float64 // one series per sensor group
	TotalAreaM2  float64
	Groups       int
}

// AnnualKWh returns the summed yearly generation.
func (r *GenerationResult) AnnualKWh() float64 {
	var sum float64
	for _, p := range r.PowerKW {
		sum += p
	}
	return sum
}
