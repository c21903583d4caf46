package pv

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pv_simulator/internal/model"
)

// Config holds the user-facing simulation parameters for one site.
type Config struct {
	MinRadiationFraction float64
	PVOnRoof             bool
	PVOnWall             bool
	PanelType            model.PanelType
	ModuleLengthM        float64
	MiscLosses           float64
	LatitudeDeg          float64
}

// RunInput carries the pre-parsed tables for one building.
type RunInput struct {
	Building  string
	Weather   *model.WeatherSeries
	Sun       *model.SunPath
	Radiation *model.RadiationTable
	Metadata  []model.SurfaceMetadata
}

// Pipeline runs the generation-estimation stages for single buildings. It is
// stateless apart from its configuration and safe for concurrent use across
// buildings.
type Pipeline struct {
	cfg    Config
	panel  PanelProperties
	logger *zap.Logger
}

// NewPipeline resolves the panel technology once and returns a pipeline
// ready to process buildings.
func NewPipeline(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	panel, err := PropertiesFor(cfg.PanelType)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, panel: panel, logger: logger}, nil
}

// Panel returns the resolved panel properties record.
func (p *Pipeline) Panel() PanelProperties { return p.panel }

// Run executes filter, orientation, classification and simulation for one
// building. It returns the generation result and the enriched sensor points
// for downstream diagnostics. A fatal error aborts only this building.
func (p *Pipeline) Run(in RunInput) (*model.GenerationResult, []model.SensorPoint, error) {
	log := p.logger.With(zap.String("building", in.Building))

	maxYearly, minYearly, points, err := FilterLowPotential(in.Weather, in.Radiation, in.Metadata, FilterConfig{
		MinRadiationFraction: p.cfg.MinRadiationFraction,
		PVOnRoof:             p.cfg.PVOnRoof,
		PVOnWall:             p.cfg.PVOnWall,
	})
	if err != nil {
		var integrity *DataIntegrityError
		if errors.As(err, &integrity) {
			integrity.Building = in.Building
		}
		return nil, nil, err
	}
	log.Info("filtered low potential sensor points",
		zap.Int("kept", len(points)),
		zap.Float64("min_yearly_whm2", minYearly))

	result := &model.GenerationResult{
		Building:    in.Building,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		PowerKW:     make([]float64, model.HoursPerYear),
	}
	if len(points) == 0 {
		log.Info("no sensor points with sufficient potential")
		return result, nil, nil
	}

	SolveOrientation(points, OrientationParams{
		LatitudeDeg:       p.cfg.LatitudeDeg,
		WorstElevationDeg: in.Sun.WorstElevationDeg,
		WorstAzimuthDeg:   in.Sun.WorstAzimuthDeg,
		Clearness:         in.Sun.MeanClearness,
		ModuleLengthM:     p.cfg.ModuleLengthM,
		MaxYearlyWhM2:     maxYearly,
	}, log)
	log.Info("solved panel orientation and spacing")

	groups := Classify(points)
	log.Info("classified sensor points", zap.Int("groups", len(groups)))

	sim, err := Simulate(p.panel, groups, in.Weather, in.Sun, p.cfg.LatitudeDeg, p.cfg.MiscLosses)
	if err != nil {
		return nil, nil, err
	}
	result.PowerKW = sim.PowerKW
	result.GroupPowerKW = sim.GroupPowerKW
	result.TotalAreaM2 = sim.TotalAreaM2
	result.Groups = sim.Groups

	log.Info("simulated PV generation",
		zap.Float64("annual_kwh", result.AnnualKWh()),
		zap.Float64("total_area_m2", result.TotalAreaM2))
	return result, points, nil
}
