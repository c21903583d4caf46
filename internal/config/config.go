package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"pv_simulator/internal/model"
	"pv_simulator/internal/pv"
)

// AppConfig is the environment-driven run configuration. Field ranges are
// enforced once at load time.
type AppConfig struct {
	MinRadiationFraction float64 `validate:"gte=0,lte=1"`
	PVOnRoof             bool
	PVOnWall             bool
	PanelType            string  `validate:"oneof=mono poly amorphous"`
	ModuleLengthM        float64 `validate:"gt=0"`
	MiscLosses           float64 `validate:"gte=0,lte=1"`
	LatitudeDeg          float64 `validate:"gte=-90,lte=90"`

	Port string
}

// Load reads configuration from the environment with defaults matching the
// reference case. A .env file is honored when present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine; the environment still applies.
		_ = err
	}

	cfg := &AppConfig{
		MinRadiationFraction: getenvFloat("PV_MIN_RADIATION_FRACTION", 0.75),
		PVOnRoof:             getenvBool("PV_ON_ROOF", true),
		PVOnWall:             getenvBool("PV_ON_WALL", true),
		PanelType:            getenvDefault("PV_PANEL_TYPE", "mono"),
		ModuleLengthM:        getenvFloat("PV_MODULE_LENGTH_M", 1),
		MiscLosses:           getenvFloat("PV_MISC_LOSSES", 0.1),
		LatitudeDeg:          getenvFloat("PV_LATITUDE_DEG", 46.9524),
		Port:                 getenvDefault("PORT", "8080"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// PVConfig maps the app configuration onto the pipeline configuration.
func (c *AppConfig) PVConfig() pv.Config {
	return pv.Config{
		MinRadiationFraction: c.MinRadiationFraction,
		PVOnRoof:             c.PVOnRoof,
		PVOnWall:             c.PVOnWall,
		PanelType:            model.PanelType(c.PanelType),
		ModuleLengthM:        c.ModuleLengthM,
		MiscLosses:           c.MiscLosses,
		LatitudeDeg:          c.LatitudeDeg,
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
