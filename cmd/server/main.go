package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"pv_simulator/internal/config"
	"pv_simulator/internal/ingest"
	"pv_simulator/internal/model"
	"pv_simulator/internal/pv"
	"pv_simulator/internal/solar"
	"pv_simulator/internal/store"
	"pv_simulator/internal/ws"
)

func main() {
	inputDir := flag.String("input-dir", "input", "directory containing weather and per-building CSV files")
	addr := flag.String("addr", "", "listen address (defaults to :$PORT)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading configuration", zap.Error(err))
	}
	if *addr == "" {
		*addr = ":" + cfg.Port
	}

	weather, err := loadWeather(*inputDir)
	if err != nil {
		logger.Fatal("loading weather data", zap.Error(err))
	}
	sun := solar.BuildSunPath(cfg.LatitudeDeg, weather)

	pipeline, err := pv.NewPipeline(cfg.PVConfig(), logger)
	if err != nil {
		logger.Fatal("creating pipeline", zap.Error(err))
	}

	buildings, err := discoverBuildings(*inputDir)
	if err != nil {
		logger.Fatal("discovering buildings", zap.Error(err))
	}
	if len(buildings) == 0 {
		logger.Fatal("no building data found", zap.String("input_dir", *inputDir))
	}
	logger.Info("building data found",
		zap.Int("buildings", len(buildings)),
		zap.String("panel_type", cfg.PanelType))

	runner := &buildingRunner{
		pipeline:  pipeline,
		weather:   weather,
		sun:       sun,
		inputDir:  *inputDir,
		buildings: buildings,
	}

	results := store.New()
	hub := ws.NewHub(logger)
	handler := ws.NewHandler(hub, runner, results, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	logger.Info("starting server", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// buildingRunner adapts the pipeline to the ws.Runner interface, loading
// each building's tables on demand.
type buildingRunner struct {
	pipeline  *pv.Pipeline
	weather   *model.WeatherSeries
	sun       *model.SunPath
	inputDir  string
	buildings []string
}

func (r *buildingRunner) Buildings() []string {
	return append([]string(nil), r.buildings...)
}

func (r *buildingRunner) Run(building string) (model.GenerationResult, error) {
	rad, meta, err := loadBuilding(r.inputDir, building)
	if err != nil {
		return model.GenerationResult{}, err
	}

	res, _, err := r.pipeline.Run(pv.RunInput{
		Building:  building,
		Weather:   r.weather,
		Sun:       r.sun,
		Radiation: rad,
		Metadata:  meta,
	})
	if err != nil {
		return model.GenerationResult{}, err
	}
	return *res, nil
}

func loadWeather(dir string) (*model.WeatherSeries, error) {
	f, err := os.Open(filepath.Join(dir, "weather.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadWeather(f)
}

func loadBuilding(dir, building string) (*model.RadiationTable, []model.SurfaceMetadata, error) {
	rf, err := os.Open(filepath.Join(dir, building+"_radiation.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer rf.Close()

	rad, err := ingest.ReadRadiation(rf)
	if err != nil {
		return nil, nil, err
	}

	mf, err := os.Open(filepath.Join(dir, building+"_metadata.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer mf.Close()

	meta, err := ingest.ReadMetadata(mf)
	if err != nil {
		return nil, nil, err
	}
	return rad, meta, nil
}

// discoverBuildings lists buildings that have both a radiation and a
// metadata file in the input directory.
func discoverBuildings(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var buildings []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_radiation.csv") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), "_radiation.csv")
		if _, err := os.Stat(filepath.Join(dir, name+"_metadata.csv")); err != nil {
			continue
		}
		buildings = append(buildings, name)
	}
	sort.Strings(buildings)
	return buildings, nil
}
