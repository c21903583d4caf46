package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"

	"pv_simulator/internal/config"
	"pv_simulator/internal/ingest"
	"pv_simulator/internal/model"
	"pv_simulator/internal/pv"
	"pv_simulator/internal/solar"
)

type job struct {
	building string
}

type outcome struct {
	building  string
	annualKWh float64
	err       error
}

func main() {
	inputDir := flag.String("input-dir", "input", "directory containing weather and per-building CSV files")
	outDir := flag.String("out-dir", "output", "directory for generated result files")
	workers := flag.Int("workers", runtime.NumCPU(), "number of concurrent building workers")
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
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("creating output directory", zap.Error(err))
	}

	logger.Info("starting batch run",
		zap.Int("buildings", len(buildings)),
		zap.Int("workers", *workers),
		zap.String("panel_type", cfg.PanelType))

	jobs := make(chan job, len(buildings))
	outcomes := make(chan outcome, len(buildings))
	for _, b := range buildings {
		jobs <- job{building: b}
	}
	close(jobs)

	bar := pb.StartNew(len(buildings))

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes <- runBuilding(pipeline, weather, sun, *inputDir, *outDir, j.building)
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	close(outcomes)
	bar.Finish()

	var results []outcome
	failed := 0
	for o := range outcomes {
		if o.err != nil {
			failed++
			logger.Error("building run failed",
				zap.String("building", o.building),
				zap.Error(o.err))
			continue
		}
		results = append(results, o)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].building < results[j].building })

	fmt.Printf("\n%-20s %15s\n", "building", "annual kWh")
	for _, o := range results {
		fmt.Printf("%-20s %15.1f\n", o.building, o.annualKWh)
	}

	logger.Info("batch run complete",
		zap.Int("succeeded", len(results)),
		zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func runBuilding(pipeline *pv.Pipeline, weather *model.WeatherSeries, sun *model.SunPath, inputDir, outDir, building string) outcome {
	rad, meta, err := loadBuilding(inputDir, building)
	if err != nil {
		return outcome{building: building, err: err}
	}

	res, points, err := pipeline.Run(pv.RunInput{
		Building:  building,
		Weather:   weather,
		Sun:       sun,
		Radiation: rad,
		Metadata:  meta,
	})
	if err != nil {
		return outcome{building: building, err: err}
	}

	if err := writePowerCSV(filepath.Join(outDir, building+"_PV.csv"), res); err != nil {
		return outcome{building: building, err: err}
	}
	if err := writeSensorsCSV(filepath.Join(outDir, building+"_sensors.csv"), points); err != nil {
		return outcome{building: building, err: err}
	}
	return outcome{building: building, annualKWh: res.AnnualKWh()}
}

func writePowerCSV(path string, res *model.GenerationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"hour", "power_kW", "area_m2"}); err != nil {
		return err
	}
	area := strconv.FormatFloat(res.TotalAreaM2, 'f', 2, 64)
	for h, p := range res.PowerKW {
		record := []string{
			strconv.Itoa(h),
			strconv.FormatFloat(p, 'f', 6, 64),
			area,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSensorsCSV(path string, points []model.SensorPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"SURFACE", "TYPE", "AREA_m2", "tilt_deg", "panel_tilt_deg",
		"azimuth_deg", "array_spacing_m", "area_installed_m2",
		"annual_Whm2", "tilt_cat", "radiation_cat", "azimuth_cat",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{
			p.ID,
			string(p.Surface),
			strconv.FormatFloat(p.AreaM2, 'f', 2, 64),
			strconv.FormatFloat(p.TiltDeg, 'f', 2, 64),
			strconv.FormatFloat(p.PanelTiltDeg, 'f', 2, 64),
			strconv.FormatFloat(p.AzimuthDeg, 'f', 2, 64),
			strconv.FormatFloat(p.RowSpacingM, 'f', 3, 64),
			strconv.FormatFloat(p.InstallableAreaM2, 'f', 2, 64),
			strconv.FormatFloat(p.AnnualWhM2, 'f', 0, 64),
			strconv.Itoa(p.TiltCat),
			strconv.Itoa(p.RadiationCat),
			strconv.Itoa(p.AzimuthCat),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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
