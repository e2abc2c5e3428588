package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/catalog"
	"github.com/RastonLab/Virtual-FTMW-Functions/internal/ftmw"
	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	instConfig, err := LoadInstrumentConfig(config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load instrument configuration: %w", err)
	}

	params, err := LoadRequest(config.RequestPath)
	if err != nil {
		return fmt.Errorf("failed to load acquisition request: %w", err)
	}

	source, err := createSource(ctx, &instConfig.Catalog, config.Import, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog source: %w", err)
	}
	defer source.Close()

	sim := ftmw.NewSimulator(source,
		ftmw.WithInstrument(instConfig.Instrument),
		ftmw.WithNoise(createNoise(&instConfig.Noise)),
		ftmw.WithLogger(logger),
	)

	spec, err := sim.Acquire(ctx, params)
	if err != nil {
		return fmt.Errorf("acquisition failed: %w", err)
	}

	minFreq, maxFreq := spec.Bounds()
	logger.Info("spectrum acquired",
		slog.Group("spectrum",
			slog.String("molecule", params.Molecule),
			slog.String("minFreq", formatFrequency(minFreq)),
			slog.String("maxFreq", formatFrequency(maxFreq)),
			slog.Int("samples", spec.Len()),
		))

	if err = writeSpectrum(config.OutputFile, config.Format, spec); err != nil {
		return fmt.Errorf("writing spectrum: %w", err)
	}

	if config.PeaksFile == "" {
		return nil
	}

	peaks, err := ftmw.FindPeaks(spec.Frequencies, spec.Intensities, config.Threshold, config.MinDistance)
	if err != nil {
		return fmt.Errorf("peak detection failed: %w", err)
	}

	logger.Info("peaks detected",
		slog.Group("peaks",
			slog.Int("count", len(peaks)),
			slog.Float64("threshold", config.Threshold),
			slog.Int("minDistance", config.MinDistance),
		))

	if err = writePeaks(config.PeaksFile, peaks); err != nil {
		return fmt.Errorf("writing peaks: %w", err)
	}
	return nil
}

func createSource(ctx context.Context, config *CatalogConfig, doImport bool, logger *slog.Logger) (catalog.Source, error) {
	if config.Database == "" {
		return catalog.NewDirSource(config.Directory), nil
	}

	store := catalog.NewSqliteStore(config.Database)
	if !doImport {
		return store, nil
	}

	dir := catalog.NewDirSource(config.Directory)
	molecules, _ := dir.Molecules(ctx)
	for _, molecule := range molecules {
		path := filepath.Join(config.Directory, molecule+".dat")
		if _, err := os.Stat(path); err != nil {
			continue
		}

		n, err := store.ImportFile(ctx, molecule, path)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("importing %s: %w", molecule, err)
		}
		logger.Info("imported line list", slog.String("molecule", molecule), slog.Int("lines", n))
	}
	return store, nil
}

func createNoise(config *NoiseConfig) *ftmw.NoiseInjector {
	var options []func(*ftmw.NoiseInjector)
	if config.Seed != nil {
		options = append(options, ftmw.WithSeed(*config.Seed))
	}
	if config.SignalLevel != nil || config.CavityLevel != nil {
		signal, cavity := 0.05, 0.01
		if config.SignalLevel != nil {
			signal = *config.SignalLevel
		}
		if config.CavityLevel != nil {
			cavity = *config.CavityLevel
		}
		options = append(options, ftmw.WithBaseLevels(signal, cavity))
	}
	return ftmw.NewNoiseInjector(options...)
}

func writeSpectrum(path string, format OutputFormat, spec *spectrum.Spectrum) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithError(out, &err)

	switch format {
	case OutputCSV:
		w := csv.NewWriter(out)
		if err = w.Write([]string{"frequency", "intensity"}); err != nil {
			return err
		}
		for i := range spec.Frequencies {
			record := []string{
				strconv.FormatFloat(spec.Frequencies[i], 'g', -1, 64),
				strconv.FormatFloat(spec.Intensities[i], 'g', -1, 64),
			}
			if err = w.Write(record); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()

	case OutputJSON:
		enc := json.NewEncoder(out)
		return enc.Encode(struct {
			Success bool      `json:"success"`
			X       []float64 `json:"x"`
			Y       []float64 `json:"y"`
		}{true, spec.Frequencies, spec.Intensities})
	}
	return fmt.Errorf("unknown output format '%s'", format)
}

func writePeaks(path string, peaks []spectrum.Peak) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithError(out, &err)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Success bool              `json:"success"`
		Peaks   map[string]string `json:"peaks"`
	}{true, ftmw.PeakMap(peaks)})
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func formatFrequency(mhz float64) string {
	fract, suffix := humanize.ComputeSI(mhz * 1e6)
	return fmt.Sprintf("%.4g %sHz", fract, suffix)
}
