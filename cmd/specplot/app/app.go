package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.InputFile); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("spectrum file '%s' does not exist: %w", config.InputFile, err)
	}

	spec, err := readSpectrum(config.InputFile)
	if err != nil {
		return fmt.Errorf("reading spectrum: %w", err)
	}

	minFreq, maxFreq := spec.Bounds()
	logger.Info("spectrum loaded",
		slog.Group("spectrum",
			slog.String("source", config.InputFile),
			slog.String("minFreq", formatFrequency(minFreq)),
			slog.String("maxFreq", formatFrequency(maxFreq)),
			slog.Int("samples", spec.Len()),
		))

	renderer, err := NewPlotRenderer(RenderConfig{
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	})
	if err != nil {
		return fmt.Errorf("creating plot renderer: %w", err)
	}
	defer renderer.Close()

	logger.Info("rendering spectrum",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		))

	img, err := renderer.Render(spec)
	if err != nil {
		return fmt.Errorf("rendering spectrum: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

// readSpectrum loads a two-column CSV (frequency, intensity) as
// written by the acquire tool. A leading header row is skipped.
func readSpectrum(path string) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var spec spectrum.Spectrum
	for n := 1; ; n++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		freq, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			if n == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: invalid frequency '%s'", n, record[0])
		}
		intensity, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid intensity '%s'", n, record[1])
		}

		spec.Frequencies = append(spec.Frequencies, freq)
		spec.Intensities = append(spec.Intensities, intensity)
	}

	if spec.Len() < 2 {
		return nil, fmt.Errorf("spectrum has %d samples, need at least 2", spec.Len())
	}
	return &spec, nil
}
