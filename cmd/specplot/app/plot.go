package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 40

	// Headroom above the tallest sample so the trace never touches
	// the frame
	intensityHeadroom = 1.05
)

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the intensity scale
	Bottom int // Space for the frequency scale and information bar
	Right  int // Right padding
}

// RenderConfig holds all configuration options for spectrum plotting
type RenderConfig struct {
	Width  int // Plot area width in pixels
	Height int // Plot area height in pixels
	Title  string

	FontSize   float64
	TraceColor color.Color
	Borders    BorderConfig
}

// PlotRenderer draws an acquired spectrum as an annotated intensity
// versus frequency line plot.
type PlotRenderer struct {
	context  *freetype.Context
	config   RenderConfig
	fontFace font.Face
}

// NewPlotRenderer creates a new plot renderer with the given
// configuration, filling in defaults for zero values.
func NewPlotRenderer(config RenderConfig) (*PlotRenderer, error) {
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.TraceColor == nil {
		config.TraceColor = color.RGBA{R: 0x1f, G: 0x4e, B: 0xa1, A: 0xff}
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &PlotRenderer{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (r *PlotRenderer) Close() error {
	if r.fontFace != nil {
		return r.fontFace.Close()
	}
	return nil
}

// Render creates an image of the spectrum with axis annotations
func (r *PlotRenderer) Render(spec *spectrum.Spectrum) (*image.RGBA, error) {
	if spec.Len() < 2 {
		return nil, fmt.Errorf("spectrum has %d samples, need at least 2", spec.Len())
	}

	fullWidth := r.config.Width + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := r.config.Height + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(
		r.config.Borders.Left,
		r.config.Borders.Top,
		r.config.Borders.Left+r.config.Width,
		r.config.Borders.Top+r.config.Height,
	)

	minFreq, maxFreq := spec.Bounds()
	maxIntensity := 0.0
	for _, v := range spec.Intensities {
		maxIntensity = math.Max(maxIntensity, v)
	}
	if maxIntensity == 0 {
		maxIntensity = 1
	}
	maxIntensity *= intensityHeadroom

	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	drawFrame(img, area)
	if err := r.drawFrequencyScale(img, area, minFreq, maxFreq); err != nil {
		return nil, fmt.Errorf("drawing frequency scale: %w", err)
	}
	if err := r.drawIntensityScale(img, area, maxIntensity); err != nil {
		return nil, fmt.Errorf("drawing intensity scale: %w", err)
	}
	if err := r.drawTitle(area); err != nil {
		return nil, fmt.Errorf("drawing title: %w", err)
	}
	if err := r.drawInfoBar(img, spec, minFreq, maxFreq); err != nil {
		return nil, fmt.Errorf("drawing info bar: %w", err)
	}

	r.drawTrace(img, area, spec, minFreq, maxFreq, maxIntensity)
	return img, nil
}

// drawTrace plots the spectrum as a connected polyline inside the
// plot area
func (r *PlotRenderer) drawTrace(img *image.RGBA, area image.Rectangle, spec *spectrum.Spectrum, minFreq, maxFreq, maxIntensity float64) {
	toPixel := func(i int) (x, y int) {
		xRatio := (spec.Frequencies[i] - minFreq) / (maxFreq - minFreq)
		yRatio := spec.Intensities[i] / maxIntensity

		x = area.Min.X + int(xRatio*float64(area.Dx()-1))
		y = area.Max.Y - 1 - int(yRatio*float64(area.Dy()-1))
		return x, y
	}

	prevX, prevY := toPixel(0)
	for i := 1; i < spec.Len(); i++ {
		x, y := toPixel(i)
		drawSegment(img, prevX, prevY, x, y, r.config.TraceColor)
		prevX, prevY = x, y
	}
}

func (r *PlotRenderer) drawFrequencyScale(img *image.RGBA, area image.Rectangle, minFreq, maxFreq float64) error {
	freqStep := niceFrequencyStep(maxFreq-minFreq, area.Dx())
	startFreq := math.Ceil(minFreq/freqStep) * freqStep

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Max.Y + tickMarkHeight + fontHeight

	for freq := startFreq; freq <= maxFreq; freq += freqStep {
		xRatio := (freq - minFreq) / (maxFreq - minFreq)
		x := area.Min.X + int(xRatio*float64(area.Dx()-1))

		// Tick mark below the frame
		for y := area.Max.Y; y < area.Max.Y+tickMarkHeight; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatFrequency(freq)
		width := font.MeasureString(r.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}
	return nil
}

func (r *PlotRenderer) drawIntensityScale(img *image.RGBA, area image.Rectangle, maxIntensity float64) error {
	step := niceDecimalStep(maxIntensity / 5)

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for v := 0.0; v <= maxIntensity; v += step {
		yRatio := v / maxIntensity
		y := area.Max.Y - 1 - int(yRatio*float64(area.Dy()-1))

		for x := area.Min.X - tickMarkHeight; x < area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		label := fmt.Sprintf("%.3g", v)
		width := font.MeasureString(r.fontFace, label)
		textY := y + fontHeight/2 - metrics.Descent.Round()
		pt := freetype.Pt(area.Min.X-tickMarkHeight-width.Round()-4, textY)
		if _, err := r.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing intensity label: %w", err)
		}
	}
	return nil
}

func (r *PlotRenderer) drawTitle(area image.Rectangle) error {
	if r.config.Title == "" {
		return nil
	}

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	width := font.MeasureString(r.fontFace, r.config.Title)
	x := area.Min.X + (area.Dx()-width.Round())/2
	textY := r.config.Borders.Top - fontHeight/2

	pt := freetype.Pt(x, textY)
	if _, err := r.context.DrawString(r.config.Title, pt); err != nil {
		return fmt.Errorf("drawing title text: %w", err)
	}
	return nil
}

func (r *PlotRenderer) drawInfoBar(img *image.RGBA, spec *spectrum.Spectrum, minFreq, maxFreq float64) error {
	var sb strings.Builder

	sb.WriteString(formatFrequencyRange(minFreq, maxFreq))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("%d samples", spec.Len()))

	// Frequency resolution of one pixel
	freqPerPixel := (maxFreq - minFreq) / float64(r.config.Width)
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("1px = %s", formatFrequency(freqPerPixel)))

	metrics := r.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (fontHeight+metrics.Descent.Round())/2

	pt := freetype.Pt(r.config.Borders.Left, textY)
	if _, err := r.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// Helper functions

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Min.Y, color.Black)
		img.Set(x, area.Max.Y-1, color.Black)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.Set(area.Min.X, y, color.Black)
		img.Set(area.Max.X-1, y, color.Black)
	}
}

// drawSegment draws a straight line between two pixels
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// niceFrequencyStep picks a label spacing in MHz so labels are about
// pixelsPerLabel apart
func niceFrequencyStep(rangeMHz float64, width int) float64 {
	// Standard step sizes in MHz
	steps := []float64{
		0.0001, // 100 Hz
		0.001,  // 1 kHz
		0.01,   // 10 kHz
		0.1,    // 100 kHz
		1,      // 1 MHz
		10,     // 10 MHz
		100,    // 100 MHz
		1_000,  // 1 GHz
		10_000, // 10 GHz
	}

	desiredSteps := float64(width) / pixelsPerLabel
	targetStep := rangeMHz / desiredSteps

	for _, step := range steps {
		if step >= targetStep {
			if rangeMHz/step >= 2 {
				return step
			}
			break
		}
	}

	// Fall back to half the range so at least the center is labelled
	return rangeMHz / 2
}

// niceDecimalStep rounds a raw step up to the nearest 1, 2 or 5
// times a power of ten
func niceDecimalStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw <= mag:
		return mag
	case raw <= 2*mag:
		return 2 * mag
	case raw <= 5*mag:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatFrequency(mhz float64) string {
	fract, suffix := humanize.ComputeSI(mhz * 1e6)
	return fmt.Sprintf("%.4g %sHz", fract, suffix)
}

func formatFrequencyRange(minFreq, maxFreq float64) string {
	return fmt.Sprintf("Freq: %s - %s", formatFrequency(minFreq), formatFrequency(maxFreq))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
