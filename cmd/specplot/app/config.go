package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// Config holds the command line configuration of the specplot tool.
type Config struct {
	InputFile  string
	OutputFile string
	Format     ImageFormat
	Title      string
	Width      int
	Height     int
	Verbose    bool
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Width:  1200,
		Height: 500,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	flag.StringVar(&c.InputFile, "i", "", "Path to the acquired spectrum CSV file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.Title, "title", "", "Plot title (optional)")
	flag.IntVar(&c.Width, "width", c.Width, "Plot area width in pixels")
	flag.IntVar(&c.Height, "height", c.Height, "Plot area height in pixels")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.InputFile == "" {
		err = errors.New("input file is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.Width < 100 || c.Height < 100 {
		err = errors.New("plot area must be at least 100x100 pixels")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
