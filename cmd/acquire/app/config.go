package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/ftmw"
)

const (
	OutputCSV  = "csv"
	OutputJSON = "json"
)

type OutputFormat string

var validOutputFormats = map[OutputFormat]struct{}{
	OutputCSV:  {},
	OutputJSON: {},
}

// Config holds the command line configuration of the acquire tool.
type Config struct {
	ConfigPath  string
	RequestPath string
	OutputFile  string
	Format      OutputFormat
	PeaksFile   string
	Threshold   float64
	MinDistance int
	Import      bool
	Verbose     bool
}

func NewConfig() *Config {
	return &Config{
		Format:      OutputCSV,
		Threshold:   5,
		MinDistance: 10,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var outputFormat string
	flag.StringVar(&c.ConfigPath, "c", "", "Path to the instrument configuration file (optional)")
	flag.StringVar(&c.RequestPath, "r", "", "Path to the acquisition request file")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output spectrum file")
	flag.StringVar(&outputFormat, "f", string(OutputCSV), "Output format. [csv, json]")
	flag.StringVar(&c.PeaksFile, "peaks", "", "Path to the detected peaks JSON file (optional)")
	flag.Float64Var(&c.Threshold, "threshold", c.Threshold, "Minimum peak intensity")
	flag.IntVar(&c.MinDistance, "min-distance", c.MinDistance, "Minimum peak separation in grid samples")
	flag.BoolVar(&c.Import, "import", false, "Import line lists from the catalog directory into the catalog database before acquiring")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	outputFormat = strings.ToLower(outputFormat)

	var err error
	if c.RequestPath == "" {
		err = errors.New("request file is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validOutputFormats[OutputFormat(outputFormat)]; !ok {
		err = fmt.Errorf("invalid output format: %s", outputFormat)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = OutputFormat(outputFormat)
	return c, nil
}

// InstrumentConfig is the yaml instrument configuration. Zero
// sections keep their defaults.
type InstrumentConfig struct {
	Instrument ftmw.Instrument `yaml:"instrument"`
	Noise      NoiseConfig     `yaml:"noise"`
	Catalog    CatalogConfig   `yaml:"catalog"`
}

// NoiseConfig controls the acquisition noise model. A set Seed makes
// every run reproducible; unset levels keep the calibrated defaults
// and explicit zero levels disable noise.
type NoiseConfig struct {
	Seed        *uint64  `yaml:"seed"`
	SignalLevel *float64 `yaml:"signalLevel"`
	CavityLevel *float64 `yaml:"cavityLevel"`
}

// CatalogConfig selects the line-list catalog: a directory of .dat
// files, optionally fronted by a sqlite database.
type CatalogConfig struct {
	Directory string `yaml:"directory"`
	Database  string `yaml:"database"`
}

// LoadInstrumentConfig reads the instrument configuration file. An
// empty path returns the defaults.
func LoadInstrumentConfig(path string) (*InstrumentConfig, error) {
	config := InstrumentConfig{
		Instrument: ftmw.DefaultInstrument(),
		Catalog:    CatalogConfig{Directory: "linelists"},
	}
	if path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	return &config, nil
}

// LoadRequest reads an acquisition request file. Unknown keys are
// rejected so a malformed request fails at the boundary rather than
// silently acquiring with defaults.
func LoadRequest(path string) (*ftmw.AcquisitionParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	defer f.Close()

	var params ftmw.AcquisitionParams
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	return &params, nil
}
