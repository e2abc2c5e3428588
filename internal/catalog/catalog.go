// Package catalog supplies molecular line lists to the simulator.
// Lines come either straight from two-column .dat files (DirSource)
// or from a sqlite database the .dat files were imported into
// (SqliteStore).
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/ftmw"
	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

// Source abstracts a line-list catalog.
type Source interface {
	// Lines returns the catalog lines of a molecule whose frequency
	// lies within [minFreq, maxFreq], ordered by frequency.
	Lines(ctx context.Context, molecule string, minFreq, maxFreq float64) ([]spectrum.Line, error)

	// Molecules lists the molecules the catalog knows about.
	Molecules(ctx context.Context) ([]string, error)

	// Close releases any resources held by the source.
	Close() error
}

// defaultFiles maps a molecule's chemical formula to its line-list
// file name.
var defaultFiles = map[string]string{
	"C6H5CN":     "C6H5CN.dat",
	"HC7N":       "HC7N.dat",
	"CH2CHCN":    "CH2CHCN.dat",
	"CH2CHOH":    "CH2CHOH.dat",
	"HOCH2CH2OH": "HOCH2CH2OH.dat",
	"NH2CONH2":   "NH2CONH2.dat",
	"OC3S":       "OC3S.dat",
	"OCS":        "OCS.dat",
}

// WithMolecule registers an extra molecule → file mapping, or
// overrides a stock one.
func WithMolecule(name, file string) func(*DirSource) {
	return func(s *DirSource) {
		s.files[name] = file
	}
}

// DirSource reads line lists from .dat files in a directory. It ships
// with the stock molecule → file table and is safe for concurrent use.
type DirSource struct {
	dir   string
	files map[string]string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string, options ...func(*DirSource)) *DirSource {
	s := DirSource{
		dir:   dir,
		files: make(map[string]string, len(defaultFiles)),
	}
	for name, file := range defaultFiles {
		s.files[name] = file
	}
	for _, option := range options {
		option(&s)
	}
	return &s
}

func (s *DirSource) Lines(ctx context.Context, molecule string, minFreq, maxFreq float64) (_ []spectrum.Line, err error) {
	path, err := s.resolve(molecule)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ftmw.NewDataError("opening line list '%s': %s", path, err)
	}
	defer closeWithError(f, &err)

	return ParseLines(f, filepath.Base(path), minFreq, maxFreq)
}

func (s *DirSource) Molecules(context.Context) ([]string, error) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirSource) Close() error {
	return nil
}

// resolve returns the line-list file path for a molecule.
func (s *DirSource) resolve(molecule string) (string, error) {
	file, ok := s.files[molecule]
	if !ok {
		return "", ftmw.NewDataError("no line list mapping for molecule '%s'", molecule)
	}
	return filepath.Join(s.dir, file), nil
}

// ParseLines reads a whitespace-separated two-column line list
// (frequency, intensity) and returns the entries within
// [minFreq, maxFreq]. Blank lines are skipped; anything else that is
// not two numeric columns is a DataError. The name is only used in
// error messages.
func ParseLines(r io.Reader, name string, minFreq, maxFreq float64) ([]spectrum.Line, error) {
	var lines []spectrum.Line

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, ftmw.NewDataError("%s:%d: expected two columns, got %d", name, n, len(fields))
		}

		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, ftmw.NewDataError("%s:%d: invalid frequency '%s'", name, n, fields[0])
		}
		intensity, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, ftmw.NewDataError("%s:%d: invalid intensity '%s'", name, n, fields[1])
		}
		if freq <= 0 {
			return nil, ftmw.NewDataError("%s:%d: frequency must be positive, got %g", name, n, freq)
		}

		if freq < minFreq || freq > maxFreq {
			continue
		}
		lines = append(lines, spectrum.Line{Frequency: freq, Intensity: intensity})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Frequency < lines[j].Frequency })
	return lines, nil
}
