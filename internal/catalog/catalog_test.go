package catalog

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/ftmw"
)

const ocsLines = `
12162.978   0.1420
24325.9218  0.2840
36488.8121  0.4260
48651.6040  0.5680
`

func writeLineList(t *testing.T, dir, file, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write line list: %v", err)
	}
}

func TestDirSource_Lines(t *testing.T) {
	dir := t.TempDir()
	writeLineList(t, dir, "OCS.dat", ocsLines)

	source := NewDirSource(dir)
	defer source.Close()

	lines, err := source.Lines(context.Background(), "OCS", 20000, 40000)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines in band, got %d", len(lines))
	}
	if lines[0].Frequency != 24325.9218 || lines[0].Intensity != 0.2840 {
		t.Errorf("Unexpected first line: %+v", lines[0])
	}
	if lines[1].Frequency != 36488.8121 {
		t.Errorf("Unexpected second line: %+v", lines[1])
	}
}

func TestDirSource_UnknownMolecule(t *testing.T) {
	source := NewDirSource(t.TempDir())

	_, err := source.Lines(context.Background(), "H2O", 0, math.Inf(1))
	var dataErr *ftmw.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError for unknown molecule, got %v", err)
	}
}

func TestDirSource_WithMolecule(t *testing.T) {
	dir := t.TempDir()
	writeLineList(t, dir, "custom.dat", "100.5 1.0\n")

	source := NewDirSource(dir, WithMolecule("HC3N", "custom.dat"))

	lines, err := source.Lines(context.Background(), "HC3N", 0, 1000)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Frequency != 100.5 {
		t.Fatalf("Unexpected lines: %+v", lines)
	}
}

func TestDirSource_Molecules(t *testing.T) {
	source := NewDirSource(t.TempDir())

	molecules, err := source.Molecules(context.Background())
	if err != nil {
		t.Fatalf("Molecules failed: %v", err)
	}
	if len(molecules) != 8 {
		t.Fatalf("Expected the 8 stock molecules, got %d", len(molecules))
	}
	for i := 1; i < len(molecules); i++ {
		if molecules[i] <= molecules[i-1] {
			t.Errorf("Molecules not sorted: %q before %q", molecules[i-1], molecules[i])
		}
	}
}

func TestParseLines_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"single column", "12162.978\n"},
		{"non-numeric frequency", "abc 0.5\n"},
		{"non-numeric intensity", "12162.978 xyz\n"},
		{"negative frequency", "-5.0 0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLines(strings.NewReader(tt.contents), "test.dat", 0, math.Inf(1))

			var dataErr *ftmw.DataError
			if !errors.As(err, &dataErr) {
				t.Fatalf("Expected DataError, got %v", err)
			}
		})
	}
}

func TestParseLines_SkipsBlankAndSorts(t *testing.T) {
	contents := "300 3\n\n100 1\n200 2\n"

	lines, err := ParseLines(strings.NewReader(contents), "test.dat", 0, math.Inf(1))
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	for i, want := range []float64{100, 200, 300} {
		if lines[i].Frequency != want {
			t.Errorf("Line %d: expected frequency %g, got %g", i, want, lines[i].Frequency)
		}
	}
}
