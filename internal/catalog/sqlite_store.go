package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/ftmw"
	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

// SqliteStore is a line catalog backed by a sqlite database. Imports
// go through a WAL write connection, queries through a separate
// read-only connection; both are opened lazily.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store for the database at dbPath. The
// schema is created on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// Import loads a two-column line list for a molecule into the store,
// replacing any previously imported lines. The name is recorded as
// the source file and used in parse errors. It returns the number of
// imported lines.
func (s *SqliteStore) Import(ctx context.Context, molecule, name string, r io.Reader) (n int, err error) {
	lines, err := ParseLines(r, name, math.Inf(-1), math.Inf(1))
	if err != nil {
		return 0, err
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}

	if err = importTx(ctx, tx, molecule, name, lines); err != nil {
		rollbackWithError(tx, &err)
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(lines), nil
}

// ImportFile imports the line list at path under the given molecule
// name.
func (s *SqliteStore) ImportFile(ctx context.Context, molecule, path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ftmw.NewDataError("opening line list '%s': %s", path, err)
	}
	defer closeWithError(f, &err)

	return s.Import(ctx, molecule, filepath.Base(path), f)
}

func importTx(ctx context.Context, tx *sql.Tx, molecule, name string, lines []spectrum.Line) error {
	if _, err := tx.ExecContext(ctx, upsertMoleculeSQL, molecule, name); err != nil {
		return fmt.Errorf("upserting molecule: %w", err)
	}

	var moleculeID int64
	if err := tx.QueryRowContext(ctx, selectMoleculeIDSQL, molecule).Scan(&moleculeID); err != nil {
		return fmt.Errorf("resolving molecule id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteLinesSQL, moleculeID); err != nil {
		return fmt.Errorf("clearing previous lines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertLineSQL)
	if err != nil {
		return fmt.Errorf("preparing line insert: %w", err)
	}
	defer stmt.Close()

	for _, line := range lines {
		if _, err = stmt.ExecContext(ctx, moleculeID, line.Frequency, line.Intensity); err != nil {
			return fmt.Errorf("inserting line at %g MHz: %w", line.Frequency, err)
		}
	}
	return nil
}

func (s *SqliteStore) Lines(ctx context.Context, molecule string, minFreq, maxFreq float64) (_ []spectrum.Line, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	var moleculeID int64
	if err = db.QueryRowContext(ctx, selectMoleculeIDSQL, molecule).Scan(&moleculeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ftmw.NewDataError("no line list imported for molecule '%s'", molecule)
		}
		return nil, fmt.Errorf("resolving molecule: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectLinesSQL, molecule, minFreq, maxFreq)
	if err != nil {
		return nil, fmt.Errorf("querying lines: %w", err)
	}
	defer closeWithError(rows, &err)

	var lines []spectrum.Line
	for rows.Next() {
		var line spectrum.Line
		if err = rows.Scan(&line.Frequency, &line.Intensity); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

func (s *SqliteStore) Molecules(ctx context.Context) (_ []string, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectMoleculesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying molecules: %w", err)
	}
	defer closeWithError(rows, &err)

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning molecule: %w", err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading molecules: %w", err)
	}
	return names, nil
}

// Close releases both database connections. It is safe to call
// multiple times.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			closeWithError(s.writeDB, &s.closeErr)
		}
		if s.readDB != nil {
			closeWithError(s.readDB, &s.closeErr)
		}
	})
	return s.closeErr
}
