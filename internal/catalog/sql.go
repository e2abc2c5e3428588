package catalog

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS molecules (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    source_file TEXT,
    imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lines (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    molecule_id INTEGER NOT NULL REFERENCES molecules (id) ON DELETE CASCADE,
    frequency   REAL NOT NULL,
    intensity   REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_molecule_frequency
    ON lines (molecule_id, frequency);
`

const (
	upsertMoleculeSQL = `
INSERT INTO molecules (name,
                       source_file,
                       imported_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (name) DO UPDATE SET source_file = excluded.source_file,
                                 imported_at = excluded.imported_at`

	selectMoleculeIDSQL = `
SELECT
    id
FROM molecules
WHERE
    name = ?`

	selectMoleculesSQL = `
SELECT
    name
FROM molecules
ORDER BY name`

	deleteLinesSQL = `
DELETE FROM lines
WHERE
    molecule_id = ?`

	insertLineSQL = `
INSERT INTO lines (molecule_id,
                   frequency,
                   intensity)
VALUES (?, ?, ?)`

	selectLinesSQL = `
SELECT
    l.frequency,
    l.intensity
FROM lines l
         JOIN molecules m ON m.id = l.molecule_id
WHERE
    m.name = ?
    AND l.frequency BETWEEN ? AND ?
ORDER BY l.frequency`
)
