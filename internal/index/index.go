// Package index maintains the on-disk SQLite backlink index.
//
// The index is an advisory cache: every answer it gives can be recomputed by
// re-scanning the project, so a stale or missing index is never fatal.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/paths"
)

// Dir is the project-local directory holding the index database.
const Dir = ".relink"

const schemaVersion = 1

// Database is the SQLite index handle for one project root.
type Database struct {
	db   *sql.DB
	root string
}

// Open opens or creates the index database under root. An existing database
// with an incompatible schema is discarded and recreated.
func Open(root string) (*Database, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	dbDir := filepath.Join(absRoot, Dir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", Dir, err)
	}

	dbPath := filepath.Join(dbDir, "index.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	d := &Database{db: db, root: absRoot}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize() error {
	if _, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_info (
			version INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS files (
			path       TEXT PRIMARY KEY,
			indexed_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS links (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			kind   TEXT NOT NULL,
			href   TEXT NOT NULL,
			line   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
		CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := d.db.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err = d.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		if _, err := d.db.Exec(`
			DELETE FROM files;
			DELETE FROM links;
			UPDATE schema_info SET version = ?;
		`, schemaVersion); err != nil {
			return fmt.Errorf("reset incompatible schema: %w", err)
		}
	}
	return nil
}

// Rebuild replaces the whole index with the given parsed files. Paths are
// stored root-relative with forward slashes. Only links with a filesystem
// target become rows.
func (d *Database) Rebuild(files []*model.ParsedFile) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM files`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	insertFile, err := tx.Prepare(`INSERT INTO files (path, indexed_at) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer insertFile.Close()
	insertLink, err := tx.Prepare(`INSERT INTO links (source, target, kind, href, line) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertLink.Close()

	for _, f := range files {
		source := d.relative(f.Path)
		if _, err := insertFile.Exec(source, now); err != nil {
			return err
		}
		for _, l := range f.Links {
			if !l.Kind.HasFileTarget() || l.ResolvedPath == "" {
				continue
			}
			if _, err := insertLink.Exec(source, d.relative(l.ResolvedPath), string(l.Kind), l.Href, l.Line); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Backlink is one indexed link pointing at a target file.
type Backlink struct {
	Source string `json:"source"`
	Href   string `json:"href"`
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
}

// Backlinks returns every indexed link whose target is the given file,
// ordered by source path then line. The target may be absolute or
// root-relative.
func (d *Database) Backlinks(target string) ([]Backlink, error) {
	rows, err := d.db.Query(`
		SELECT source, href, kind, line
		FROM links
		WHERE target = ?
		ORDER BY source ASC, line ASC
	`, d.relative(target))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Backlink
	for rows.Next() {
		var b Backlink
		if err := rows.Scan(&b.Source, &b.Href, &b.Kind, &b.Line); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ApplyMove updates every row referencing oldPath to newPath, keeping the
// index consistent after a committed move without a full rebuild. Hrefs are
// not updated; they are display data and the next rebuild refreshes them.
func (d *Database) ApplyMove(oldPath, newPath string) error {
	oldRel := d.relative(oldPath)
	newRel := d.relative(newPath)

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE files SET path = ? WHERE path = ?`, newRel, oldRel); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE links SET source = ? WHERE source = ?`, newRel, oldRel); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE links SET target = ? WHERE target = ?`, newRel, oldRel); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats reports the number of indexed files and links.
func (d *Database) Stats() (files, links int, err error) {
	if err = d.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return 0, 0, err
	}
	if err = d.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&links); err != nil {
		return 0, 0, err
	}
	return files, links, nil
}

func (d *Database) relative(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := paths.Relative(d.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}
