// Package cache keeps a local SQLite snapshot of exported source files.
//
// Each source file is stored with the SHA256 of its contents. Importing a
// directory only re-decodes files whose checksum changed since the last
// import, and drops files that disappeared from the directory.
package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/citizenwiki/locmerge/pkg/errors"
	"github.com/citizenwiki/locmerge/pkg/internal/hashutil"
	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/citizenwiki/locmerge/pkg/reconcile"
	"github.com/citizenwiki/locmerge/pkg/sources"
	"github.com/spf13/afero"
)

// Store manages the source snapshot backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ImportReport describes what a directory import changed
type ImportReport struct {
	Imported  []string
	Unchanged []string
	Removed   []string
	Records   int
}

// Status summarizes the cache contents
type Status struct {
	Path       string
	Files      int
	Records    int
	LastImport time.Time
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create cache directory for %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCache, "cannot open cache database %s", path)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, errors.Wrapf(execErr, errors.ErrCache, "apply pragma %q", pragma)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		if errors.IsErrorCode(err, errors.ErrCache) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCache, "cannot initialize cache schema")
	}

	logger := logging.GetLogger("cache")
	logger.Debug().Str("path", path).Msg("Cache opened")
	return store, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ImportDir snapshots every source file below dir. Files whose checksum
// matches the stored one are left alone.
func (s *Store) ImportDir(ctx context.Context, fsys afero.Fs, dir string) (*ImportReport, error) {
	logger := logging.GetLogger("cache")
	done := logging.LogOperationStart(logger.With().Str("dir", dir).Logger(), "import sources")
	defer done()

	names, err := sources.List(fsys, dir)
	if err != nil {
		return nil, err
	}

	known, err := s.fileHashes(ctx)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[name] = true

		data, err := afero.ReadFile(fsys, filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceLoad, "cannot read source %s", name)
		}
		hash := hashutil.Checksum(data)
		if known[name] == hash {
			logger.Debug().Str("file", name).Msg("Cache hit")
			report.Unchanged = append(report.Unchanged, name)
			continue
		}

		src, err := sources.Decode(name, data)
		if err != nil {
			return nil, err
		}
		if err := s.replaceFile(ctx, src, hash); err != nil {
			return nil, err
		}
		logger.Info().Str("file", name).Int("records", len(src.Records)).Msg("Source imported")
		report.Imported = append(report.Imported, name)
		report.Records += len(src.Records)
	}

	for name := range known {
		if seen[name] {
			continue
		}
		if err := s.removeFile(ctx, name); err != nil {
			return nil, err
		}
		logger.Info().Str("file", name).Msg("Source removed from cache")
		report.Removed = append(report.Removed, name)
	}

	return report, nil
}

// Sources returns the cached files in name order, records in file order
func (s *Store) Sources(ctx context.Context) ([]reconcile.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT f.name, f.folder, r.id, r.record_key, r.original, r.translation, r.stage, r.context
        FROM source_files f
        LEFT JOIN records r ON r.file = f.name
        ORDER BY f.name, r.position`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCache, "cannot query cached sources")
	}
	defer func() { _ = rows.Close() }()

	var out []reconcile.Source
	for rows.Next() {
		var (
			name, folder                          string
			id, stage                             sql.NullInt64
			key, original, translation, recordCtx sql.NullString
		)
		if err := rows.Scan(&name, &folder, &id, &key, &original, &translation, &stage, &recordCtx); err != nil {
			return nil, errors.Wrap(err, errors.ErrCache, "cannot scan cached record")
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, reconcile.Source{Name: name, Folder: folder})
		}
		if !key.Valid {
			continue
		}
		last := &out[len(out)-1]
		last.Records = append(last.Records, reconcile.Record{
			ID:          id.Int64,
			Key:         key.String,
			Original:    original.String,
			Translation: translation.String,
			Stage:       int(stage.Int64),
			Context:     recordCtx.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCache, "cannot iterate cached records")
	}
	return out, nil
}

// Status reports file and record counts
func (s *Store) Status(ctx context.Context) (Status, error) {
	st := Status{Path: s.path}
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(record_count), 0), MAX(imported_at) FROM source_files",
	).Scan(&st.Files, &st.Records, &last)
	if err != nil {
		return st, errors.Wrap(err, errors.ErrCache, "cannot read cache status")
	}
	if last.Valid {
		if ts, parseErr := time.Parse(time.RFC3339Nano, last.String); parseErr == nil {
			st.LastImport = ts
		}
	}
	return st, nil
}

func (s *Store) fileHashes(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, hash FROM source_files")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCache, "cannot query cached files")
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var name, hash string
		if err := rows.Scan(&name, &hash); err != nil {
			return nil, errors.Wrap(err, errors.ErrCache, "cannot scan cached file")
		}
		out[name] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCache, "cannot iterate cached files")
	}
	return out, nil
}

func (s *Store) replaceFile(ctx context.Context, src reconcile.Source, hash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCache, "cannot begin import")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE file = ?", src.Name); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot clear cached records of %s", src.Name)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM source_files WHERE name = ?", src.Name); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot clear cached source %s", src.Name)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO source_files (name, folder, hash, record_count, imported_at) VALUES (?, ?, ?, ?, ?)`,
		src.Name, src.Folder, hash, len(src.Records), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot record cached source %s", src.Name)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (file, position, id, record_key, original, translation, stage, context)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, errors.ErrCache, "cannot prepare record insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range src.Records {
		if _, err := stmt.ExecContext(ctx, src.Name, i, rec.ID, rec.Key, rec.Original, rec.Translation, rec.Stage, rec.Context); err != nil {
			return errors.Wrapf(err, errors.ErrCache, "cannot insert record %s", rec.Key)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot commit cached source %s", src.Name)
	}
	return nil
}

func (s *Store) removeFile(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCache, "cannot begin removal")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE file = ?", name); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot remove cached records of %s", name)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM source_files WHERE name = ?", name); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot remove cached source %s", name)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, errors.ErrCache, "cannot commit removal of %s", name)
	}
	return nil
}
