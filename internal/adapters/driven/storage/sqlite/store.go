package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/chatsift/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
)

// Store is a SQLite-based storage exposing store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.chatsift/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chatsift", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode so a watcher and a CLI can share it
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ArchiveStore returns an ArchiveStore interface backed by this store.
func (s *Store) ArchiveStore() driven.ArchiveStore {
	return &archiveStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_archives.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Archive Store ====================

// archiveStore implements driven.ArchiveStore.
type archiveStore struct {
	store *Store
}

var _ driven.ArchiveStore = (*archiveStore)(nil)

// Record saves a load record.
func (s *archiveStore) Record(ctx context.Context, rec domain.ArchiveRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}
	if rec.LoadedAt.IsZero() {
		rec.LoadedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO archives (id, path, checksum, conversations, dropped, media_files, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			checksum = excluded.checksum,
			conversations = excluded.conversations,
			dropped = excluded.dropped,
			media_files = excluded.media_files,
			loaded_at = excluded.loaded_at
	`, rec.ID, rec.Path, rec.Checksum, rec.Conversations, rec.Dropped, rec.MediaFiles, rec.LoadedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving archive record: %w", err)
	}
	return nil
}

// List returns all records, newest first.
func (s *archiveStore) List(ctx context.Context) ([]domain.ArchiveRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, path, checksum, conversations, dropped, media_files, loaded_at
		FROM archives ORDER BY loaded_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying archives: %w", err)
	}
	defer rows.Close()

	var records []domain.ArchiveRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archives: %w", err)
	}

	return records, nil
}

// Latest returns the most recent record.
func (s *archiveStore) Latest(ctx context.Context) (*domain.ArchiveRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, path, checksum, conversations, dropped, media_files, loaded_at
		FROM archives ORDER BY loaded_at DESC, rowid DESC LIMIT 1
	`)
	return scanArchive(row)
}

// Close closes the underlying store.
func (s *archiveStore) Close() error {
	return s.store.Close()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchive(row rowScanner) (*domain.ArchiveRecord, error) {
	var rec domain.ArchiveRecord
	var loadedAt sql.NullTime
	if err := row.Scan(&rec.ID, &rec.Path, &rec.Checksum,
		&rec.Conversations, &rec.Dropped, &rec.MediaFiles, &loadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning archive: %w", err)
	}
	if loadedAt.Valid {
		rec.LoadedAt = loadedAt.Time
	}
	return &rec, nil
}
