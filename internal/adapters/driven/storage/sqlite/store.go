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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docmunch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed repository catalogue.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.CatalogStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docmunch/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docmunch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency
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
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
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

// Upsert stores or replaces a repository's catalogue entry.
func (s *Store) Upsert(ctx context.Context, entry domain.RepoSummary) error {
	if entry.Owner == "" || entry.Name == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repositories (owner, name, indexed_at, index_version, commit_hash, file_count, section_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, name) DO UPDATE SET
			indexed_at = excluded.indexed_at,
			index_version = excluded.index_version,
			commit_hash = excluded.commit_hash,
			file_count = excluded.file_count,
			section_count = excluded.section_count
	`, entry.Owner, entry.Name, entry.IndexedAt.UTC(), entry.IndexVersion,
		entry.CommitHash, entry.FileCount, entry.SectionCount)

	if err != nil {
		return fmt.Errorf("saving catalogue entry: %w", err)
	}
	return nil
}

// Get retrieves one repository's catalogue entry.
func (s *Store) Get(ctx context.Context, ref domain.RepoRef) (*domain.RepoSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT owner, name, indexed_at, index_version, commit_hash, file_count, section_count
		FROM repositories WHERE owner = ? AND name = ?
	`, ref.Owner, ref.Name)

	entry, err := scanRepoSummary(row)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all catalogue entries, most recently indexed first.
func (s *Store) List(ctx context.Context) ([]domain.RepoSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, name, indexed_at, index_version, commit_hash, file_count, section_count
		FROM repositories
		ORDER BY indexed_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying repositories: %w", err)
	}
	defer rows.Close()

	var entries []domain.RepoSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.RepoSummary
		var indexedAt sql.NullTime
		if err := rows.Scan(&e.Owner, &e.Name, &indexedAt, &e.IndexVersion,
			&e.CommitHash, &e.FileCount, &e.SectionCount); err != nil {
			return nil, fmt.Errorf("scanning repository: %w", err)
		}
		if indexedAt.Valid {
			e.IndexedAt = indexedAt.Time.UTC()
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating repositories: %w", err)
	}

	return entries, nil
}

// Delete removes a repository's catalogue entry.
func (s *Store) Delete(ctx context.Context, ref domain.RepoRef) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM repositories WHERE owner = ? AND name = ?",
		ref.Owner, ref.Name)
	if err != nil {
		return fmt.Errorf("deleting catalogue entry: %w", err)
	}
	return nil
}

// scanRepoSummary scans a single catalogue row.
func scanRepoSummary(row *sql.Row) (*domain.RepoSummary, error) {
	var e domain.RepoSummary
	var indexedAt sql.NullTime
	if err := row.Scan(&e.Owner, &e.Name, &indexedAt, &e.IndexVersion,
		&e.CommitHash, &e.FileCount, &e.SectionCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning repository: %w", err)
	}
	if indexedAt.Valid {
		e.IndexedAt = indexedAt.Time.UTC()
	}
	return &e, nil
}
