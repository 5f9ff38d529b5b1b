package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zyvora/zyvora/internal/student"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is the swap-in Store backend for deployments that want profiles
// to survive restarts.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the profile database in dataDir and runs
// pending migrations. Pass ":memory:" as dataDir for an in-memory database
// (used by tests).
func OpenSQLite(dataDir string) (*SQLite, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "zyvora.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parsing migration version from %q: %w", entry.Name(), err)
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, userID string) (student.Profile, error) {
	var p student.Profile
	var policyJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, proficiency, policy, language
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Proficiency, &policyJSON, &p.Language)
	if err == sql.ErrNoRows {
		return student.Profile{}, ErrNotFound
	}
	if err != nil {
		return student.Profile{}, err
	}
	if err := json.Unmarshal([]byte(policyJSON), &p.Policy); err != nil {
		return student.Profile{}, fmt.Errorf("parsing stored policy: %w", err)
	}
	return p, nil
}

func (s *SQLite) Put(ctx context.Context, p student.Profile) error {
	policyJSON, err := json.Marshal(p.Policy)
	if err != nil {
		return fmt.Errorf("marshalling policy: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, proficiency, policy, language, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			proficiency = excluded.proficiency,
			policy = excluded.policy,
			language = excluded.language,
			updated_at = excluded.updated_at`,
		p.UserID, p.Proficiency, string(policyJSON), p.Language,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLite) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	return err
}

func (s *SQLite) List(ctx context.Context) ([]student.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, proficiency, policy, language FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []student.Profile
	for rows.Next() {
		var p student.Profile
		var policyJSON string
		if err := rows.Scan(&p.UserID, &p.Proficiency, &policyJSON, &p.Language); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(policyJSON), &p.Policy); err != nil {
			return nil, fmt.Errorf("parsing stored policy: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
