// Package migrate applies ordered SQL migration files with an
// applied-migrations ledger so each file runs exactly once.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/starford/pinboard/internal/checksum"
)

const ledgerSQL = `
CREATE TABLE IF NOT EXISTS migrations (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	checksum TEXT NOT NULL DEFAULT '',
	runAt    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// timestampsMigration predates the bootstrap schema carrying timestamp
// columns. When the columns already exist its body is skipped but the
// ledger entry is still written, so partially provisioned databases
// converge without re-running the ALTERs.
const timestampsMigration = "003_add_timestamps_to_boards_and_notes.sql"

// Run ensures the ledger table exists and applies every pending .sql file
// in dir, in lexical order, each inside its own transaction. Any failure
// aborts the run; the caller must treat that as fatal and not serve
// traffic on a partially migrated schema. An empty dir disables the file
// phase, leaving only the ledger bootstrap.
func Run(ctx context.Context, db *sqlx.DB, dir string, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, ledgerSQL); err != nil {
		return fmt.Errorf("migrate: create ledger: %w", err)
	}
	if dir == "" {
		return nil
	}

	applied, err := appliedSet(ctx, db)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrate: read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if _, ok := applied[name]; ok {
			logger.Debug("migration already applied", slog.String("name", name))
			continue
		}
		if err := apply(ctx, db, dir, name, logger); err != nil {
			return err
		}
	}
	return nil
}

func appliedSet(ctx context.Context, db *sqlx.DB) (map[string]struct{}, error) {
	var names []string
	if err := db.SelectContext(ctx, &names, `SELECT name FROM migrations`); err != nil {
		return nil, fmt.Errorf("migrate: read ledger: %w", err)
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out, nil
}

func apply(ctx context.Context, db *sqlx.DB, dir, name string, logger *slog.Logger) error {
	body, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("migrate: read %s: %w", name, err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin %s: %w", name, err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	skip := false
	if name == timestampsMigration {
		skip, err = hasTimestampColumns(ctx, tx)
		if err != nil {
			return fmt.Errorf("migrate: inspect columns for %s: %w", name, err)
		}
	}

	if skip {
		logger.Warn("skipping migration, columns already exist", slog.String("name", name))
	} else {
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("migrate: apply %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO migrations (name, checksum) VALUES (?, ?)`,
		name, checksum.Sum(body)); err != nil {
		return fmt.Errorf("migrate: record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit %s: %w", name, err)
	}
	logger.Info("migration applied", slog.String("name", name), slog.Bool("skipped", skip))
	return nil
}

// hasTimestampColumns reports whether boards and notes both already carry
// createdAt and updatedAt.
func hasTimestampColumns(ctx context.Context, tx *sqlx.Tx) (bool, error) {
	for _, table := range []string{"boards", "notes"} {
		var cols []string
		if err := tx.SelectContext(ctx, &cols,
			`SELECT name FROM pragma_table_info(?)`, table); err != nil {
			return false, err
		}
		have := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			have[c] = struct{}{}
		}
		if _, ok := have["createdAt"]; !ok {
			return false, nil
		}
		if _, ok := have["updatedAt"]; !ok {
			return false, nil
		}
	}
	return true, nil
}
