// Command migrate applies the SQL files under migrations/ in lexical order.
// Applied versions are tracked in schema_migrations so reruns are no-ops.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shipflow/internal/infra/db"
	"shipflow/internal/pkg/config"
	"shipflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var dbCfg config.DBConfig
	if err := envconfig.Process("", &dbCfg); err != nil {
		logger.Error("failed to process env config", "error", err)
		os.Exit(1)
	}

	pool, cleanup, err := db.Connect(dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	applied, err := run(ctx, pool, *dir, logger)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete", "applied", applied)
}

func run(ctx context.Context, pool *pgxpool.Pool, dir string, logger *slog.Logger) (int, error) {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return 0, errs.Wrap(err, "failed to ensure schema_migrations table")
	}

	versions, err := pendingVersions(ctx, pool, dir)
	if err != nil {
		return 0, err
	}

	for _, version := range versions {
		sql, err := os.ReadFile(filepath.Join(dir, version))
		if err != nil {
			return 0, errs.Wrap(err, "failed to read migration file")
		}
		if err := apply(ctx, pool, version, string(sql)); err != nil {
			return 0, errs.Wrap(err, "failed to apply "+version)
		}
		logger.Info("applied migration", "version", version)
	}
	return len(versions), nil
}

func pendingVersions(ctx context.Context, pool *pgxpool.Pool, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read migrations directory")
	}

	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load applied versions")
	}
	defer rows.Close()

	done := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errs.Wrap(err, "failed to scan applied version")
		}
		done[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate applied versions")
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if _, ok := done[name]; ok {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)
	return pending, nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, version, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, sql); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return errs.Wrap(err, "failed to record migration")
	}
	return tx.Commit(ctx)
}
