package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	upSuffix   = "_up.sql"
	downSuffix = "_down.sql"
)

// Migrate aplica en orden los *_up.sql de fsys que aún no figuran en schema_migrations.
// Cada archivo corre en su propia transacción. Devuelve las versiones aplicadas.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) ([]string, error) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT now())`); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}
	files, err := listSQL(fsys, upSuffix)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range files {
		version := strings.TrimSuffix(name, upSuffix)
		var done bool
		if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&done); err != nil {
			return applied, fmt.Errorf("consultar versión %s: %w", version, err)
		}
		if done {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("leer %s: %w", name, err)
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			return applied, fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(ctx, string(body)); err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("aplicar %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING`, version); err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("registrar %s: %w", version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return applied, fmt.Errorf("commit %s: %w", name, err)
		}
		applied = append(applied, version)
	}
	return applied, nil
}

// MigrateDown revierte las últimas steps migraciones (todas si steps <= 0), en orden inverso.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, steps int) ([]string, error) {
	files, err := listSQL(fsys, downSuffix)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	var reverted []string
	for _, name := range files {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return reverted, fmt.Errorf("leer %s: %w", name, err)
		}
		version := strings.TrimSuffix(name, downSuffix)
		if _, err := pool.Exec(ctx, string(body)); err != nil {
			return reverted, fmt.Errorf("revertir %s: %w", name, err)
		}
		// La migración inicial borra schema_migrations; las demás sólo quitan su versión.
		if _, err := pool.Exec(ctx, `DO $$ BEGIN
			IF to_regclass('schema_migrations') IS NOT NULL THEN
				DELETE FROM schema_migrations WHERE version = '`+strings.ReplaceAll(version, "'", "''")+`';
			END IF;
		END $$`); err != nil {
			return reverted, fmt.Errorf("desregistrar %s: %w", version, err)
		}
		reverted = append(reverted, version)
	}
	return reverted, nil
}

func listSQL(fsys fs.FS, suffix string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
