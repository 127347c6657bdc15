package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
)

// Columnas que Update nunca toca directamente.
var immutableColumns = map[string]struct{}{
	colID:        {},
	colCreatedAt: {},
	colUpdatedAt: {},
	colDeletedAt: {},
}

// BaseRepository CRUD + paginación + borrado lógico genérico sobre una tabla.
// No conoce reglas de autorización: eso es responsabilidad de los casos de uso.
type BaseRepository[T any] struct {
	q     Querier
	table *Table[T]
}

// NewBaseRepository construye el repositorio genérico. Pasar pool o tx (Querier).
func NewBaseRepository[T any](q Querier, table *Table[T]) *BaseRepository[T] {
	return &BaseRepository[T]{q: q, table: table}
}

// Create inserta la fila y devuelve lo persistido (incluye timestamps por defecto de la BD).
func (r *BaseRepository[T]) Create(ctx context.Context, e *T) (*T, error) {
	defer metrics.ObserveQuery(r.table.Name, "create")()

	values := r.table.Insert(e)
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = values[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table.Name, strings.Join(cols, ", "), placeholders(1, len(cols)), r.table.selectList())
	out, err := r.table.Scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("insert "+r.table.Name, err)
	}
	return out, nil
}

// FindByID busca por id excluyendo filas eliminadas. Devuelve (nil, nil) si no existe.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDIncludingDeleted igual que FindByID pero ve filas eliminadas lógicamente.
func (r *BaseRepository[T]) FindByIDIncludingDeleted(ctx context.Context, id string) (*T, error) {
	return r.findByID(ctx, id, true)
}

func (r *BaseRepository[T]) findByID(ctx context.Context, id string, includeDeleted bool) (*T, error) {
	defer metrics.ObserveQuery(r.table.Name, "find_by_id")()

	w := buildWhere(r.table, repository.Filters{colID: id}, includeDeleted)
	query := fmt.Sprintf("SELECT %s FROM %s%s", r.table.selectList(), r.table.Name, w)
	return r.one(ctx, "get "+r.table.Name, query, w.args...)
}

// FindAll página de filas que cumplen todos los filtros.
// total y data son dos consultas separadas, sin snapshot común.
func (r *BaseRepository[T]) FindAll(ctx context.Context, opts repository.FindOptions) (*repository.PaginatedResult[T], error) {
	w := buildWhere(r.table, opts.Filters, opts.IncludeDeleted)
	return r.findPage(ctx, w, opts)
}

// findPage cuenta y lee una página con un WHERE ya construido (lo usan también los repos de entidad).
func (r *BaseRepository[T]) findPage(ctx context.Context, w *whereClause, opts repository.FindOptions) (*repository.PaginatedResult[T], error) {
	defer metrics.ObserveQuery(r.table.Name, "find_all")()

	opts = opts.Normalize()
	total, err := r.count(ctx, w)
	if err != nil {
		return nil, err
	}

	n := w.next()
	query := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT $%d OFFSET $%d",
		r.table.selectList(), r.table.Name, w, orderBy(r.table, opts.SortBy, opts.SortOrder), n, n+1)
	args := append(append([]any{}, w.args...), opts.Limit, opts.Offset())
	data, err := r.many(ctx, "list "+r.table.Name, query, args...)
	if err != nil {
		return nil, err
	}
	return repository.NewPaginatedResult(data, total, opts), nil
}

// Update aplica changes y refresca updated_at sobre filas no eliminadas.
// Devuelve (nil, nil) si no hay fila que coincida.
func (r *BaseRepository[T]) Update(ctx context.Context, id string, changes repository.Changes) (*T, error) {
	defer metrics.ObserveQuery(r.table.Name, "update")()

	cols := make([]string, 0, len(changes))
	for k := range changes {
		c := columnName(k)
		if _, skip := immutableColumns[c]; skip || !r.table.HasColumn(c) {
			continue
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for _, k := range cols {
		args = append(args, changes[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", columnName(k), len(args)))
	}
	sets = append(sets, colUpdatedAt+" = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d AND %s IS NULL RETURNING %s",
		r.table.Name, strings.Join(sets, ", "), colID, len(args), colDeletedAt, r.table.selectList())
	return r.one(ctx, "update "+r.table.Name, query, args...)
}

// SoftDelete marca deleted_at sólo si la fila no estaba ya eliminada.
func (r *BaseRepository[T]) SoftDelete(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveQuery(r.table.Name, "soft_delete")()
	query := fmt.Sprintf("UPDATE %s SET %s = now(), %s = now() WHERE %s = $1 AND %s IS NULL",
		r.table.Name, colDeletedAt, colUpdatedAt, colID, colDeletedAt)
	return r.exec(ctx, "soft delete "+r.table.Name, query, id)
}

// Restore limpia deleted_at sólo si la fila está eliminada; sobre filas activas no hace nada.
func (r *BaseRepository[T]) Restore(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveQuery(r.table.Name, "restore")()
	query := fmt.Sprintf("UPDATE %s SET %s = NULL, %s = now() WHERE %s = $1 AND %s IS NOT NULL",
		r.table.Name, colDeletedAt, colUpdatedAt, colID, colDeletedAt)
	return r.exec(ctx, "restore "+r.table.Name, query, id)
}

// HardDelete borra físicamente la fila. Ningún caso de uso lo expone.
func (r *BaseRepository[T]) HardDelete(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveQuery(r.table.Name, "hard_delete")()
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.table.Name, colID)
	return r.exec(ctx, "delete "+r.table.Name, query, id)
}

// Count cuenta filas con el mismo WHERE que FindAll.
func (r *BaseRepository[T]) Count(ctx context.Context, opts repository.CountOptions) (int, error) {
	defer metrics.ObserveQuery(r.table.Name, "count")()
	return r.count(ctx, buildWhere(r.table, opts.Filters, opts.IncludeDeleted))
}

// Exists indica si hay una fila no eliminada con ese id.
func (r *BaseRepository[T]) Exists(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveQuery(r.table.Name, "exists")()

	w := buildWhere(r.table, repository.Filters{colID: id}, false)
	var ok bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s%s)", r.table.Name, w)
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&ok); err != nil {
		return false, mapError("exists "+r.table.Name, err)
	}
	return ok, nil
}

func (r *BaseRepository[T]) count(ctx context.Context, w *whereClause) (int, error) {
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.table.Name, w)
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		return 0, mapError("count "+r.table.Name, err)
	}
	return total, nil
}

func (r *BaseRepository[T]) one(ctx context.Context, op, query string, args ...any) (*T, error) {
	out, err := r.table.Scan(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return out, nil
}

func (r *BaseRepository[T]) many(ctx context.Context, op, query string, args ...any) ([]*T, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	list := make([]*T, 0)
	for rows.Next() {
		e, err := r.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table.Name, err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return list, nil
}

func (r *BaseRepository[T]) exec(ctx context.Context, op, query string, args ...any) (bool, error) {
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(op, err)
	}
	return cmd.RowsAffected() > 0, nil
}
