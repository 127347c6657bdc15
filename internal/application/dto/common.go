package dto

import (
	"strings"

	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// MaxLimit tope de elementos por página.
const MaxLimit = 100

// ListQuery paginación y orden para listados (query string).
type ListQuery struct {
	Page           int    `query:"page"`
	Limit          int    `query:"limit"`
	SortBy         string `query:"sortBy"`
	SortOrder      string `query:"sortOrder"`
	IncludeDeleted bool   `query:"includeDeleted"`
}

// FindOptions valida el orden contra sortable (columnas en snake_case) y devuelve las opciones
// del repositorio. sortBy acepta "createdAt" o "created_at"; una clave fuera de la lista es error.
func (q ListQuery) FindOptions(sortable []string, filters repository.Filters) (repository.FindOptions, error) {
	opts := repository.FindOptions{
		Page:           q.Page,
		Limit:          q.Limit,
		IncludeDeleted: q.IncludeDeleted,
		Filters:        filters,
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}

	switch strings.ToLower(q.SortOrder) {
	case "":
	case string(repository.SortAsc):
		opts.SortOrder = repository.SortAsc
	case string(repository.SortDesc):
		opts.SortOrder = repository.SortDesc
	default:
		return opts, domain.NewValidationError("Invalid sortOrder %q", q.SortOrder)
	}

	if q.SortBy != "" {
		col, ok := matchSortKey(q.SortBy, sortable)
		if !ok {
			return opts, domain.NewValidationError("Cannot sort by %q", q.SortBy).
				WithDetails(map[string]any{"allowed": sortable})
		}
		opts.SortBy = col
	}
	return opts.Normalize(), nil
}

// Columnas por las que se puede ordenar cualquier entidad.
var baseSortable = []string{"created_at", "updated_at"}

func sortKeys(extra ...string) []string {
	return append(append([]string{}, baseSortable...), extra...)
}

func matchSortKey(key string, allowed []string) (string, bool) {
	k := foldKey(key)
	for _, col := range allowed {
		if foldKey(col) == k {
			return col, true
		}
	}
	return "", false
}

// foldKey "createdAt" y "created_at" → "createdat".
func foldKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// putString agrega key solo si s no está vacío.
func putString(f repository.Filters, key, s string) {
	if s = strings.TrimSpace(s); s != "" {
		f[key] = s
	}
}

// Page lista paginada ya convertida a DTOs de salida.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPage convierte un resultado del repositorio con la función de salida de la entidad.
func NewPage[E, T any](r *repository.PaginatedResult[E], conv func(*E) T) *Page[T] {
	out := &Page[T]{Data: make([]T, 0, len(r.Data)), Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}
	for _, e := range r.Data {
		out.Data = append(out.Data, conv(e))
	}
	return out
}

// ErrorBody detalle estable del error.
type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: { success:false, message, error:{ code, details? } }.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
	Stack   string    `json:"stack,omitempty"`
}

// MessageResponse respuesta simple para operaciones sin cuerpo (delete, restore).
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
