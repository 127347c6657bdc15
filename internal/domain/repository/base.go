package repository

import (
	"context"
	"math"
)

// Valores por defecto de paginación.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "created_at"
	DefaultSortOrder = SortDesc
)

// SortOrder dirección de ordenamiento.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filters condiciones de igualdad por columna. Valores nil se ignoran.
type Filters map[string]any

// Changes columnas a actualizar y su nuevo valor.
type Changes map[string]any

// FindOptions parámetros de FindAll.
type FindOptions struct {
	Page           int
	Limit          int
	SortBy         string
	SortOrder      SortOrder
	IncludeDeleted bool
	Filters        Filters
}

// Normalize aplica los valores por defecto.
func (o FindOptions) Normalize() FindOptions {
	if o.Page <= 0 {
		o.Page = DefaultPage
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.SortBy == "" {
		o.SortBy = DefaultSortBy
	}
	if o.SortOrder != SortAsc && o.SortOrder != SortDesc {
		o.SortOrder = DefaultSortOrder
	}
	return o
}

// Offset desplazamiento de la página: max(0, (page-1)*limit).
func (o FindOptions) Offset() int {
	off := (o.Page - 1) * o.Limit
	if off < 0 {
		return 0
	}
	return off
}

// CountOptions parámetros de Count.
type CountOptions struct {
	IncludeDeleted bool
	Filters        Filters
}

// PaginatedResult sobre de una página de resultados.
type PaginatedResult[T any] struct {
	Data       []*T `json:"data"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
}

// TotalPages max(1, ceil(total/limit)).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		return 1
	}
	return pages
}

// NewPaginatedResult construye el sobre a partir de la página ya leída.
func NewPaginatedResult[T any](data []*T, total int, opts FindOptions) *PaginatedResult[T] {
	if data == nil {
		data = []*T{}
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: TotalPages(total, opts.Limit),
	}
}

// Base CRUD + paginación + borrado lógico sobre una tabla. No sabe nada de autorización.
type Base[T any] interface {
	Create(ctx context.Context, e *T) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindByIDIncludingDeleted(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context, opts FindOptions) (*PaginatedResult[T], error)
	Update(ctx context.Context, id string, changes Changes) (*T, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	Restore(ctx context.Context, id string) (bool, error)
	HardDelete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, opts CountOptions) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}
