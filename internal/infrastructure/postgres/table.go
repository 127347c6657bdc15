package postgres

import (
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
)

// Columnas comunes a todas las tablas.
const (
	colID        = "id"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
	colDeletedAt = "deleted_at"
)

// Table describe una tabla para el repositorio genérico.
// Columns define el orden de SELECT/RETURNING y debe coincidir con Scan.
type Table[T any] struct {
	Name    string
	Columns []string
	Scan    func(row pgx.Row) (*T, error)
	// Insert devuelve las columnas explícitas del INSERT; los timestamps los pone la BD.
	Insert func(e *T) map[string]any

	index map[string]struct{}
}

// NewTable construye el descriptor e indexa sus columnas.
func NewTable[T any](name string, columns []string, scan func(pgx.Row) (*T, error), insert func(*T) map[string]any) *Table[T] {
	index := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		index[c] = struct{}{}
	}
	return &Table[T]{Name: name, Columns: columns, Scan: scan, Insert: insert, index: index}
}

// HasColumn indica si name (snake_case o camelCase) es una columna real.
func (t *Table[T]) HasColumn(name string) bool {
	_, ok := t.index[columnName(name)]
	return ok
}

func (t *Table[T]) selectList() string {
	return strings.Join(t.Columns, ", ")
}

// columnName normaliza "createdAt" → "created_at"; los nombres ya en snake_case no cambian.
func columnName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
