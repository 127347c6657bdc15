package postgres

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// whereClause acumula condiciones conjuntivas con placeholders $n.
type whereClause struct {
	conds []string
	args  []any
}

// add agrega una condición con un argumento; format lleva un %d para el número de placeholder.
func (w *whereClause) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

func (w *whereClause) raw(cond string) {
	w.conds = append(w.conds, cond)
}

// next número del siguiente placeholder libre.
func (w *whereClause) next() int {
	return len(w.args) + 1
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// buildWhere arma el WHERE de igualdad exacta a partir de los filtros.
// Ignora valores nil y claves que no son columnas de la tabla.
func buildWhere[T any](t *Table[T], filters repository.Filters, includeDeleted bool) *whereClause {
	w := &whereClause{}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := filters[k]
		if isNil(v) || !t.HasColumn(k) {
			continue
		}
		w.add(columnName(k)+" = $%d", deref(v))
	}
	if !includeDeleted {
		w.raw(colDeletedAt + " IS NULL")
	}
	return w
}

// orderBy devuelve la cláusula ORDER BY; si sortBy no es una columna usa created_at DESC.
func orderBy[T any](t *Table[T], sortBy string, order repository.SortOrder) string {
	col := columnName(sortBy)
	if sortBy == "" || !t.HasColumn(col) {
		return " ORDER BY " + colCreatedAt + " DESC, " + colID + " DESC"
	}
	dir := "DESC"
	if order == repository.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, colID, dir)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// deref desreferencia punteros para que el driver reciba el valor plano.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Interface()
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// addShared agrega una condición que reutiliza el mismo argumento varias veces ($n repetido).
func (w *whereClause) addShared(format string, arg any) {
	w.args = append(w.args, arg)
	n := strconv.Itoa(len(w.args))
	w.conds = append(w.conds, strings.ReplaceAll(format, "$?", "$"+n))
}

// withFilter copia filters y fija key=value (los filtros del llamador no se mutan).
func withFilter(filters repository.Filters, key string, value any) repository.Filters {
	out := make(repository.Filters, len(filters)+1)
	for k, v := range filters {
		out[k] = v
	}
	out[key] = value
	return out
}
