// Package csvimport lee catálogos de productos desde CSV (exportaciones de hojas de cálculo o POS).
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columnas reconocidas. sku y name son obligatorias; el resto toma el valor cero.
const (
	colSKU      = "sku"
	colName     = "name"
	colBarcode  = "barcode"
	colPrice    = "price"
	colCost     = "cost"
	colQuantity = "quantity"
	colMinStock = "min_stock"
	colUnit     = "unit"
	colCategory = "category_id"
)

// RowError error de una fila concreta (numerada desde 2, la 1 es la cabecera).
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("línea %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Decoder envuelve r según el charset ("utf-8", "latin1"/"iso-8859-1", "windows-1252").
// El BOM UTF-8 de Excel se descarta.
func Decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

// ReadProducts convierte el CSV en solicitudes de alta para storeID. El separador se detecta
// entre ',' y ';' a partir de la cabecera. Devuelve las filas válidas y los errores por fila.
func ReadProducts(r io.Reader, storeID string) ([]dto.CreateProductRequest, []error, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	text := string(raw)
	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = detectComma(text)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("archivo vacío")
		}
		return nil, nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colSKU, colName} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var (
		out     []dto.CreateProductRequest
		rowErrs []error
	)
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		if blank(rec) {
			continue
		}
		in, err := toRequest(rec, idx, storeID)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		out = append(out, in)
	}
	return out, rowErrs, nil
}

func toRequest(rec []string, idx map[string]int, storeID string) (dto.CreateProductRequest, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	in := dto.CreateProductRequest{
		StoreID: storeID,
		SKU:     get(colSKU),
		Name:    get(colName),
		Barcode: get(colBarcode),
		Unit:    get(colUnit),
	}
	if in.SKU == "" || in.Name == "" {
		return in, errors.New("sku y name son obligatorios")
	}
	if c := get(colCategory); c != "" {
		in.CategoryID = &c
	}
	var err error
	if in.Price, err = parseMoney(get(colPrice)); err != nil {
		return in, fmt.Errorf("price: %w", err)
	}
	if in.Cost, err = parseMoney(get(colCost)); err != nil {
		return in, fmt.Errorf("cost: %w", err)
	}
	if in.Quantity, err = parseInt(get(colQuantity)); err != nil {
		return in, fmt.Errorf("quantity: %w", err)
	}
	if in.MinStock, err = parseInt(get(colMinStock)); err != nil {
		return in, fmt.Errorf("min_stock: %w", err)
	}
	return in, nil
}

// parseMoney acepta "1234.5" y la coma decimal "1234,5".
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func detectComma(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
