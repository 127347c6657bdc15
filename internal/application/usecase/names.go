package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeName recorta, colapsa espacios internos y lleva el texto a NFC,
// de modo que "Café" compuesto y descompuesto sean el mismo nombre.
func normalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// sameName compara dos nombres sin distinguir mayúsculas (case folding Unicode).
// cases.Caser no es seguro entre goroutines: se crea uno por llamada.
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(normalizeName(a)) == fold.String(normalizeName(b))
}
