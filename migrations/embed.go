// Package migrations embebe los archivos SQL del esquema.
package migrations

import "embed"

// FS contiene los archivos *_up.sql y *_down.sql en orden lexicográfico.
//
//go:embed *.sql
var FS embed.FS
