// Package slug deriva identificadores navegables a partir de nombres.
// Es la única regla de slug del sistema: se usa tanto al crear como al
// resolver rutas, para que las búsquedas siempre coincidan con lo guardado.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make pasa a minúsculas, colapsa las corridas de caracteres no
// alfanuméricos en un solo guión y recorta guiones en los extremos.
// "Smart TV" → "smart-tv".
func Make(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
