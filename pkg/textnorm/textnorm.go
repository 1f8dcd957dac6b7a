// Package textnorm pliega texto para búsquedas insensibles a mayúsculas y acentos.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin diacríticos y con espacios colapsados.
// "Ñoquis  de Papá" -> "noquis de papa".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// Caser no es seguro entre goroutines.
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// SearchKey arma la clave de búsqueda de una receta a partir de sus textos.
func SearchKey(parts ...string) string {
	folded := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := Fold(p); f != "" {
			folded = append(folded, f)
		}
	}
	return strings.Join(folded, " ")
}
