// Package textnorm normaliza texto en español para búsquedas y encabezados:
// minúsculas, sin tildes ni diéresis, espacios colapsados.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin marcas diacríticas y con espacios colapsados.
// "Diabetes  Mellitus TIPO 2 (Niñez)" → "diabetes mellitus tipo 2 (ninez)".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Key reduce s a una clave comparable: Fold y sin separadores.
// "Número de Documento", "numero_documento" y "numeroDocumento" → "numerodocumento".
func Key(s string) string {
	f := Fold(s)
	var b strings.Builder
	b.Grow(len(f))
	for _, r := range f {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
