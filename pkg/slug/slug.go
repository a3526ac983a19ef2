// Package slug genera identificadores aptos para URL a partir de nombres de categorías.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonAlphanumeric agrupa cualquier secuencia que no sea letra ASCII minúscula o dígito.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate deriva el slug de un nombre: pliega acentos ("Škoda" → "skoda"), pasa a minúsculas,
// reemplaza cada secuencia no alfanumérica por un guion y recorta guiones en los extremos.
// Ejemplo: "Mercedes-Benz C-Class (W205)" → "mercedes-benz-c-class-w205".
func Generate(name string) string {
	// El transformer tiene estado: se construye por llamada.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}
	result := strings.ToLower(strings.TrimSpace(folded))
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
