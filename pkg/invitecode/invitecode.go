// Package invitecode genera y normaliza códigos de invitación familiares con formato XXX-XXX.
package invitecode

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet excluye caracteres confundibles (0/O, 1/I/L).
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const half = 3

// Generate devuelve un código aleatorio "XXX-XXX".
func Generate() (string, error) {
	raw, err := gonanoid.Generate(Alphabet, half*2)
	if err != nil {
		return "", fmt.Errorf("generar código de invitación: %w", err)
	}
	return raw[:half] + "-" + raw[half:], nil
}

// Normalize acepta el código tal como lo escribe el usuario ("abc def", "abcdef", " ABC-DEF ")
// y devuelve la forma canónica. ok=false si no tiene la forma esperada.
func Normalize(input string) (code string, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.NewReplacer("-", "", " ", "").Replace(s)
	if len(s) != half*2 {
		return "", false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return "", false
		}
	}
	return s[:half] + "-" + s[half:], true
}
