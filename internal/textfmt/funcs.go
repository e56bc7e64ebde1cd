package textfmt

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Truncate shortens s to at most n characters. Negative n keeps the last -n
// characters, matching sprig's trunc.
func Truncate(n int, s string) string {
	runes := []rune(s)
	switch {
	case n >= 0 && len(runes) > n:
		return string(runes[:n])
	case n < 0 && len(runes) > -n:
		return string(runes[len(runes)+n:])
	}
	return s
}

// FuncMap is sprig's text FuncMap with the character-aware truncate.
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["truncate"] = Truncate
	return funcs
}
