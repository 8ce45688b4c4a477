package logger

import (
	"log/slog"
	"unicode/utf8"
)

const missing = "<MISSING>"

// Mask renders a short preview of a credential that is safe to log.
func Mask(s string) string {
	n := utf8.RuneCountInString(s)
	switch {
	case n == 0:
		return missing
	case n <= 4:
		return "••••"
	case n <= 8:
		r := []rune(s)
		return string(r[:2]) + "•••" + string(r[n-2:])
	default:
		r := []rune(s)
		return string(r[:4]) + "••••" + string(r[n-4:])
	}
}

// Secret is a string that only ever logs its masked preview.
type Secret string

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(Mask(string(s)))
}

func (s Secret) String() string {
	return Mask(string(s))
}
