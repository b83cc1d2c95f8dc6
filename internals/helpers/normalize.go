package helper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims and converts to NFC so visually identical input compares equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func NormalizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeText(*s)
	if v == "" {
		return nil
	}
	return &v
}

func NormalizeEmail(s string) string {
	return strings.ToLower(NormalizeText(s))
}
