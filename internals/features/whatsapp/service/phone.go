package service

import (
	"net/url"
	"strings"
)

const linkBase = "https://wa.me/"

// NormalizePhone keeps ASCII digits, drops a single leading "0" and prefixes the
// country code when exactly ten digits remain. The result is only guaranteed
// ten or more digits long when the input carries that many; shorter input comes
// back as its bare digits and callers reject an empty result.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	b.Grow(len(raw) + len(countryCode))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "0")
	if len(digits) == 10 {
		digits = countryCode + digits
	}
	return digits
}

// Link builds a click-to-chat URL with the message pre-filled.
func Link(phone, message, countryCode string) string {
	return buildLink(NormalizePhone(phone, countryCode), message)
}

func buildLink(digits, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return linkBase + digits + "?text=" + text
}
