// Package normalization converts free-text names, phone numbers, postal
// codes and file names into canonical comparable forms.
package normalization

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"buscacnpj/apperrors"
)

// stripMarks decomposes to NFKD and drops the combining marks, so that
// "Padaria São João" and "Padaria Sao Joao" compare equal.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// countryPrefix is the Brazilian international dialing prefix.
const countryPrefix = "55"

// slugFallback is used when a slug input reduces to nothing.
const slugFallback = "resultado"

// Name canonicalizes a business name for comparison: diacritics stripped,
// lowercased, every run of non-alphanumeric characters collapsed to a
// single space, trimmed. Total function; empty or garbage input yields "".
func Name(text string) string {
	ascii, _, err := transform.String(stripMarks, text)
	if err != nil {
		ascii = text
	}
	ascii = strings.ToLower(ascii)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Phone reduces a phone string to bare digits. A leading country prefix
// "55" is dropped when more than 11 digits remain, so that
// "+55 13 99999-0000" and "(13) 99999-0000" compare equal.
func Phone(text string) string {
	digits := digitsOf(text)
	if strings.HasPrefix(digits, countryPrefix) && len(digits) > 11 {
		digits = digits[2:]
	}
	return digits
}

// Slug derives a deterministic file-name token: lowercase ASCII with
// non-alphanumeric runs collapsed to "_" and no leading or trailing "_".
// Inputs that reduce to nothing yield a fixed fallback token.
func Slug(text string) string {
	ascii, _, err := transform.String(stripMarks, text)
	if err != nil {
		ascii = text
	}
	ascii = strings.ToLower(strings.TrimSpace(ascii))

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	slug := strings.Join(strings.FieldsFunc(b.String(), func(r rune) bool {
		return r == '_'
	}), "_")
	if slug == "" {
		return slugFallback
	}
	return slug
}

// cepPattern recognizes a CEP embedded in a larger address segment, with
// or without the customary hyphen.
var cepPattern = regexp.MustCompile(`[0-9]{5}-?[0-9]{3}`)

// CEP sanitizes a Brazilian postal code to its 8-digit form. A segment
// whose digits do not reduce to exactly 8 is scanned for an embedded CEP
// token ("120 - 11015-000" still yields "11015000"); failing that it is
// rejected. The result is always either complete or empty, never partial.
func CEP(raw string) (string, error) {
	digits := digitsOf(raw)
	if len(digits) == 8 {
		return digits, nil
	}
	if m := cepPattern.FindString(raw); m != "" {
		return digitsOf(m), nil
	}
	return "", apperrors.NewValidationError("CEP deve ter 8 digitos", nil)
}

func digitsOf(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
