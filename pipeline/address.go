package pipeline

import (
	"regexp"
	"strings"

	"buscacnpj/normalization"
)

// streetNumberPattern matches the first run of 2 to 5 digits in the street
// segment of a formatted address.
var streetNumberPattern = regexp.MustCompile(`[0-9]{2,5}`)

// ParsedAddress is what the registry lookup needs from a formatted address.
// PostalDigits is either exactly 8 digits or empty, never partial; RawPostal
// keeps the unsanitized segment for display.
type ParsedAddress struct {
	StreetNumber string
	PostalDigits string
	RawPostal    string
}

// Complete reports whether the address yielded both lookup keys.
func (a ParsedAddress) Complete() bool {
	return a.StreetNumber != "" && a.PostalDigits != ""
}

// ParseAddress extracts the street number and postal code from a Google
// formatted address such as "Rua X, 120 - 11015-000, Santos - SP". The
// street number is taken from the second comma-delimited segment, the
// postal code from the second-to-last.
func ParseAddress(raw string) ParsedAddress {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var parsed ParsedAddress
	if len(parts) > 1 {
		parsed.StreetNumber = streetNumberPattern.FindString(parts[1])
		parsed.RawPostal = parts[len(parts)-2]
	}

	if digits, err := normalization.CEP(parsed.RawPostal); err == nil {
		parsed.PostalDigits = digits
	}
	return parsed
}
