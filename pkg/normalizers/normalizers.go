// Package normalizers provides field normalization functions for match indexing
package normalizers

import (
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("institution", NormalizeInstitutionName)
	Register("person", NormalizePersonName)
	Register("zip", NormalizeZipCode)
	Register("iata", NormalizeIataCode)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// institutionStopwords are filler tokens that carry no identity when comparing
// school names ("University of X" vs "X University" should collide).
var institutionStopwords = map[string]bool{
	"the":         true,
	"university":  true,
	"college":     true,
	"state":       true,
	"of":          true,
	"at":          true,
	"campus":      true,
	"city":        true,
	"institution": true,
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeInstitutionName canonicalizes a school name for matching:
// - Lowercase
// - "&" becomes " and "
// - Commas, periods and hyphens become spaces
// - Apostrophes (straight and curly) are removed
// - Stopword tokens are dropped
// - Remaining tokens are joined with single spaces
//
// The result is stable under re-application.
func NormalizeInstitutionName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ',', '.', '-':
			b.WriteRune(' ')
		case '\'', '’':
			// drop
		default:
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if !institutionStopwords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// InstitutionTokens returns the normalized name split into tokens.
func InstitutionTokens(s string) []string {
	normalized := NormalizeInstitutionName(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// NormalizePersonName normalizes a roster name for deduplication:
// lowercase, punctuation stripped, whitespace collapsed.
func NormalizePersonName(s string) string {
	s = strings.ToLower(s)

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
			prevSpace = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(result.String())
}

// NormalizeZipCode normalizes a US zip code to its 5-digit prefix
func NormalizeZipCode(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) >= 5 {
		return d[:5]
	}
	return ""
}

// NormalizeIataCode uppercases and validates a 3-letter airport code
func NormalizeIataCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return ""
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return s
}
