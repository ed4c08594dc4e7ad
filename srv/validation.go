package srv

import (
	"fmt"
	"net/http"
	"unicode/utf8"
)

// MaxSearchTermLen is the longest accepted search term, in runes.
const MaxSearchTermLen = 200

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLength checks if a string exceeds the max length (in runes, not bytes)
func ValidateLength(field, value string, maxLen int) error {
	if utf8.RuneCountInString(value) > maxLen {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be %d characters or less", maxLen),
		}
	}
	return nil
}

// ValidateSearchTerm validates the q parameter. Empty is allowed.
func ValidateSearchTerm(term string) error {
	if !utf8.ValidString(term) {
		return ValidationError{Field: "q", Message: "must be valid UTF-8"}
	}
	return ValidateLength("q", term, MaxSearchTermLen)
}

// TruncateSearchTerm cuts term to MaxSearchTermLen runes.
func TruncateSearchTerm(term string) string {
	if utf8.RuneCountInString(term) <= MaxSearchTermLen {
		return term
	}
	return string([]rune(term)[:MaxSearchTermLen])
}

// MaxRequestBodySize is the maximum allowed request body size (64KB).
// No endpoint accepts a meaningful body.
const MaxRequestBodySize = 64 * 1024

// LimitRequestBody wraps a handler to limit request body size
func LimitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
		next.ServeHTTP(w, r)
	})
}
