package security

import (
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "userapp/pkg/errors"
)

const (
	// MaxSearchQueryLength is the width of the user name and email columns, in
	// runes. A longer query cannot be a substring of any stored field.
	MaxSearchQueryLength = 255

	// LikeEscapeChar is the escape character paired with EscapeLike in LIKE ... ESCAPE clauses
	LikeEscapeChar = `\`
)

// ValidateSearchQuery rejects search queries that are too long or carry control
// characters. The query is returned unchanged: whitespace is significant in
// substring matching, so nothing is trimmed.
func ValidateSearchQuery(query string) (string, error) {
	if !utf8.ValidString(query) {
		return "", apperrors.NewValidationError("q", "search query is not valid UTF-8")
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", apperrors.NewValidationError("q", "search query too long")
	}

	for _, char := range query {
		if unicode.IsControl(char) {
			return "", apperrors.NewValidationError("q", "search query contains invalid characters")
		}
	}

	return query, nil
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes LIKE wildcards so that query matches literally
func EscapeLike(query string) string {
	if query == "" {
		return ""
	}
	return likeEscaper.Replace(query)
}

// ContainsPattern returns the LIKE pattern matching any value containing query
func ContainsPattern(query string) string {
	return "%" + EscapeLike(query) + "%"
}
