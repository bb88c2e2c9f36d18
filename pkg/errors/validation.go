package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateColumnName validates a column reference from a job file or flag.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}
	return nil
}

// languageCodeRegex matches Wikipedia language subdomains (sv, en, zh-min-nan, be-tarask).
var languageCodeRegex = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]{2,8})*$`)

// ValidateLanguageCode validates a Wikipedia language code before it is
// used to build a request host name.
func ValidateLanguageCode(lang string) error {
	if lang == "" {
		return New(ErrCodeInvalidLanguage, "language code cannot be empty")
	}
	if !languageCodeRegex.MatchString(lang) {
		return New(ErrCodeInvalidLanguage, "invalid language code: %q", lang)
	}
	return nil
}
