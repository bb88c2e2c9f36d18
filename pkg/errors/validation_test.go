package errors

import (
	"strings"
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "area", false},
		{"with space", "antal personer", false},
		{"swedish", "län", false},
		{"title column", "sv_title", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLanguageCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"swedish", "sv", false},
		{"english", "en", false},
		{"three letters", "sco", false},
		{"dashed", "zh-min-nan", false},
		{"tarask", "be-tarask", false},

		{"empty", "", true},
		{"uppercase", "SV", true},
		{"host injection", "sv.evil.com/", true},
		{"single letter", "s", true},
		{"trailing dash", "sv-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLanguageCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLanguageCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLanguage) {
				t.Errorf("ValidateLanguageCode(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidLanguage)
			}
		})
	}
}
