package srv

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateSearchTerm(t *testing.T) {
	tests := []struct {
		name    string
		term    string
		wantErr bool
	}{
		{"empty", "", false},
		{"valid short", "typo", false},
		{"whitespace only", "   ", false},
		{"valid max length", strings.Repeat("a", MaxSearchTermLen), false},
		{"too long", strings.Repeat("a", MaxSearchTermLen+1), true},
		{"invalid utf8", "abc\xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchTerm(tt.term)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSearchTerm() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchTerm_FieldName(t *testing.T) {
	err := ValidateSearchTerm(strings.Repeat("a", MaxSearchTermLen+1))
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "q" {
		t.Errorf("Field = %q, want q", verr.Field)
	}
	if err.Error() != "q: must be 200 characters or less" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestTruncateSearchTerm(t *testing.T) {
	short := "release notes"
	if got := TruncateSearchTerm(short); got != short {
		t.Errorf("short term changed: %q", got)
	}

	long := strings.Repeat("日", MaxSearchTermLen+10)
	got := TruncateSearchTerm(long)
	if n := utf8.RuneCountInString(got); n != MaxSearchTermLen {
		t.Errorf("truncated to %d runes, want %d", n, MaxSearchTermLen)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}

func TestValidateLength_Unicode(t *testing.T) {
	// Test that we count runes, not bytes
	// "日本語" is 3 runes but 9 bytes
	err := ValidateLength("test", "日本語", 3)
	if err != nil {
		t.Errorf("Should allow 3 unicode characters within limit of 3: %v", err)
	}

	err = ValidateLength("test", "日本語", 2)
	if err == nil {
		t.Error("Should reject 3 unicode characters when limit is 2")
	}
}
