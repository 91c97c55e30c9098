package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_KeepsTemplates(t *testing.T) {
	input := "🎉 GG {user}, you just reached level **{level}**!"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected template unchanged, got %q", got)
	}
}

func TestPlainText_KeepsPunctuation(t *testing.T) {
	input := `Don't "quote" me & 1 < 2`
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected punctuation unchanged, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	input := "<b>Welcome</b> {user}<script>alert('xss')</script>"
	if got := htmlsanitize.PlainText(input); got != "Welcome {user}" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_KeepsNewlines(t *testing.T) {
	input := "line one\n\nline two"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected newlines kept, got %q", got)
	}
}
