package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "duplicate element name %q", "sidebar")

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidManifest)
	}
	want := `INVALID_MANIFEST: duplicate element name "sidebar"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("no such file")
	err := Wrap(ErrCodeFileNotFound, cause, "load manifest %s", "app.toml")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match its cause via errors.Is")
	}
	want := "FILE_NOT_FOUND: load manifest app.toml: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidAxis, "unknown axis %q", "diagonal")

	if !Is(err, ErrCodeInvalidAxis) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidAxis) {
		t.Error("Is() = true for a plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeInvalidFormat, "invalid format %q", "gif")
	outer := fmt.Errorf("render: %w", inner)

	if !Is(outer, ErrCodeInvalidFormat) {
		t.Error("Is() failed to find code through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodeInvalidFormat {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodeInvalidFormat)
	}
}

func TestUserMessage(t *testing.T) {
	coded := New(ErrCodeInvalidManifest, "element %q references unknown parent", "main")
	if got := UserMessage(coded); got != `element "main" references unknown parent` {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage() = %q, want %q", got, "boom")
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}
