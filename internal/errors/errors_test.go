package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "invalid trigger",
			code:    CodeInvalidTrigger,
			wantMsg: "Invalid trigger",
			wantCat: CategoryRender,
		},
		{
			name:    "invalid config",
			code:    CodeInvalidConfig,
			wantMsg: "Invalid tooltip configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "protocol error",
			code:    CodeProtocolDecode,
			wantMsg: "Invalid frame",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "T999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "flag %q missing", "addr")
	if err.Message != `flag "addr" missing` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
}

func TestError_Error(t *testing.T) {
	err := New(CodeTemplateNotFound)
	if got := err.Error(); got != "T002: Template not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := New(CodeTemplateLoad).Wrap(fmt.Errorf("disk on fire"))
	if got := wrapped.Error(); got != "T004: Template load failed: disk on fire" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	sentinel := New(CodeInvalidTrigger)
	err := fmt.Errorf("construct: %w", New(CodeInvalidTrigger).WithDetail("no element #x"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New(CodeTemplateNotFound)) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(err, Newf(CategoryRender, "no code")) {
		t.Error("errors.Is should not match an uncoded error")
	}
}

func TestError_Wrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New(CodeConfigLoad).Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeConfigLoad) != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New(CodeUnknownTarget)
	if got := FromError(fmt.Errorf("ctx: %w", orig), CodeConfigLoad); got != orig {
		t.Error("FromError should return the existing Error")
	}

	plain := fmt.Errorf("plain")
	got := FromError(plain, CodeConfigLoad)
	if got.Code != CodeConfigLoad || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", New(CodeProtocolDecode))); got != CodeProtocolDecode {
		t.Errorf("CodeOf = %q", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeTemplateNotFound).
		WithSuggestion("Register the template first").
		Wrap(fmt.Errorf("name %q", "card"))

	out := err.Format()
	for _, want := range []string{
		"ERROR T002: Template not found",
		"The named template is not registered",
		`Cause: name "card"`,
		"Hint: Register the template first",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeInvalidTrigger).WithDetailf("no element with id %q", "btn")
	want := `T001: Invalid trigger (no element with id "btn")`
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	PrintError(&b, fmt.Errorf("plain failure"))
	if got := b.String(); got != "ERROR: plain failure\n" {
		t.Errorf("PrintError = %q", got)
	}

	b.Reset()
	PrintError(&b, New(CodeInvalidFlag))
	if !strings.Contains(b.String(), "T030") {
		t.Errorf("PrintError = %q", b.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != len(registry) {
		t.Fatalf("got %d codes, want %d", len(codes), len(registry))
	}
	for _, code := range codes {
		if !strings.HasPrefix(code, "T") {
			t.Errorf("code %q should start with T", code)
		}
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" {
			t.Errorf("code %q has no message", code)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}
