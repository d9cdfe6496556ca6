// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/citizenwiki/locmerge/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "rule file not found",
			wantStr: "[NOT_FOUND] rule file not found",
		},
		{
			name:    "integrity_error",
			code:    errors.ErrIntegrity,
			message: "merged key set differs from reference",
			wantStr: "[INTEGRITY] merged key set differs from reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidPattern, "invalid regular expression [%s]", "a(")
	if err.Message != "invalid regular expression [a(]" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Code != errors.ErrInternal {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrInternal)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error")
		if err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetails(t *testing.T) {
	details := map[string]interface{}{
		"missing": []string{"k2"},
		"extra":   []string{},
	}

	err := errors.New(errors.ErrIntegrity, "key mismatch").
		WithDetails(details).
		WithDetail("reference", 2)

	if got := errors.GetErrorDetails(err)["reference"]; got != 2 {
		t.Errorf("WithDetail() reference = %v, want 2", got)
	}
	if _, ok := err.Details["missing"]; !ok {
		t.Error("WithDetails() should keep missing")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !err1.Is(err2) {
		t.Error("Is() should return true for same code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should work with LocError")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrNotFound, true},
		{"different_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrInternal, false},
		{"wrapped_error", errors.Wrap(stderrors.New("base"), errors.ErrFileWrite, "denied"), errors.ErrFileWrite, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrNotFound, false},
		{"nil_error", nil, errors.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrCache, "x")); got != errors.ErrCache {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrCache)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"missing_import", errors.New(errors.ErrImportMissing, "x"), false},
		{"cycle", errors.New(errors.ErrImportCycle, "x"), false},
		{"integrity", errors.New(errors.ErrIntegrity, "x"), true},
		{"bad_regex", errors.New(errors.ErrInvalidPattern, "x"), true},
		{"plain", stderrors.New("x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrSourceLoad, "cannot read source")
	runErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to start run")

	if !errors.IsErrorCode(runErr, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}

	var locErr *errors.LocError
	if stderrors.As(runErr.Unwrap(), &locErr) {
		if !errors.IsErrorCode(locErr, errors.ErrSourceLoad) {
			t.Error("Middle error should have ErrSourceLoad code")
		}
	} else {
		t.Error("Middle error should be a LocError")
	}

	if !stderrors.Is(runErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitOK},
		{"missing_import", errors.New(errors.ErrImportMissing, "x"), errors.ExitOK},
		{"cycle", errors.New(errors.ErrImportCycle, "x"), errors.ExitOK},
		{"plain", stderrors.New("unknown flag"), errors.ExitFailure},
		{"internal", errors.New(errors.ErrInternal, "x"), errors.ExitFailure},
		{"bad_config", errors.New(errors.ErrConfigParse, "x"), errors.ExitConfig},
		{"bad_regex", errors.New(errors.ErrInvalidPattern, "x"), errors.ExitConfig},
		{"missing_reference", errors.New(errors.ErrReferenceLoad, "x"), errors.ExitInput},
		{"unknown_key", errors.New(errors.ErrNotFound, "x"), errors.ExitInput},
		{"integrity", errors.New(errors.ErrIntegrity, "x"), errors.ExitIntegrity},
		{"variant", errors.New(errors.ErrVariant, "x"), errors.ExitOutput},
		{"locked", errors.New(errors.ErrLocked, "x"), errors.ExitLocked},
		{"wrapped_keeps_outer", errors.Wrap(errors.New(errors.ErrIntegrity, "x"), errors.ErrFileWrite, "y"), errors.ExitOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
