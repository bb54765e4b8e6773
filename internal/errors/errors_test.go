package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/errors"
)

func TestDomainError_MessageIncludesTypeAndCause(t *testing.T) {
	err := errors.StoreUnavailable("adding job posting", stderrors.New("quota exceeded"))

	want := "STORE_UNAVAILABLE: adding job posting: quota exceeded"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if len(err.StackTrace()) == 0 {
		t.Error("StackTrace() should not be empty")
	}
}

func TestDomainError_WithoutWrappedError(t *testing.T) {
	err := errors.NoSession("no user is logged in", nil)
	if err.Error() != "NO_SESSION: no user is logged in" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Cause() != "no user is logged in" {
		t.Errorf("Cause() = %q", err.Cause())
	}
}

func TestDomainError_CauseIsInnermostMessage(t *testing.T) {
	root := stderrors.New("permission denied")
	err := errors.StoreUnavailable("clearing jobs", fmt.Errorf("delete abc: %w", root))
	if err.Cause() != "permission denied" {
		t.Errorf("Cause() = %q, want %q", err.Cause(), "permission denied")
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errors.PartialWrite("seeding", nil))
	if got := errors.TypeOf(wrapped); got != errors.ErrTypePartialWrite {
		t.Errorf("TypeOf(wrapped) = %s, want %s", got, errors.ErrTypePartialWrite)
	}
	if got := errors.TypeOf(stderrors.New("plain")); got != errors.ErrTypeInternal {
		t.Errorf("TypeOf(plain) = %s, want %s", got, errors.ErrTypeInternal)
	}
	if !errors.IsType(wrapped, errors.ErrTypePartialWrite) {
		t.Error("IsType should match through wrapping")
	}
	if errors.IsType(wrapped, errors.ErrTypeUnauthorized) {
		t.Error("IsType should not match a different type")
	}
}

func TestUnwrap(t *testing.T) {
	root := stderrors.New("boom")
	err := errors.Internal("x", root)
	if !stderrors.Is(err, root) {
		t.Error("errors.Is should see the wrapped error")
	}
}
