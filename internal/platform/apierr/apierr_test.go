package apierr

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorMessageFallbacks(t *testing.T) {
	cause := errors.New("boom")
	if got := New(http.StatusBadRequest, "bad", cause).Error(); got != "boom" {
		t.Fatalf("with cause: got=%q", got)
	}
	if got := New(http.StatusBadRequest, "bad", nil).Error(); got != "bad" {
		t.Fatalf("code only: got=%q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("status only: got=%q", got)
	}
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil error should render empty")
	}
}

func TestUnwrapAndDetails(t *testing.T) {
	cause := errors.New("boom")
	e := Internal(cause).WithDetails([]string{"a"})
	if !errors.Is(e, cause) {
		t.Fatalf("want errors.Is through Unwrap")
	}
	if e.Status != http.StatusInternalServerError || e.Code != "internal" || len(e.Details) != 1 {
		t.Fatalf("internal: got=%+v", e)
	}
}
