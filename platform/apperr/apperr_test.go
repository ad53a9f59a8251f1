package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Validation("bad"), 2},
		{BadRequest("bad"), 2},
		{NotFound("missing"), 3},
		{Conflict("dup"), 4},
		{Internal("boom"), 1},
		{errors.New("plain"), 1},
		{fmt.Errorf("wrapped: %w", NotFound("missing")), 3},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := NotFound("customer not found").WithOp("GetCustomer")
	if err.Error() != "GetCustomer: customer not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(KindInternal, "store failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable")
	}
	if !Is(fmt.Errorf("outer: %w", err), KindInternal) {
		t.Fatal("expected kind to survive wrapping")
	}
	if GetKind(cause) != KindUnknown {
		t.Fatal("plain errors have no kind")
	}
}
