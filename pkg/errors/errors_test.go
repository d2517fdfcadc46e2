package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(CodeStateConflict)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("state conflict should allow details")
	}

	fallback := MetadataFor(Code("SOMETHING_ELSE"))
	if fallback.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal, got %d", fallback.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(CodeDependency, cause, "saving appointment")

	if !errors.Is(err, cause) {
		t.Fatal("wrapped error should match its cause")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}

	typed := As(err)
	if typed == nil {
		t.Fatal("As should recover the typed error")
	}
	if typed.Message() != "saving appointment" {
		t.Fatalf("unexpected message: %s", typed.Message())
	}
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeValidation, nil, "bad input")
	if err.Unwrap() != nil {
		t.Fatal("nil cause should not be wrapped")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"endTime": "must be after startTime"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type: %T", err.Details())
	}
	if details["endTime"] == "" {
		t.Fatal("details should carry field messages")
	}
}

func TestDumpChain(t *testing.T) {
	err := Wrap(CodeConflict, errors.New("row exists"), "duplicate booking")
	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
