package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mhutchins/feedboard/internal/domain"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"unauthenticated", domain.Unauthenticated("Not authenticated"), domain.KindUnauthenticated},
		{"forbidden", domain.Forbidden("Not authorized!"), domain.KindForbidden},
		{"not found", domain.NotFound("Could not find post"), domain.KindNotFound},
		{"validation", domain.Invalid("No image provided"), domain.KindValidation},
		{"fault", domain.Fault("storage failed", cause), domain.KindFault},
		{"wrapped", fmt.Errorf("handler: %w", domain.NotFound("Could not find post")), domain.KindNotFound},
		{"plain error defaults to fault", cause, domain.KindFault},
		{"nil defaults to fault", nil, domain.KindFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.Fault("storage failed", cause)

	if err.Error() != "storage failed: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause is not reachable through Unwrap")
	}

	bare := domain.NotFound("Could not find post")
	if bare.Error() != "Could not find post" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestInvalidCarriesFields(t *testing.T) {
	err := domain.Invalid("Validation failed, entered data is incorrect.",
		domain.FieldError{Field: "title", Message: "title must not be empty"},
	)
	if len(err.Fields) != 1 || err.Fields[0].Field != "title" {
		t.Errorf("fields = %+v", err.Fields)
	}
}
