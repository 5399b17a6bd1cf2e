package editorjs

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{name: "bare", err: &ValidationError{}, want: "validation failed"},
		{
			name: "full",
			err:  &ValidationError{Tool: "header", BlockID: "b1", Field: "level", Reason: "must be 1-6"},
			want: `validation failed for "header" (block "b1"): invalid level value: must be 1-6`,
		},
		{name: "field only", err: Invalid("text", ""), want: "validation failed: invalid text value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrValidation) {
				t.Error("errors.Is(ErrValidation) = false")
			}
		})
	}
}

func TestWithBlock(t *testing.T) {
	t.Parallel()

	t.Run("fills missing tool and block", func(t *testing.T) {
		t.Parallel()
		orig := Invalid("text", "empty")
		err := withBlock(orig, "paragraph", "p1")
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("withBlock() = %T", err)
		}
		if ve.Tool != "paragraph" || ve.BlockID != "p1" {
			t.Errorf("got %+v", ve)
		}
		if orig.Tool != "" {
			t.Error("withBlock() modified its input")
		}
	})

	t.Run("keeps an existing tool", func(t *testing.T) {
		t.Parallel()
		err := withBlock(&ValidationError{Tool: "inner"}, "outer", "b")
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Tool != "inner" {
			t.Errorf("got %v", err)
		}
	})

	t.Run("wraps other errors", func(t *testing.T) {
		t.Parallel()
		cause := fmt.Errorf("decoding: %w", ErrInvalidDocument)
		err := withBlock(cause, "table", "t1")
		if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrInvalidDocument) {
			t.Errorf("withBlock() = %v, want both sentinels", err)
		}
	})
}

func TestUnknownFeatureError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("render: %w", &UnknownFeatureError{Name: "chart"})
	if !errors.Is(err, ErrUnknownFeature) {
		t.Error("errors.Is(ErrUnknownFeature) = false")
	}
	if got := err.Error(); got != `render: unknown feature: "chart"` {
		t.Errorf("Error() = %q", got)
	}
}
