package editorjs

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// User data errors.
	ErrValidation      = errors.New("validation failed")
	ErrUnknownFeature  = errors.New("unknown feature")
	ErrMissingBlockID  = errors.New("block ID not set")
	ErrInvalidDocument = errors.New("invalid document")

	// Optional include template hook.
	ErrTemplateNotSpecified = errors.New("template not specified for this feature")

	// Handler and registry misconfiguration.
	ErrNestedWrapper     = errors.New("cannot nest wrapper elements")
	ErrInvalidAllowlist  = errors.New("invalid allowlist")
	ErrTunesKeyCollision = errors.New("tunes must be registered separately")
	ErrRegistrySealed    = errors.New("registry is sealed")
	ErrNotATune          = errors.New("feature is not a tune")
	ErrAttributeKind     = errors.New("attribute value kind mismatch")

	// Entity collaborators.
	ErrEntityNotFound = errors.New("entity not found")
)

// ValidationError reports a user-data problem for one tool and block.
type ValidationError struct {
	Tool    string // feature or tune name
	BlockID string // empty when not tied to a block
	Field   string // offending data key, if any
	Reason  string
	Err     error // underlying cause, if any
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if e.Tool != "" {
		msg += fmt.Sprintf(" for %q", e.Tool)
	}
	if e.BlockID != "" {
		msg += fmt.Sprintf(" (block %q)", e.BlockID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": invalid %s value", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// Invalid returns a ValidationError for field with an optional reason.
// Handlers return it from Validate; the registry fills in Tool and BlockID.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UnknownFeatureError reports a tool name that is not registered.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature: %q", e.Name)
}

func (e *UnknownFeatureError) Unwrap() error { return ErrUnknownFeature }

// withBlock annotates a validation error with tool and block. Non-validation
// errors are wrapped so the tool and block still show up in the message.
func withBlock(err error, tool, blockID string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		annotated := *ve
		if annotated.Tool == "" {
			annotated.Tool = tool
		}
		if annotated.BlockID == "" {
			annotated.BlockID = blockID
		}
		return &annotated
	}
	return &ValidationError{Tool: tool, BlockID: blockID, Reason: err.Error(), Err: err}
}
