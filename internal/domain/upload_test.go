package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Label: "foreground", Reason: "file size exceeds 5MB"}

	assert.Equal(t, "foreground image rejected: file size exceeds 5MB", err.Error())
}

func TestValidationError_UnwrapsThroughWrapping(t *testing.T) {
	inner := &ValidationError{Label: "background", Reason: "format not supported"}
	wrapped := fmt.Errorf("validate stage: %w", inner)

	var vErr *ValidationError
	assert.True(t, errors.As(wrapped, &vErr))
	assert.Equal(t, "background", vErr.Label)
}
