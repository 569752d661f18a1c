package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrMalformedBackup, "invalid json")
	assert.Equal(t, "invalid json", err.Message)
	assert.True(t, errors.Is(err, ErrMalformedBackup))
	assert.False(t, errors.Is(err, ErrEmptyExportScope))
	assert.Equal(t, "backup document is malformed", ErrMalformedBackup.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, ErrMalformedBackup.Code, ErrMalformedBackup.Status, "parse backup")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrMalformedBackup)
	assert.Equal(t, "parse backup: boom", err.Error())
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	err := FromError(fmt.Errorf("plain"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Code, err.Code)

	typed := FromError(fmt.Errorf("ctx: %w", ErrEmptyExportScope))
	assert.Equal(t, http.StatusUnprocessableEntity, typed.Status)
	assert.Nil(t, FromError(nil))
}
