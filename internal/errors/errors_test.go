package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError_WrapsCause(t *testing.T) {
	err := LoadError(fmt.Errorf("open data.csv: %w", os.ErrNotExist))

	assert.Equal(t, CodeLoadError, err.Code)
	assert.True(t, IsLoadError(err))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to load dataset")
	assert.Contains(t, err.Error(), "data.csv")
}

func TestWrap_KeepsCode(t *testing.T) {
	inner := SchemaError("Score column not found or not numeric in the dataset.")
	wrapped := Wrap(inner, "render failed")

	assert.Equal(t, CodeSchemaError, GetCode(wrapped))
	assert.True(t, IsSchemaError(wrapped))
	assert.False(t, IsLoadError(wrapped))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 3)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 3: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, CodeNotFound, GetCode(NotFound("variant x")))
	assert.Equal(t, "variant x not found", NotFound("variant x").Error())
}
