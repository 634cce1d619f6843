package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	sdkerrors "github.com/zinput/hub/errors"
)

func TestMultiError_NoErrors(t *testing.T) {
	me := sdkerrors.NewMultiError("test")
	assert.False(t, me.HasErrors())
	assert.Nil(t, me.Err())
}

func TestMultiError_WithErrors(t *testing.T) {
	me := sdkerrors.NewMultiError("test")
	me.Add(errors.New("first"))
	me.Add(errors.New("second"))

	assert.True(t, me.HasErrors())
	assert.Equal(t, me, me.Err())
	assert.Contains(t, me.Error(), "2 error(s) for: test")
	assert.Contains(t, me.Error(), "first")
	assert.Contains(t, me.Error(), "second")
}

func TestMultiError_DefaultSource(t *testing.T) {
	me := &sdkerrors.MultiError{}
	me.Add(errors.New("oops"))
	assert.Contains(t, me.Error(), "unspecified")
}
