package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errFirst  = New("first")
	errSecond = New("second")
)

func TestIsAny(t *testing.T) {
	wrapped := Wrap(errSecond, "context")

	assert.True(t, IsAny(wrapped, errFirst, errSecond))
	assert.False(t, IsAny(wrapped, errFirst))
	assert.False(t, IsAny(nil, errFirst))
	assert.False(t, IsAny(wrapped))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, WithStack(nil))
}

func TestCause(t *testing.T) {
	err := Wrapf(WithMessage(errFirst, "inner"), "outer %d", 1)

	assert.Equal(t, errFirst, Cause(err))
	assert.Equal(t, "outer 1: inner: first", err.Error())
}
