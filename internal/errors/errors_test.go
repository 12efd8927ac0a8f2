package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := Unavailable("fetching page", fmt.Errorf("connection refused"))
	assert.Equal(t, "UNAVAILABLE: fetching page: connection refused", err.Error())
	assert.NotEmpty(t, err.StackTrace())

	bare := Markup("title missing", nil)
	assert.Equal(t, "MARKUP: title missing", bare.Error())
}

func TestIsType(t *testing.T) {
	inner := Unavailable("status 503", nil)
	wrapped := fmt.Errorf("remoteok: %w", inner)

	assert.True(t, IsType(wrapped, ErrTypeUnavailable))
	assert.False(t, IsType(wrapped, ErrTypeMarkup))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeUnavailable))
	assert.False(t, IsType(nil, ErrTypeUnavailable))

	nested := Internal("aggregating", Markup("no rows", nil))
	assert.True(t, IsType(nested, ErrTypeMarkup))
}
