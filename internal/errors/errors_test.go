package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/shellymon/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	f := errors.New()

	assert.Equal(t, "Invalid interval value", f.New(errors.ErrInvalidInterval).Error())
	assert.Equal(t, "custom", f.WithMessage(errors.ErrInvalidInterval, "custom").Error())
	assert.Equal(t, "Invalid interval value: -1s", f.WithData(errors.ErrInvalidInterval, "-1s").Error())
	assert.Equal(t, "unknown_code", f.New(errors.ErrorCode("unknown_code")).Error())

	wrapped := f.Wrap(errors.ErrReadConfig, fmt.Errorf("boom"))
	assert.Equal(t, "Failed to read config file: boom", wrapped.Error())
}

func TestHasCode(t *testing.T) {
	f := errors.New()
	inner := f.New(errors.ErrInvalidLogLevel)
	outer := f.Wrap(errors.ErrInvalidConfig, inner)

	assert.True(t, errors.HasCode(outer, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(outer, errors.ErrInvalidLogLevel))
	assert.True(t, errors.HasCode(fmt.Errorf("context: %w", outer), errors.ErrInvalidLogLevel))
	assert.False(t, errors.HasCode(outer, errors.ErrTimeout))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrTimeout))
	assert.False(t, errors.HasCode(nil, errors.ErrTimeout))
}

func TestWithDataKeepsCode(t *testing.T) {
	err := errors.New().New(errors.ErrOperationFailed).WithData("x")

	assert.Equal(t, errors.ErrOperationFailed, err.Code())
	assert.Equal(t, "x", err.GetData())
	assert.Nil(t, err.Unwrap())
}
