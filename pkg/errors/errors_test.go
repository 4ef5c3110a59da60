package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeConfig, "invalid outlier method %q", "zap_them")
	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.Equal(t, `invalid outlier method "zap_them"`, err.Message)
	assert.NotEmpty(t, err.Stack)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeData, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeConnection, "dial failed")
	outer := Wrap(inner, ErrorTypeData, "load failed")

	assert.Equal(t, inner.Stack[0], outer.Stack[0])
	assert.Equal(t, inner, outer.Unwrap())
}

func TestWrapForeignError(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorTypeFile, "truncated parquet footer")
	assert.NotEmpty(t, err.Stack)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "file: truncated parquet footer: unexpected EOF", err.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"connection", New(ErrorTypeConnection, "refused"), true},
		{"timeout", New(ErrorTypeTimeout, "deadline"), true},
		{"config", New(ErrorTypeConfig, "bad method"), false},
		{"plain", io.EOF, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}
