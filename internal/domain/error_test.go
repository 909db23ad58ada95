package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(NotFound("order.get", "order", "ORD-2024-001")))
	assert.Equal(t, EINVALID, ErrorCode(Invalid("order.process", "email_text is required")))
	assert.Equal(t, ECONFLICT, ErrorCode(Conflict("settlement.settle", "order id already exists")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("plain error")))
}

func TestErrorCode_Wrapped(t *testing.T) {
	inner := NotFound("catalog.get", "product", "P999")
	wrapped := Internal(inner, "pipeline.process", "stage failed")

	// The outermost domain error wins.
	assert.Equal(t, EINTERNAL, ErrorCode(wrapped))
	assert.True(t, errors.Is(wrapped, wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "product not found: P999", ErrorMessage(NotFound("catalog.get", "product", "P999")))

	// Internal errors never leak their underlying cause.
	internal := Internal(errors.New("pq: connection refused"), "catalog.load", "failed to load products")
	assert.Equal(t, "An internal error occurred. Please try again later.", ErrorMessage(internal))
	assert.Equal(t, "An internal error occurred. Please try again later.", ErrorMessage(errors.New("raw")))
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: EINVALID, Op: "order.process", Message: "bad input"}
	assert.Equal(t, "order.process: bad input", err.Error())

	wrapped := &Error{Code: EINTERNAL, Op: "catalog.load", Message: "query failed", Err: errors.New("timeout")}
	assert.Equal(t, "catalog.load: query failed: timeout", wrapped.Error())
}

func TestIsCode(t *testing.T) {
	err := Invalid("order.process", "bad input")
	assert.True(t, IsCode(err, EINVALID))
	assert.False(t, IsCode(err, ENOTFOUND))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("timeout")
	err := Internal(inner, "catalog.load", "query failed")
	assert.True(t, errors.Is(err, inner))
}
