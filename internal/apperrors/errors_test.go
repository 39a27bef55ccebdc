package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid", Invalid("product.get", "invalid product ID"), EINVALID},
		{"not found", NotFound("order.get", "order", "abc"), ENOTFOUND},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound("order.get", "order", "abc")), ENOTFOUND},
		{"plain error", errors.New("boom"), EINTERNAL},
		{"internal", Internal(errors.New("timeout"), "order.create", "failed to save order"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("connection refused 10.0.0.3:27017"), "product.list", "failed to list products")

	assert.Equal(t, internalMessage, Message(err))
	assert.Equal(t, internalMessage, Message(errors.New("raw driver error")))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMissingRefs_NamesEveryID(t *testing.T) {
	err := MissingRefs("order.create", "products", []string{"a", "b"})

	assert.Equal(t, ENOTFOUND, Code(err))
	assert.Equal(t, []string{"a", "b"}, Refs(err))
	assert.Equal(t, "products not found: a, b", Message(err))
	assert.Equal(t, "order.create", Op(err))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("no reachable servers")
	err := Internal(cause, "order.get", "failed to fetch order")

	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, EINTERNAL))
	assert.Equal(t, "order.get: failed to fetch order: no reachable servers", err.Error())
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation(EUNPROCESSABLE, "product.create", map[string]string{"price": "is required"})

	assert.Equal(t, EUNPROCESSABLE, Code(err))
	assert.Equal(t, "validation failed", Message(err))
	assert.Equal(t, map[string]string{"price": "is required"}, FieldErrors(err))
	assert.Nil(t, FieldErrors(errors.New("plain")))
}
