package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password1 string `validate:"required,min=8"`
	Password2 string `validate:"required,eqfield=Password1"`
}

func TestFromValidationError(t *testing.T) {
	err := validator.New().Struct(&signup{
		Email:     "nope",
		Password1: "short",
		Password2: "other",
	})
	require.Error(t, err)

	resp := FromValidationError(err)
	structured, ok := resp.(*StructuredError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, structured.Code())
	assert.Equal(t, []string{"This field is required"}, structured.Errors["username"])
	assert.Equal(t, []string{"Value must be a valid email address"}, structured.Errors["email"])
	assert.Equal(t, []string{"Value is too short, min: 8"}, structured.Errors["password1"])
	assert.Equal(t, []string{"Value must match password1"}, structured.Errors["password2"])
}

func TestFromValidationError_NotValidation(t *testing.T) {
	resp := FromValidationError(errors.New("boom"))
	assert.Equal(t, MalformedBodyError, resp)
}

func TestNewSimple(t *testing.T) {
	err := NewSimple(http.StatusTeapot, "brewing %d cups", 3)
	assert.Equal(t, "brewing 3 cups", err.Message)
	assert.Equal(t, http.StatusTeapot, err.Code())
}
