package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed request body")
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")

	// NotFoundError is also returned for notes the actor may not read,
	// so hidden notes are indistinguishable from missing ones.
	NotFoundError    = NewSimple(http.StatusNotFound, "Resource not found")
	ForbiddenError   = NewSimple(http.StatusForbidden, "You do not have permission to modify this resource")
	InvalidIDError   = NewSimple(http.StatusBadRequest, "The provided ID is invalid")
	InvalidSortError = NewSimple(http.StatusBadRequest, "Parameter 'sort' must be one of: date, likes")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(http.StatusUnauthorized, "Authentication credentials were not provided")
	InvalidAuthTokenError    = NewSimple(http.StatusUnauthorized, "Invalid or expired authentication token")
	InvalidBasicAuthError    = NewSimple(http.StatusUnauthorized, "Invalid username or password")
	CredentialsMismatchError = NewSimple(http.StatusBadRequest, "Wrong login or password")
	WrongOldPasswordError    = NewSimple(http.StatusBadRequest, "Current password is incorrect, you have been logged out")
	UsernameTakenError       = NewSimple(http.StatusBadRequest, "A user with that username already exists")
)

// FromValidationError maps validator failures to per-field messages.
// Any other error is reported as a malformed body.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return MalformedBodyError
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "maxbytes":
			problems[field] = append(problems[field], "Value is too long, max bytes: "+fe.Param())
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespace")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "eqfield":
			problems[field] = append(problems[field], "Value must match "+strings.ToLower(fe.Param()))
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' is required", name)
}
