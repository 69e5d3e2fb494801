package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyInput         = errors.New("input is empty")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrMenuNotFound       = errors.New("menu not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrImagesDisabled     = errors.New("menu images are not configured")
)

// Error codes returned in API bodies.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeEmptyInput         = "EMPTY_INPUT"
	CodeIngredientNotFound = "INGREDIENT_NOT_FOUND"
	CodeNoCasesFound       = "NO_CASES_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorCode maps an error returned by this package to its API error code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrEmptyInput):
		return CodeEmptyInput
	case errors.Is(err, ErrIngredientNotFound):
		return CodeIngredientNotFound
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMenuNotFound):
		return CodeNotFound
	case errors.Is(err, ErrEmailTaken):
		return CodeConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrImagesDisabled):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}

// invalidInput wraps validator failures as ErrInvalidInput with one message per field.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
