package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/exonyb/backoffice/internal/domain/identity"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures gin's validator: errors name fields by their JSON
// (or form) tag and the "permission" tag checks resource:action codes.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		_, err := identity.ParsePermission(fl.Field().String())
		return err == nil
	})
}

// BindingError converts a gin binding error into a DomainError.
// Validation failures carry one detail per field.
func BindingError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]shared.FieldError, 0, len(verrs))
		for _, e := range verrs {
			details = append(details, shared.FieldError{
				Field:   fieldPath(e),
				Message: validationMessage(e),
			})
		}
		return shared.NewValidationError("Request validation failed", details...)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return shared.NewBadRequestError("INVALID_JSON", "Request body is empty")
	case errors.As(err, &syntaxErr):
		return shared.NewBadRequestError("INVALID_JSON", "Request body is not valid JSON")
	case errors.As(err, &typeErr):
		return shared.NewValidationError("Request validation failed", shared.FieldError{
			Field:   typeErr.Field,
			Message: "Must be a " + typeErr.Type.String(),
		})
	}
	return shared.NewBadRequestError("INVALID_INPUT", err.Error())
}

// fieldPath drops the top-level struct name, "CreateOrderRequest.lines[0].quantity"
// becomes "lines[0].quantity"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "permission":
		return "Unknown permission code"
	case "min":
		if isString {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if isString {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "ne":
		return "Must not be " + e.Param()
	}
	return "Invalid value"
}
