// Package validation validates structured input with go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/isbn"
)

// Error lists the invalid fields of one value, keyed by field path.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with catalog specific rules.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports yaml field names and knows the
// isbn, role and format tags.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("isbn", func(fl validator.FieldLevel) bool {
		return isbn.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entities.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		f := entities.Format(fl.Field().String())
		if f == entities.FormatUnknown {
			return true
		}
		for _, known := range entities.Formats {
			if f == known {
				return true
			}
		}
		return false
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns an *Error describing every bad field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldPath(e.Namespace())] = friendlyMessage(e)
	}
	return &Error{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "isbn":
		return "must be a valid ISBN-10 or ISBN-13"
	case "role":
		return "must be a credit role"
	case "format":
		return "must be a book format"
	default:
		return "is invalid"
	}
}
