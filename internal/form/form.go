// Package form validates task creation input before it reaches the store.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Draft is the input of the task creation form. Values are kept exactly as
// entered; trimming only applies to the emptiness check.
type Draft struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Validate checks the draft. The error names the first missing field, e.g.
// "title required".
func Validate(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%s required", verrs[0].Field())
	}
	return err
}

// Valid reports whether the draft may be submitted.
func Valid(d Draft) bool {
	return Validate(d) == nil
}
