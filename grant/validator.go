package grant

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/carewell-hms/permadmin/permission"
	playgroundvalidator "github.com/go-playground/validator/v10"
)

// ValidationErrors wraps the validator's field errors.
type ValidationErrors []playgroundvalidator.FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Fields lists the json names of the failing fields.
func (ve ValidationErrors) Fields() []string {
	out := make([]string, len(ve))
	for i, err := range ve {
		out[i] = err.Field()
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *playgroundvalidator.Validate
)

func validatorInstance() *playgroundvalidator.Validate {
	validateOnce.Do(func() {
		v := playgroundvalidator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("permission", validatePermission); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// validatePermission accepts an empty value; presence is checked by other tags.
func validatePermission(fl playgroundvalidator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || permission.IsValid(s)
}

// Validate checks a struct against its validate tags.
func Validate(i interface{}) error {
	if err := validatorInstance().Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}
