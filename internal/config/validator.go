package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	storageDrivers = map[string]struct{}{"file": {}, "sqlite": {}}
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("kv_driver", func(fl validator.FieldLevel) bool {
			_, ok := storageDrivers[fl.Field().String()]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// convertValidationError normalizes validator errors into picgrid validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := keyName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return apperrors.NewValidationError(field, msg, err)
	}

	return apperrors.NewValidationError("config", err.Error(), err)
}

// keyName turns "Config.catalog.page_size" into "catalog.page_size".
func keyName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}
