package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/model"
)

// Validator adapts validator/v10 to echo.Validator. Failures come back as
// *apperrors.ValidationError naming the JSON fields that failed.
type Validator struct {
	validator *validator.Validate
}

// NewValidator builds a Validator with the "category" tag registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseCategory(fl.Field().String())
		return ok
	})
	return &Validator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperrors.NewValidationError(fields...)
}
