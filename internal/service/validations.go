package service

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
			switch entity.Frequency(fl.Field().String()) {
			case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyMonthly:
				return true
			}
			return false
		})
		// max counts runes, bcrypt counts bytes
		validate.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= maxPasswordBytes
		})
		validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			switch entity.Role(fl.Field().String()) {
			case entity.RoleAdmin, entity.RoleUser:
				return true
			}
			return false
		})
	})
}

// validateStruct reports missing required fields as ErrMissingFields and any
// other rule failure as ErrValidation, joined with the field errors.
func validateStruct(s any) error {
	InitValidator()
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.New("validation unexpected error: " + err.Error())
	}
	kind := errorvalues.ErrValidation
	joined := make([]error, 0, len(fieldErrs)+1)
	for _, fieldErr := range fieldErrs {
		switch fieldErr.Tag() {
		case "required":
			kind = errorvalues.ErrMissingFields
		case "bcryptmax":
			if kind != errorvalues.ErrMissingFields {
				kind = errorvalues.ErrPasswordTooLong
			}
		}
		joined = append(joined, fieldErr)
	}
	return errors.Join(append([]error{kind}, joined...)...)
}
