package transport

import (
	"store_opening_backend/internal/projects/domain"
	"store_opening_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// RegisterValidations adds the project tags used by these DTOs to val.
func RegisterValidations(val *validator.Validator) {
	err := val.RegisterValidation("projectstatus", func(fl playground.FieldLevel) bool {
		_, ok := domain.ParseStatus(fl.Field().String())
		return ok
	})
	if err != nil {
		panic("projects: register validations: " + err.Error())
	}
}
