package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/spicedepot/backend/internal/domain/shared/valueobject"
)

// RegisterValidations installs custom request validators on gin's binding
// engine. "unitcode" accepts any unit code the pricing layer understands,
// normalization included, so "KG" and "Kg" pass alongside "kg".
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not *validator.Validate")
	}
	return v.RegisterValidation("unitcode", func(fl validator.FieldLevel) bool {
		_, ok := valueobject.ParseUnit(fl.Field().String())
		return ok
	})
}
