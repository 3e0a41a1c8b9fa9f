package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/cristianvalmo/buscacursos-api/internal/models"
)

// RegisterValidators attaches the catalog-specific binding rules to gin's
// validator engine. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("sigla", func(fl validator.FieldLevel) bool {
		return models.ValidCode(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("term", func(fl validator.FieldLevel) bool {
		return models.ValidTerm(fl.Field().String())
	})
}
