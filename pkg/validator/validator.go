package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"greenwatch/internal/models"
)

// Init registers the custom binding rules on gin's validator engine.
func Init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("reportcategory", func(fl validator.FieldLevel) bool {
		return models.ReportCategory(fl.Field().String()).IsValid()
	})

	v.RegisterValidation("reportstatus", func(fl validator.FieldLevel) bool {
		return models.ReportStatus(fl.Field().String()).IsValid()
	})
}
