package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eduplay/session-service/internal/models"
)

// New builds the struct validator with the engine's custom rules registered.
func New() *validator.Validate {
	validate := validator.New()

	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("session_status", validateSessionStatus)
	validate.RegisterValidation("confidence_level", validateConfidenceLevel)

	// Report json field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func validateQuestionType(fl validator.FieldLevel) bool {
	_, err := models.ParseQuestionType(fl.Field().String())
	return err == nil
}

func validateSessionStatus(fl validator.FieldLevel) bool {
	_, err := models.ParseSessionStatus(fl.Field().String())
	return err == nil
}

func validateConfidenceLevel(fl validator.FieldLevel) bool {
	_, err := models.ParseConfidenceLevel(fl.Field().String())
	return err == nil
}
