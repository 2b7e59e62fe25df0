package utils

import (
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/coursekit/quiz-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the service's custom rules and
// translates failures into the shared ValidationErrors type.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if ve := apperrors.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Custom validation functions

var languageCodePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// ValidateLanguageCode accepts ISO 639-1 codes with an optional region
// subtag ("en", "nl", "pt-BR").
func ValidateLanguageCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return languageCodePattern.MatchString(value)
}

// ValidateQuestionCount bounds requested quiz sizes to what one generation
// round can reliably produce.
func ValidateQuestionCount(fl validator.FieldLevel) bool {
	count := fl.Field().Int()
	return count >= 1 && count <= 20
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("language_code", ValidateLanguageCode)
	validate.RegisterValidation("question_count", ValidateQuestionCount)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
