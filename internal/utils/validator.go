// internal/utils/validator.go
package utils

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("clean_content", validateCleanContent)
	validate.RegisterValidation("strong_password", validateStrongPassword)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Terms that get a submission rejected outright. Matching is a
// case-insensitive substring check over the field value, so inflected forms
// sharing the root still match ("дешево" in "Купи дешево...").
var bannedWords = []string{
	"казино",
	"криптовалюта",
	"крипта",
	"биржа",
	"дешево",
	"бесплатно",
	"обман",
	"полиция",
	"радар",
	"casino",
	"crypto",
	"free",
	"discount",
	"fraud",
	"police",
	"radar",
}

// ContainsBannedWord returns the first denylisted term found in value, or ""
// when the value is clean.
func ContainsBannedWord(value string) string {
	lowered := strings.ToLower(value)
	for _, word := range bannedWords {
		if strings.Contains(lowered, word) {
			return word
		}
	}
	return ""
}

func validateCleanContent(fl validator.FieldLevel) bool {
	return ContainsBannedWord(fl.Field().String()) == ""
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 {
		return false
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	return hasLetter && hasNumber
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "clean_content":
		return e.Field() + " contains prohibited terms"
	case "strong_password":
		return "Password must be at least 8 characters and contain letters and numbers"
	default:
		return e.Field() + " is invalid"
	}
}
