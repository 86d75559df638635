package config

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// maxColumnNameLength bounds header names accepted in configuration.
const maxColumnNameLength = 128

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("column_name", validateColumnName)
}

// validateColumnName rejects header names that could never match a trimmed CSV header.
func validateColumnName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	if utf8.RuneCountInString(name) > maxColumnNameLength {
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}
	return !strings.ContainsAny(name, "\r\n")
}
