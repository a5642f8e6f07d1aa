// Package validation wraps go-playground/validator with the rules used by
// request and config structs.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"booklibrary/internal/httpx"
	"booklibrary/internal/isbn"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Replaces the built-in "isbn" rule so requests and the service agree on
	// what a valid identifier is.
	if err := validate.RegisterValidation("isbn", validateISBN); err != nil {
		panic(err)
	}
}

func validateISBN(fl validator.FieldLevel) bool {
	return isbn.IsValid(fl.Field().String())
}

// Struct validates s and returns the raw validator error.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateStruct validates s and returns client-facing field errors, or nil.
func ValidateStruct(s interface{}) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []httpx.ErrorDetail{{Message: err.Error()}}
	}

	details := make([]httpx.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN-10 or ISBN-13", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{
			Field:   strings.ToLower(field),
			Message: message,
		})
	}
	return details
}
