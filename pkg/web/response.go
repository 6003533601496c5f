// Package web defines common components for a web application.
package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into the common response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns human readable suffix for the failed validation of the field.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "oneof":
		return " must be one of " + fe.Param()
	case "currency", "calcclass":
		return " is not supported"
	case "numeric", "number":
		return " must be a number"
	}

	return " is invalid"
}

// ValidationMsg turns a binding error into a message for the client.
//
// Errors other than validation failures, like malformed JSON, yield a generic message.
func ValidationMsg(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	field := ve[0]

	return field.Field() + GetErrorMsg(field)
}
