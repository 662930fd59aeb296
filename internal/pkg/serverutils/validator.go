package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidationError carries field-level messages for the error handler.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ValidateRequest validates a request DTO against its validate tags.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}

// ErrorHandlerMiddleware converts errors bubbled out of handlers into
// the standard envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if ve, ok := err.(*ValidationError); ok {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(ve.Error()))
		}

		if fe, ok := err.(*fiber.Error); ok {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
