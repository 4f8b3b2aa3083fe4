package handlers

import (
	"fmt"
	"log"
	"net/http"

	"lapak/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP status. Internal failures
// get a generic body so storage details never leak to the caller.
func respondError(c *fiber.Ctx, err error, msg string) error {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
		return c.Status(status).JSON(fiber.Map{
			"message": msg,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": msg,
		"error":   err.Error(),
	})
}

// respondValidationErrors renders validator failures field by field.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
