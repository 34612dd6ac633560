package response

import (
	"github.com/gofiber/fiber/v2"
)

// Every error body has the shape {"error": "<message>"} so clients can
// rely on a single key regardless of status code. Validation failures
// are the one exception: they surface as a field-keyed object.

// JSON writes data with the given status code.
func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success returns a 200 response with the payload as the body.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent returns a 204 No Content response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{"error": message})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Authentication credentials were not provided"
	}
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Not found"
	}
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict reports a uniqueness violation. Conflicts are surfaced as
// 400 with the same user-facing message as the handler's pre-check, so
// a constraint race never leaks a raw storage error.
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, message)
}

// ValidationErrors returns a 400 response whose body is a field-keyed
// map of messages produced by the request validator.
func ValidationErrors(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fields)
}
