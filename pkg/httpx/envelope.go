// Package httpx holds the HTTP plumbing shared by every route: the response
// envelope, the global error handler and request logging.
package httpx

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform body of every JSON response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes a 200 success envelope.
func OK(c *fiber.Ctx, message string, data any) error {
	return Respond(c, fiber.StatusOK, message, data)
}

// Respond writes an envelope whose status follows the HTTP status code.
func Respond(c *fiber.Ctx, status int, message string, data any) error {
	env := Envelope{Status: StatusSuccess, Message: message, Data: data}
	if status >= fiber.StatusBadRequest {
		env.Status = StatusError
	}
	return c.Status(status).JSON(env)
}
