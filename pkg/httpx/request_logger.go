package httpx

import (
	"encoding/json"
	"time"

	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one entry per request with the envelope message of the
// response. Errors are rendered here so the logged status is the final one.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := logx.Fields{
			"url":             c.Path(),
			"method":          c.Method(),
			"status_code":     status,
			"processing_time": time.Since(start).Seconds(),
			"request_id":      c.GetRespHeader(fiber.HeaderXRequestID),
		}

		var env struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(c.Response().Body(), &env) == nil && env.Message != "" {
			fields["response_message"] = env.Message
		}

		entry := logx.WithFields(fields)
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request completed")
		} else {
			entry.Info("Request completed")
		}
		return nil
	}
}
