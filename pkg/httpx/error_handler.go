package httpx

import (
	"errors"

	"github.com/Abraxas-365/userservice/pkg/errx"
	"github.com/Abraxas-365/userservice/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorData is the data member of an error envelope.
type ErrorData struct {
	Code            string         `json:"code"`
	Type            string         `json:"type,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	RequestID       string         `json:"request_id,omitempty"`
	UnderlyingError string         `json:"underlying_error,omitempty"`
}

// NewErrorHandler converts handler errors into error envelopes. Only
// *errx.Error messages reach the client; anything else is an opaque 500.
// With debug set, the wrapped cause of an *errx.Error is included.
func NewErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)

		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": requestID,
			"user_agent": c.Get(fiber.HeaderUserAgent),
		}).Errorf("Request error: %v", err)

		var appErr *errx.Error
		if errors.As(err, &appErr) {
			data := ErrorData{
				Code:      appErr.Code,
				Type:      string(appErr.Type),
				RequestID: requestID,
			}
			if len(appErr.Details) > 0 {
				data.Details = appErr.Details
			}
			if debug && appErr.Err != nil {
				data.UnderlyingError = appErr.Err.Error()
			}
			return Respond(c, appErr.HTTPStatus, appErr.Message, data)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Respond(c, fiberErr.Code, fiberErr.Message, ErrorData{
				Code:      "HTTP_ERROR",
				RequestID: requestID,
			})
		}

		return Respond(c, fiber.StatusInternalServerError, "Internal Server Error", ErrorData{
			Code:      "INTERNAL_ERROR",
			Type:      string(errx.TypeInternal),
			RequestID: requestID,
		})
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return Respond(c, fiber.StatusNotFound, "The requested endpoint does not exist", fiber.Map{
		"code":   "NOT_FOUND",
		"path":   c.Path(),
		"method": c.Method(),
	})
}
