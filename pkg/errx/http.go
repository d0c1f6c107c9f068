package errx

import "net/http"

// HTTPStatusOf returns the status carried by err, or 500 when err is not an *Error.
func HTTPStatusOf(err error) int {
	var e *Error
	if As(err, &e) {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

// CodeOf returns the registered code carried by err, or "" when err is not an *Error.
func CodeOf(err error) string {
	var e *Error
	if As(err, &e) {
		return e.Code
	}
	return ""
}
