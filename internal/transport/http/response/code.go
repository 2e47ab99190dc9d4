package response

import "net/http"

// Error codes mirror HTTP status codes.
const (
	CodeBadRequest   = http.StatusBadRequest
	CodeUnauthorized = http.StatusUnauthorized
	CodeNotFound     = http.StatusNotFound
	CodeTooMany      = http.StatusTooManyRequests
	CodeServerError  = http.StatusInternalServerError
	CodeUnavailable  = http.StatusServiceUnavailable
	CodeTimeout      = http.StatusGatewayTimeout
)

var CodeMsgMap = map[int]string{
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeNotFound:     "Not Found",
	CodeTooMany:      "Too Many Requests",
	CodeServerError:  "Internal Server Error",
	CodeUnavailable:  "Service Unavailable",
	CodeTimeout:      "Gateway Timeout",
}
