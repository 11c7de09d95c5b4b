package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrValidation is returned when a request is malformed or misses required fields.
	ErrValidation = errors.New("validation failed")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when no bearer token is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("insufficient privileges")
	// ErrInvalidToken is returned when a token fails signature or format checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrderNotFound is returned when an order is not found for the caller.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrPostNotFound is returned when a blog post is not found.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrTimeout is returned when a store call exceeds its deadline.
	ErrTimeout = errors.New("store operation timed out")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var mappings = []struct {
	target error
	status int
	code   string
}{
	{ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
	{ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidToken, http.StatusForbidden, "INVALID_TOKEN"},
	{ErrExpiredToken, http.StatusForbidden, "EXPIRED_TOKEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
	{ErrTimeout, http.StatusInternalServerError, "TIMEOUT"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors keep their
// full message so validation details reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			if m.status == http.StatusInternalServerError {
				return NewHTTPError(m.status, m.target.Error(), m.code)
			}
			return NewHTTPError(m.status, err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// codeForStatus names errors raised by echo itself (routing, auth).
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// fromEcho folds echo's own statuses into 400, 401, 403, 404 and 500. An
// oversized body is a validation failure and an unsupported method on a known
// path is reported like an unknown route.
func fromEcho(echoErr *echo.HTTPError) (int, ErrorResponse) {
	switch echoErr.Code {
	case http.StatusRequestEntityTooLarge:
		return http.StatusBadRequest, ErrorResponse{Error: "request body too large", Code: "VALIDATION_ERROR"}
	case http.StatusMethodNotAllowed:
		return http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound), Code: "NOT_FOUND"}
	}

	switch msg := echoErr.Message.(type) {
	case ErrorResponse:
		return echoErr.Code, msg
	case string:
		return echoErr.Code, ErrorResponse{Error: msg, Code: codeForStatus(echoErr.Code)}
	default:
		return echoErr.Code, ErrorResponse{Error: http.StatusText(echoErr.Code), Code: codeForStatus(echoErr.Code)}
	}
}

// ToHTTP converts any handler error into a status code and response body.
func ToHTTP(err error) (int, ErrorResponse) {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return fromEcho(echoErr)
	}

	httpErr := MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// NewErrorHandler returns an echo.HTTPErrorHandler rendering every error as
// an ErrorResponse. onInternal is called for 5xx responses.
func NewErrorHandler(onInternal func(c echo.Context, err error)) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := ToHTTP(err)
		if status >= http.StatusInternalServerError && onInternal != nil {
			onInternal(c, err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
