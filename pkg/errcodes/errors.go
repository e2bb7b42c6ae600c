package errcodes

import (
	"fmt"
	"net/http"
)

// Error is an error that maps directly onto an HTTP response.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	*te = *err
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return *te == *err
}

func BadRequest(msg string) error {
	return &Error{http.StatusBadRequest, msg, "bad_request"}
}

func Unauthorized(msg string) error {
	return &Error{http.StatusUnauthorized, msg, "unauthorized"}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{http.StatusForbidden, action + " is not allowed.", "forbidden"}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{http.StatusNotFound, resource + " not found.", "not_found"}
}

// Conflict returns a 409 error for a resource that already exists.
func Conflict(resource string) error {
	return &Error{http.StatusConflict, resource + " already exists.", "conflict"}
}

func UnsupportedMediaType() error {
	return &Error{http.StatusUnsupportedMediaType, "Unsupported Media Type", "unsupported_media_type"}
}

func UnknownParameter(param string) error {
	return &Error{http.StatusUnprocessableEntity, fmt.Sprintf("Unknown Parameter %q", param), "unknown_parameter"}
}

func ValidationTypeError(msg string) error {
	return &Error{http.StatusUnprocessableEntity, msg, "validation_type_error"}
}

func ValidationError(msg string) error {
	return &Error{http.StatusUnprocessableEntity, msg, "validation_error"}
}

// InvalidBook is returned when an uploaded or registered file isn't a
// readable EPUB.
func InvalidBook(reason string) error {
	return &Error{http.StatusUnprocessableEntity, "Invalid book: " + reason, "invalid_book"}
}

func MalformedPayload() error {
	return &Error{http.StatusBadRequest, "Malformed Payload", "malformed_payload"}
}

func EmptyRequestBody() error {
	return &Error{http.StatusBadRequest, "Request body can't be empty.", "empty_request_body"}
}
