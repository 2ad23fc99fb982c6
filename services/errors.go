package services

import "net/http"

// Error is a failure the HTTP layer can map directly onto a response.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func errBadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func errForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func errNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func errQuotaReached() *Error {
	return &Error{
		Status:  http.StatusForbidden,
		Code:    "MESSAGE_QUOTA_REACHED",
		Message: "Message quota reached, approval required",
	}
}
