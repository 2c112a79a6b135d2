package response

import (
	"chapterSite/internal/lib/validation"
)

type Response struct {
	Status  string                  `json:"status"`
	Error   string                  `json:"error,omitempty"`
	Details []validation.FieldError `json:"details,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError carries every rejected field in Details so clients can
// highlight them individually.
func ValidationError(errs validation.Errors) Response {
	return Response{
		Status:  StatusError,
		Error:   "validation failed",
		Details: errs,
	}
}
