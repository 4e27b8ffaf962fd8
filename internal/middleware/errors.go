package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	apperrors "proddash/internal/errors"
)

// Problem is the RFC 7807 body written by middleware that rejects a request
// before it reaches a handler.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

// Render sets the status; render.Render writes the JSON body.
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          apperrors.TypeValidation,
	http.StatusNotFound:            apperrors.TypeNotFound,
	http.StatusMethodNotAllowed:    apperrors.TypeMethodNotAllowed,
	http.StatusTooManyRequests:     apperrors.TypeRateLimit,
	http.StatusInternalServerError: apperrors.TypeInternal,
	http.StatusServiceUnavailable:  apperrors.TypeServiceDown,
	http.StatusGatewayTimeout:      apperrors.TypeTimeout,
}

// ProblemFromStatus builds a Problem titled with the standard status text.
// Statuses without a dedicated type get "/errors/unknown".
func ProblemFromStatus(status int, detail, traceID string) Problem {
	problemType, ok := problemTypes[status]
	if !ok {
		problemType = "/errors/unknown"
	}
	return Problem{
		Type:   problemType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Trace:  traceID,
	}
}
