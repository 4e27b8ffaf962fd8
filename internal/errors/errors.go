package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a request-level failure that carries its own status and code,
// as opposed to an AppError raised by the load cycle.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// InvalidParameter reports a query parameter that could not be used. The
// parameter name is returned as details.
func InvalidParameter(name, value string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_PARAMETER",
		Message:    fmt.Sprintf("invalid value %q for %s", value, name),
		Details:    name,
	}
}
