package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshfold/freshfold-backend/internal/pkg/apierr"
)

type APIError struct {
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service error onto the wire. Unexpected errors are
// reported generically without internal detail.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae.Code == apierr.CodeInternal {
		RespondError(c, http.StatusInternalServerError, ae.Code, nil)
		return
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: ae.Error(),
			Code:    ae.Code,
			Meta:    ae.Meta,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
