package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
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

// RespondErr maps err through FromError and writes the envelope.
func RespondErr(c *gin.Context, err error) {
	e := FromError(err)
	c.JSON(e.Status, ErrorEnvelope{
		Error: APIError{
			Message: e.Error(),
			Code:    e.Code,
			Details: e.Details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
