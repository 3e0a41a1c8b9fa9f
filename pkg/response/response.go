package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/cristianvalmo/buscacursos-api/pkg/errors"
)

// Envelope is the common response contract: every reply carries a success
// flag, an optional payload, a human-readable message and request metadata.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   *appErrors.Error       `json:"error,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success envelope.
func JSON(c *gin.Context, status int, data interface{}, message string, meta map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data, Message: message, Meta: meta})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}, message string, meta map[string]interface{}) {
	JSON(c, http.StatusOK, data, message, meta)
}

// Error sends an error envelope converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Success: false, Message: appErr.Message, Error: appErr})
}
