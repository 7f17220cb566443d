// Package response centralizes the JSON bodies the API emits. Success
// payloads are written as-is; every error is a {"message": ...} object
// with the matching status code.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MessageBody is the {"message": ...} shape shared by confirmations and
// errors.
type MessageBody struct {
	Message string `json:"message"`
}

// OK writes a 200 with the given payload.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Message writes a 200 confirmation, e.g. {"message": "signed up"}.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error writes an error body with the given status code and aborts the
// handler chain, so middleware can use it too.
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, MessageBody{Message: message})
}
