package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform JSON body for every endpoint:
// {"status":"success","data":...} on success (plus "results" on lists),
// {"status":"error","message":...} on failure.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Status: "success", Data: data})
}

// SuccessToken is used by credential-issuing endpoints that return a token
// next to (or instead of) a data payload.
func SuccessToken(c *gin.Context, status int, token string, data any) {
	c.JSON(status, Envelope{Status: "success", Token: token, Data: data})
}

// List writes a success envelope carrying the matched set and its count.
func List(c *gin.Context, data any, results int) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Results: &results, Data: data})
}

// NoContent signals a successful delete. 204 responses carry no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Status: "error", Message: message})
}

// ErrorDetails carries field-level validation messages next to the message.
func ErrorDetails(c *gin.Context, status int, message string, details any) {
	c.JSON(status, Envelope{Status: "error", Message: message, Details: details})
}

// AbortError is Error for middleware, stopping the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Status: "error", Message: message})
}
