package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard envelope. status mirrors the HTTP
// outcome ("success" or "error"); errors carries validation detail and
// is omitted from the body when nil.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
