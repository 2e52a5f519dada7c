package response

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Error string `json:"error"`
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// SoftError reports a per-request problem the client should read from the
// body: the HTTP status stays 200.
func SoftError(c *gin.Context, message string) {
	Error(c, 200, message)
}
