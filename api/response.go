package api

import "github.com/gin-gonic/gin"

// Envelope is the uniform response shape of the upload route, kept
// compatible with the clients consuming it: code 200 means success,
// 401 missing/invalid credential, 405 malformed body, 500 backend failure
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{
		Code:    code,
		Message: message,
		Data:    data,
	})
}
