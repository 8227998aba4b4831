package utils

import "github.com/gin-gonic/gin"

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// OK writes {success:true, data}.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Fail writes {success:false, error:{code,message}}.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"success": false, "error": ErrorBody{Code: code, Message: message}})
}

// FailWithDetails writes {success:false, error:{code,message,details}}.
func FailWithDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{"success": false, "error": ErrorBody{Code: code, Message: message, Details: details}})
}

// AbortFail writes a denial and stops the handler chain.
func AbortFail(c *gin.Context, status int, code, message string) {
	Fail(c, status, code, message)
	c.Abort()
}

// AbortFailWithDetails writes a denial with details and stops the chain.
func AbortFailWithDetails(c *gin.Context, status int, code, message string, details interface{}) {
	FailWithDetails(c, status, code, message, details)
	c.Abort()
}
