// Package handlers implements the reference engine's HTTP endpoints.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

//Personal.AI order the ending
