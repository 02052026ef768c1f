package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, success bool, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusOK, true, message, data)
}

// Created returns a success response for newly created resources.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusCreated, true, message, data)
}

// Fail returns a standard error response with a null data field.
func Fail(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, false, message, nil)
}

// FailData returns an error response carrying detail data, e.g. a list of
// validation messages.
func FailData(ctx *gin.Context, status int, message string, data interface{}) {
	Respond(ctx, status, false, message, data)
}
