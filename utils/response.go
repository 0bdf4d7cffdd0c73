package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// API responses use a uniform envelope: {"data": ...} on success,
// {"error": {"message": ..., "code": ...}} on failure.

// ErrorBody is the failure half of the envelope.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Success writes a 200 data envelope.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 data envelope.
func Created(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, gin.H{"data": data})
}

// Error writes an error envelope with the given status.
func Error(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, gin.H{"error": ErrorBody{Message: message, Code: code}})
}

// ErrorFrom maps a classified error onto the envelope. Internal causes are
// logged here and never leak past the boundary message.
func ErrorFrom(ctx *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Kind == KindInternal && Sugar != nil {
		Sugar.Errorw("request failed",
			"path", ctx.FullPath(),
			"method", ctx.Request.Method,
			"error", appErr.Error(),
		)
	}
	Error(ctx, appErr.Kind.HTTPStatus(), appErr.Code, appErr.Message)
}
