package httpbase

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrBody is the error envelope every failing route returns.
type ErrBody struct {
	Message string `json:"message"`
}

// OK responds the client with standard JSON.
//
// Example:
// * OK(c, gin.H{"success": true})
func OK(c *gin.Context, data any) {
	c.PureJSON(http.StatusOK, data)
}

// Created responds with 201 and the given body.
func Created(c *gin.Context, data any) {
	c.PureJSON(http.StatusCreated, data)
}

// BadRequest responds with a JSON-formatted error message.
//
// Example:
//
//	BadRequest(c, "Invalid request parameters")
func BadRequest(c *gin.Context, errMsg string) {
	c.PureJSON(http.StatusBadRequest, ErrBody{
		Message: errMsg,
	})
}

// NotFoundError responds with a JSON-formatted error message.
//
// Example:
//
//	NotFoundError(c, "no release available")
func NotFoundError(c *gin.Context, errMsg string) {
	c.PureJSON(http.StatusNotFound, ErrBody{
		Message: errMsg,
	})
}

// ServerError responds with a JSON-formatted error message.
//
// Example:
//
//	ServerError(c, errors.New("internal server error"))
func ServerError(c *gin.Context, err error) {
	c.PureJSON(http.StatusInternalServerError, ErrBody{
		Message: err.Error(),
	})
}
