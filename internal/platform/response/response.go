package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, "NOT_FOUND", message)
}

// Error maps err onto a status code and error code.
func Error(c *gin.Context, err error) {
	status, code := Classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	abort(c, status, code, message)
}

// Classify returns the HTTP status and stable error code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, subscription.ErrInvalidID):
		return http.StatusBadRequest, "INVALID_ID"
	case errors.Is(err, subscription.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, subscription.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, subscription.ErrTerminalState):
		return http.StatusConflict, "TERMINAL_STATE"
	case errors.Is(err, subscription.ErrNoOpTransition):
		return http.StatusConflict, "NO_OP_TRANSITION"
	case errors.Is(err, subscription.ErrIllegalTransition):
		return http.StatusConflict, "ILLEGAL_TRANSITION"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
