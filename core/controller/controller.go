package controller

import (
	stderrors "errors"
	"net/http"
	"pairtime-api/core/errors"
	"pairtime-api/core/logger"
	"time"

	"github.com/labstack/echo/v4"
)

// Response types
type (
	SuccessResponse struct {
		Status    int       `json:"status"`
		Message   string    `json:"message"`
		Data      any       `json:"data,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}

	ErrorResponse struct {
		Status    string           `json:"status"`
		Code      errors.ErrorCode `json:"code"`
		Message   string           `json:"message"`
		Details   any              `json:"details,omitempty"`
		Timestamp time.Time        `json:"timestamp"`
	}
)

// BaseController is embedded by every module controller
type BaseController interface {
	BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError
	SuccessResponse(c echo.Context, data any, message string) error
	CreatedResponse(c echo.Context, data any, message string) error
	ErrorResponse(c echo.Context, err error) error
}

type responseHandler struct{}

func NewBaseController() BaseController {
	return &responseHandler{}
}

func NewSuccessResponse(httpStatusCode int, data any, message string) *SuccessResponse {
	return &SuccessResponse{
		Status:    httpStatusCode,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func NewErrorResponse(httpStatusCode int, appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	err := &ErrorResponse{
		Status:    "error",
		Code:      appErrCode,
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return echo.NewHTTPError(httpStatusCode, err)
}

// statusByCode maps service error codes onto HTTP statuses; anything else is a 500.
var statusByCode = map[errors.ErrorCode]int{
	errors.ErrInvalidInput:               http.StatusBadRequest,
	errors.ErrInvalidRequestData:         http.StatusBadRequest,
	errors.ErrUnauthorized:               http.StatusUnauthorized,
	errors.ErrTokenExpired:               http.StatusUnauthorized,
	errors.ErrInvalidTokenFormat:         http.StatusUnauthorized,
	errors.ErrMissingAuthorizationHeader: http.StatusUnauthorized,
	errors.ErrForbidden:                  http.StatusForbidden,
	errors.ErrReadOnlySlot:               http.StatusForbidden,
	errors.ErrNotFound:                   http.StatusNotFound,
	errors.ErrAlreadyExists:              http.StatusConflict,
	errors.ErrInvalidTransition:          http.StatusConflict,
	errors.ErrCreateFailed:               http.StatusServiceUnavailable,
	errors.ErrUpdateFailed:               http.StatusServiceUnavailable,
	errors.ErrDeleteFailed:               http.StatusServiceUnavailable,
	errors.ErrGetFailed:                  http.StatusServiceUnavailable,
}

// StatusFor returns the HTTP status for an AppError code.
func StatusFor(code errors.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (h *responseHandler) BadRequest(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusBadRequest, appErrCode, message, details...)
}

func (h *responseHandler) InternalServerError(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusInternalServerError, appErrCode, message, details...)
}

func (h *responseHandler) Unauthorized(appErrCode errors.ErrorCode, message string, details ...any) *echo.HTTPError {
	return NewErrorResponse(http.StatusUnauthorized, appErrCode, message, details...)
}

func (h *responseHandler) SuccessResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, NewSuccessResponse(http.StatusOK, data, message))
}

func (h *responseHandler) CreatedResponse(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, NewSuccessResponse(http.StatusCreated, data, message))
}

// ErrorResponse writes err as JSON. AppErrors keep their code and message;
// other errors become a 500 carrying err's text.
func (h *responseHandler) ErrorResponse(c echo.Context, err error) error {
	httpStatus := http.StatusInternalServerError
	appCode := errors.ErrInternalServer
	msg := "internal server error"

	var ae *errors.AppError
	switch {
	case stderrors.As(err, &ae) && ae != nil:
		appCode = ae.Code
		httpStatus = StatusFor(ae.Code)
		if ae.Message != "" {
			msg = ae.Message
		}
	case err != nil && err.Error() != "":
		msg = err.Error()
	}

	logger.Error("BaseController:ErrorResponse",
		"status", httpStatus,
		"code", appCode,
		"message", msg,
	)
	return c.JSON(httpStatus, &ErrorResponse{
		Status:    "error",
		Code:      appCode,
		Message:   msg,
		Timestamp: time.Now(),
	})
}
