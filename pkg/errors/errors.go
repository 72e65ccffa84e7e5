package errors

import (
	"errors"
	"fmt"
	"net/http"

	"ordercore/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodeInvalidOrderState  ErrorCode = "INVALID_ORDER_STATE"
	CodeTransitionRejected ErrorCode = "TRANSITION_REJECTED"
	CodePersistence        ErrorCode = "PERSISTENCE_FAILURE"
	CodeNotImplemented     ErrorCode = "NOT_IMPLEMENTED"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidOrderState:
		return http.StatusConflict
	case CodeTransitionRejected:
		return http.StatusUnprocessableEntity
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeNotImplemented:
		return http.StatusNotImplemented
	case CodePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误.
// Storage failures keep the driver error in Err but never in Message.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, shared.ErrNotImplemented):
		return Wrap(err, CodeNotImplemented, err.Error())
	case errors.Is(err, shared.ErrPersistence):
		return Wrap(err, CodePersistence, "storage backend unavailable")
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrInvalidTransition):
		return Wrap(err, CodeInvalidOrderState, err.Error())
	case errors.Is(err, shared.ErrTransitionRejected):
		return Wrap(err, CodeTransitionRejected, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
