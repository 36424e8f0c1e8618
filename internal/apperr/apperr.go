package apperr

import (
	"errors"
	"net/http"
)

// Error 统一错误对象：Status 为 HTTP 状态码，Msg 直接返回给客户端，Err 只进日志
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &Error{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Status: http.StatusNotFound, Msg: msg} }
func TooLarge(msg string) error     { return &Error{Status: http.StatusRequestEntityTooLarge, Msg: msg} }

// Conflict 重复资源（沿用 422）
func Conflict(msg string) error { return &Error{Status: http.StatusUnprocessableEntity, Msg: msg} }

func Internal(msg string, err error) error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// StatusOf 非 *Error 一律按 500 处理
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}
