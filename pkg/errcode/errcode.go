// Package errcode 定义业务错误类型，错误种类直接决定 HTTP 状态码
package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误种类
type Kind string

const (
	KindBadRequest      Kind = "BAD_REQUEST"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindUpstream        Kind = "UPSTREAM_ERROR"
	KindInternal        Kind = "INTERNAL_ERROR"
)

var statusByKind = map[Kind]int{
	KindBadRequest:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindTooManyRequests: http.StatusTooManyRequests,
	KindUpstream:        http.StatusBadGateway,
	KindInternal:        http.StatusInternalServerError,
}

// AppError 业务错误
type AppError struct {
	Kind    Kind
	Message string
	// Errors 附加的字段级错误信息，原样输出到响应体的 errors 数组
	Errors []string
	Cause  error

	origin *AppError
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status 返回对应的 HTTP 状态码
func (e *AppError) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Is 同一个哨兵错误经 Wrap 后仍然可以被 errors.Is 识别
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.origin != nil && e.origin == t)
}

// WithDetails 返回附带字段错误的副本，不修改哨兵本身
func (e *AppError) WithDetails(details ...string) *AppError {
	cp := *e
	cp.Errors = append(append([]string{}, e.Errors...), details...)
	cp.origin = e.root()
	return &cp
}

// Wrap 返回附带底层原因的副本
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	cp.origin = e.root()
	return &cp
}

func (e *AppError) root() *AppError {
	if e.origin != nil {
		return e.origin
	}
	return e
}

func newErr(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func BadRequest(msg string) *AppError      { return newErr(KindBadRequest, msg) }
func Unauthenticated(msg string) *AppError { return newErr(KindUnauthenticated, msg) }
func Forbidden(msg string) *AppError       { return newErr(KindForbidden, msg) }
func NotFound(msg string) *AppError        { return newErr(KindNotFound, msg) }
func Conflict(msg string) *AppError        { return newErr(KindConflict, msg) }
func TooManyRequests(msg string) *AppError { return newErr(KindTooManyRequests, msg) }

// Upstream 外部依赖（媒体存储等）失败
func Upstream(msg string, cause error) *AppError {
	e := newErr(KindUpstream, msg)
	e.Cause = cause
	return e
}

// Internal 存储层或其他未预期的失败
func Internal(cause error) *AppError {
	e := newErr(KindInternal, "服务器内部错误")
	e.Cause = cause
	return e
}

// From 从错误链中取出 AppError，没有则返回 nil
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// KindOf 返回错误种类，非 AppError 视为内部错误
func KindOf(err error) Kind {
	if appErr := From(err); appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}
