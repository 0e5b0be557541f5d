package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 稳定的业务错误码，对外暴露给调用方
type Code string

const (
	CodeInvalidManifestFormat   Code = "INVALID_MANIFIESTO_FORMAT"
	CodeInvalidGuideFormat      Code = "INVALID_GUIA_FORMAT"
	CodeInvalidMotive           Code = "INVALID_MOTIVO_MARCA"
	CodeEmptyGuideSet           Code = "EMPTY_GUIDE_SET"
	CodeDiscardReasonTooShort   Code = "DISCARD_REASON_TOO_SHORT"
	CodeInvalidRequest          Code = "INVALID_REQUEST"
	CodeManifestNotFound        Code = "MANIFIESTO_NOT_FOUND"
	CodeGuideNotFound           Code = "GUIA_NOT_FOUND"
	CodeManifestNotConsolidated Code = "MANIFEST_NOT_CONSOLIDATED"
	CodeDatabaseConnection      Code = "DATABASE_CONNECTION_ERROR"
	CodeRemoteRejected          Code = "REMOTE_REJECTED"
	CodeRemoteCallFailed        Code = "REMOTE_CALL_FAILED"
	CodeGuideRowInvalid         Code = "GUIDE_ROW_INVALID"
	CodeInternal                Code = "INTERNAL_ERROR"
)

// HTTPStatus 错误码到 HTTP 状态码的映射
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidManifestFormat,
		CodeInvalidGuideFormat,
		CodeInvalidMotive,
		CodeEmptyGuideSet,
		CodeDiscardReasonTooShort,
		CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeManifestNotFound, CodeGuideNotFound:
		return http.StatusNotFound
	case CodeManifestNotConsolidated:
		return http.StatusConflict
	case CodeDatabaseConnection:
		return http.StatusServiceUnavailable
	case CodeRemoteRejected:
		return http.StatusUnprocessableEntity
	case CodeRemoteCallFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error 业务错误结构
type Error struct {
	Code      Code
	Message   string
	Details   map[string]interface{}
	Retryable bool // 连接类故障可重试，业务拒绝不可重试
	Cause     error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码匹配，errors.Is(err, errorx.New(CodeX, "")) 即可判断类型
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New 创建业务错误
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap 包装底层错误
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithDetail 附加结构化详情
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// As 提取 *Error；非业务错误返回 false
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf 取错误码，非业务错误归为 INTERNAL_ERROR
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// IsRetryable 是否为可重试（基础设施）故障
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable
}
