package ginx

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"courier/marcas/internal/app/pkg/errorx"
)

// Response 统一响应结构
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

// Meta 元数据
type Meta struct {
	Code    int           `json:"code" example:"200"`
	Type    string        `json:"type" example:"OK"`
	Message string        `json:"message" example:"OK"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string `json:"path" example:"motivoMarca"`
	Info string `json:"info" example:"motivoMarca is required"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    200,
			Type:    "OK",
			Message: "OK",
		},
		Data: data,
	})
}

// Error 错误响应（400/500）
func Error(c *gin.Context, httpCode int, errType string, message string) {
	ErrorWithDetails(c, httpCode, errType, message, nil)
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpCode int, errType string, message string, details []ErrorDetail) {
	c.AbortWithStatusJSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Type:    errType,
			Message: message,
			Details: details,
		},
	})
}

// FromError 业务错误 -> HTTP 响应；未知错误统一 500
func FromError(c *gin.Context, err error) {
	if bizErr, ok := errorx.As(err); ok {
		ErrorWithDetails(c, bizErr.Code.HTTPStatus(), string(bizErr.Code), bizErr.Message, toDetails(bizErr.Details))
		return
	}
	InternalError(c, "Error interno del servidor")
}

// BadRequestWithValidation 400 错误（带验证详情）
func BadRequestWithValidation(c *gin.Context, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		ErrorWithDetails(c, http.StatusBadRequest, string(errorx.CodeInvalidRequest), "Validation failed", details)
		return
	}

	Error(c, http.StatusBadRequest, string(errorx.CodeInvalidRequest), err.Error())
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, string(errorx.CodeInternal), message)
}

// toDetails map 详情按 key 排序输出，保证响应稳定
func toDetails(details map[string]interface{}) []ErrorDetail {
	if len(details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ErrorDetail, 0, len(keys))
	for _, k := range keys {
		out = append(out, ErrorDetail{Path: k, Info: fmt.Sprint(details[k])})
	}
	return out
}

// getValidationErrorMessage 根据验证错误类型返回友好的错误消息
func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "gt":
		return fieldErr.Field() + " must be greater than " + fieldErr.Param()
	case "dive":
		return fieldErr.Field() + " contains an invalid element"
	default:
		return fieldErr.Field() + " is invalid"
	}
}
