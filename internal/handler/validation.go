// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// validationError 是 400 响应体，message 描述首个失败原因，field 指向出错字段。
func validationError(message, field string) gin.H {
	return gin.H{"message": message, "field": field}
}

// bindFailure 把 JSON 绑定错误转换为对外的 {message, field} 结构。
// 类型不匹配时能定位到具体字段，语法错误时 field 为空。
func bindFailure(err error) gin.H {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return validationError(
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()),
			typeErr.Field,
		)
	}
	return validationError("invalid request body", "")
}

// requireNonEmpty 检查一个必填字符串字段。
// 返回空串表示通过，否则返回提示消息。
func requireNonEmpty(value *string, field string) string {
	if value == nil {
		return field + " is required"
	}
	if *value == "" {
		return field + " must not be empty"
	}
	return ""
}
