package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码：1xxxxx 请求参数错误，3xxxxx 任务服务错误
const (
	CodeSuccess = 0

	CodeInvalidParam     = 100001
	CodeEmptyDescription = 100002
	CodeInvalidFilter    = 100003

	CodeQueryFailed   = 300001
	CodeCreateFailed  = 300002
	CodeLookupFailed  = 300003
	CodeTaskNotFound  = 300004
	CodeUpdateFailed  = 300005
	CodeDeleteFailed  = 300006
	CodeClearFailed   = 300007
	CodeViewFailed    = 300008
	CodeServiceClosed = 300009
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
	})
}

// ErrorWithDetail 带详情的错误响应，detail 一般是底层错误信息
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}

// NotFound 资源不存在
func NotFound(c *gin.Context, errCode int, message string) {
	Error(c, http.StatusNotFound, errCode, message)
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, errCode int, message string) {
	Error(c, http.StatusBadRequest, errCode, message)
}
