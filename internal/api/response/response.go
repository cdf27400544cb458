package response

import (
	"net/http"

	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应信封，success 由状态码推导
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// JSON 按状态码输出成功信封
func JSON(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, message, data)
}

func Fail(c *gin.Context, statusCode int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}

// Error 业务错误按种类映射状态码，其他错误一律 500 且不暴露细节
func Error(c *gin.Context, err error) {
	if appErr := errcode.From(err); appErr != nil {
		status := appErr.Status()
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(err),
			)
		}
		Fail(c, status, appErr.Message, appErr.Errors...)
		return
	}

	logger.Error("Unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	InternalError(c, "服务器内部错误")
}

func BadRequest(c *gin.Context, message string, errs ...string) {
	Fail(c, http.StatusBadRequest, message, errs...)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
