package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"activity-enroll-system/config"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应体
type ResponseBody struct {
	Code   int32           `json:"code"`
	Msg    string          `json:"msg"`
	Origin string          `json:"origin,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Success 返回成功响应，data 最多传一个
func Success(c *gin.Context, data ...any) {
	body := gin.H{
		"code": int32(200),
		"msg":  "success",
	}
	if len(data) > 0 && data[0] != nil {
		body["data"] = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 返回业务失败响应
// err 不是 *Error 时按内部错误处理；Origin 仅在 debug 模式下回传给前端
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrInternal.WithOrigin(err)
	}

	body := gin.H{
		"code": e.Code,
		"msg":  e.Message,
	}
	if config.Get().Mode == config.ModeDebug && e.Origin != "" {
		body["origin"] = e.Origin
	}

	// 供 Sentry 中间件上报
	c.Set(ErrorContextKey, e)

	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler panic，上报 Sentry 并返回内部错误
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.RecoverWithContext(c.Request.Context(), r)
		} else {
			sentrylib.CurrentHub().Recover(r)
		}
		c.Abort()
		Fail(c, ErrInternal)
	}
}
