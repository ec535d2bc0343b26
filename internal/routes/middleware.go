package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダー名です。
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestIDMiddleware はリクエストIDをコンテキストとレスポンスヘッダーに設定するミドルウェアです。
// クライアントが X-Request-ID を送ってきた場合はそれを引き継ぎ、無ければUUIDを採番します。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// accessLogFormatter は gin のアクセスログにリクエストIDを付加します。
func accessLogFormatter(param gin.LogFormatterParams) string {
	requestID, _ := param.Keys[requestIDKey].(string)
	return fmt.Sprintf("[GIN] %s | %s | %3d | %13v | %15s | %-7s %#v\n%s",
		param.TimeStamp.Format(time.RFC3339),
		requestID,
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		param.Path,
		param.ErrorMessage,
	)
}
