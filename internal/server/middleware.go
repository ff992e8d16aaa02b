package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// maxRequestIDLen を超えるIDは受け付けず新しく発行する
	maxRequestIDLen = 128
)

// requestID はリクエストIDを付与するミドルウェア
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestIDFrom はコンテキストからリクエストIDを取り出す
func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// accessLog はリクエストごとに1行のログを出力するミドルウェア
func accessLog(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id": requestIDFrom(c),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"status":     status,
			"bytes":      c.Writer.Size(),
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
		})

		switch {
		case status >= 500:
			entry.Error("リクエストの処理に失敗しました")
		case status >= 400:
			entry.Warn("不正なリクエストです")
		default:
			entry.Info("リクエストを処理しました")
		}
	}
}
