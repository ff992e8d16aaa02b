package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pistream/internal/points"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: points.DefaultChunkBytes,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// streamHTTP は点列をチャンク転送でレスポンスボディに流す
func (h *PointsHandler) streamHTTP(c *gin.Context, limit points.Limit) {
	log := h.requestLog(c, limit)

	queue := h.sessions.Open(limit, logrus.Fields{"request_id": requestIDFrom(c)})
	defer queue.Abandon()

	// レスポンスヘッダーを設定して即座に返す
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	writer := c.Writer
	writer.WriteHeaderNow()
	writer.Flush()

	written, err := relay(c.Request.Context(), queue.Chunks(), func(chunk []byte) error {
		if _, err := writer.Write(chunk); err != nil {
			return err
		}
		// バッファをフラッシュ
		writer.Flush()
		return nil
	})
	logFinished(log, written, err)
}

// streamWebSocket は点列をチャンクごとのバイナリメッセージで流す
func (h *PointsHandler) streamWebSocket(c *gin.Context, limit points.Limit) {
	log := h.requestLog(c, limit)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade が既にエラーレスポンスを書いている
		log.WithError(err).Debug("WebSocketへのアップグレードに失敗しました")
		return
	}
	defer conn.Close()

	queue := h.sessions.Open(limit, logrus.Fields{"request_id": requestIDFrom(c)})
	defer queue.Abandon()

	// ハイジャック後はリクエストのコンテキストで切断を検知できないため、読み込みで検知する
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	written, err := relay(ctx, queue.Chunks(), func(chunk []byte) error {
		return conn.WriteMessage(websocket.BinaryMessage, chunk)
	})
	logFinished(log, written, err)
	if err != nil {
		return
	}

	// 上限に達したので正常終了を通知
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		log.WithError(err).Debug("クローズフレームの送信に失敗しました")
	}
}

// relay はキューから届いたチャンクを到着順に send に渡す
// キューがクローズされたら nil、ctx の終了か send の失敗ならそのエラーを返す
func relay(ctx context.Context, chunks <-chan []byte, send func([]byte) error) (int64, error) {
	var written int64
	for {
		select {
		case <-ctx.Done():
			// クライアントが切断された
			return written, ctx.Err()

		case chunk, ok := <-chunks:
			if !ok {
				// 生成が終了した
				return written, nil
			}
			if err := send(chunk); err != nil {
				return written, fmt.Errorf("チャンクの書き込みに失敗: %w", err)
			}
			written += int64(len(chunk))
		}
	}
}

func (h *PointsHandler) requestLog(c *gin.Context, limit points.Limit) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"request_id": requestIDFrom(c),
		"limit":      limit.String(),
	})
}

// logFinished は配信の終了を記録する。切断はエラーとして扱わない
func logFinished(log *logrus.Entry, written int64, err error) {
	entry := log.WithField("bytes", written)
	if err != nil {
		entry.WithField("reason", err.Error()).Debug("クライアントが切断しました")
		return
	}
	entry.Debug("配信が完了しました")
}
