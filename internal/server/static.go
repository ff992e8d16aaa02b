package server

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// noFrontendMessage はフロントエンドがない場合の応答
const noFrontendMessage = "No frontend found"

// setupFallback は未定義のルートの扱いを設定する
// ディレクトリの有無は起動時に一度だけ確認する
func (s *Server) setupFallback() {
	dir := s.config.Frontend.Dir
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			fileServer := http.FileServer(http.Dir(dir))
			s.engine.NoRoute(func(c *gin.Context) {
				fileServer.ServeHTTP(c.Writer, c.Request)
			})
			s.logger.WithField("dir", dir).Info("フロントエンドを配信します")
			return
		}
	}

	s.logger.WithField("dir", dir).Warn("フロントエンドのディレクトリが見つかりません")
	s.engine.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, noFrontendMessage)
	})
}
