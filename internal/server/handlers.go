package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	"github.com/sirupsen/logrus"

	"pistream/internal/generated"
	"pistream/internal/points"
)

// msgProvideN はnが不正な場合の応答
const msgProvideN = "Provide n"

// PointsHandler は生成されたServerInterfaceを実装する
type PointsHandler struct {
	sessions *points.Sessions
	logger   *logrus.Logger
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *PointsHandler) HealthCheck(c *gin.Context) {
	response := generated.HealthResponse{
		Status:         generated.Healthy,
		ActiveSessions: h.sessions.Active(),
		Timestamp:      time.Now(),
	}

	c.JSON(http.StatusOK, response)
}

// GetPoints は点列ストリーミングエンドポイントの実装
func (h *PointsHandler) GetPoints(c *gin.Context, params generated.GetPointsParams) {
	limit, ok := limitFromParam(params.N)
	if !ok {
		c.String(http.StatusBadRequest, msgProvideN)
		return
	}

	h.streamHTTP(c, limit)
}

// GetPointsWebSocket は点列をWebSocketで配信するエンドポイントの実装
func (h *PointsHandler) GetPointsWebSocket(c *gin.Context) {
	var params generated.GetPointsParams
	err := runtime.BindQueryParameter("form", true, false, "n", c.Request.URL.Query(), &params.N)
	if err != nil {
		invalidParameter(c, err, http.StatusBadRequest)
		return
	}

	limit, ok := limitFromParam(params.N)
	if !ok {
		c.String(http.StatusBadRequest, msgProvideN)
		return
	}

	h.streamWebSocket(c, limit)
}

// ヘルパー関数

// limitFromParam はnから Limit を作る。n=0 は不正
func limitFromParam(n *uint64) (points.Limit, bool) {
	if n == nil {
		return points.Unbounded(), true
	}
	if *n == 0 {
		return points.Limit{}, false
	}
	return points.Bounded(*n), true
}

// invalidParameter はパラメータの解析エラーを返す
func invalidParameter(c *gin.Context, err error, statusCode int) {
	c.String(statusCode, "%s (%v)", msgProvideN, err)
}
