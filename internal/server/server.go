package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pistream/internal/config"
	"pistream/internal/generated"
	"pistream/internal/points"
)

// shutdownTimeout はグレースフルシャットダウンの待ち時間
const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	engine     *gin.Engine
	sessions   *points.Sessions
	httpServer *http.Server

	// 配信中のリクエストのコンテキストの親
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// Option は Server の生成時の設定を変更する
type Option func(*options)

type options struct {
	generator *points.Generator
}

// WithGenerator は点の生成器を差し替える
func WithGenerator(g *points.Generator) Option {
	return func(o *options) {
		o.generator = g
	}
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.generator == nil {
		o.generator = points.NewGenerator(points.WithChunkPoints(cfg.Stream.ChunkPoints))
	}

	engine := gin.New()
	engine.Use(requestID(), accessLog(logger), gin.Recovery())

	baseCtx, cancelBase := context.WithCancel(context.Background())

	s := &Server{
		config:     cfg,
		logger:     logger,
		engine:     engine,
		sessions:   points.NewSessions(o.generator, cfg.Stream.QueueDepth, logger),
		baseCtx:    baseCtx,
		cancelBase: cancelBase,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BaseContext:  s.baseContext,
	}
	// Shutdown は配信中の接続を待ち続けるため、開始時にストリームを止める
	s.httpServer.RegisterOnShutdown(cancelBase)

	s.setupRoutes()
	return s
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions は点列の生成セッションを返す
func (s *Server) Sessions() *points.Sessions {
	return s.sessions
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() {
	handler := &PointsHandler{
		sessions: s.sessions,
		logger:   s.logger,
	}

	// /points と /health
	generated.RegisterHandlersWithOptions(s.engine, handler, generated.GinServerOptions{
		ErrorHandler: invalidParameter,
	})

	s.engine.GET("/points/ws", handler.GetPointsWebSocket)
	s.engine.GET("/openapi.json", handleOpenAPI)

	// それ以外は静的ファイル
	s.setupFallback()
}

// handleOpenAPI は埋め込まれたOpenAPIドキュメントを返す
func handleOpenAPI(c *gin.Context) {
	doc, err := generated.GetSwagger()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) baseContext(_ net.Listener) context.Context {
	return s.baseCtx
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.WithField("addr", s.config.ServerAddress()).Info("HTTPサーバーを起動しています")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.WithField("signal", sig.String()).Info("シグナルを受信しました")
	case err := <-shutdownCh:
		s.cancelBase()
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.WithError(err).Warn("グレースフルシャットダウンがタイムアウトしました。接続を強制的に閉じます")
		if cerr := s.httpServer.Close(); cerr != nil {
			return fmt.Errorf("サーバーのシャットダウンに失敗: %w", cerr)
		}
	}

	// 生成ゴルーチンが全て終わるのを待つ
	waitCtx, waitCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer waitCancel()
	if err := s.sessions.Wait(waitCtx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
