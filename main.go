package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"pistream/internal/config"
	"pistream/internal/logging"
	"pistream/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	// サーバーを作成
	srv := server.New(cfg, logger)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("サーバーの起動に失敗しました")
	}
}
