// Package main はpistreamサーバーコマンドの実装です
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"pistream/internal/config"
	"pistream/internal/logging"
	"pistream/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host       = pflag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = pflag.IntP("port", "p", 0, "サーバーのポート (デフォルト: 3000)")
		frontend   = pflag.String("frontend", "", "フロントエンドのディレクトリ (デフォルト: frontend)")
		configPath = pflag.StringP("config", "c", "", "YAML設定ファイルのパス")
		help       = pflag.BoolP("help", "h", false, "ヘルプを表示")
	)

	pflag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("pistream")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		pflag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *frontend != "" {
		cfg.Frontend.Dir = *frontend
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("ロガーの作成に失敗しました: %v", err)
	}

	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(cfg, logger)

	// サーバーを起動
	logger.WithField("addr", cfg.ServerAddress()).Info("pistream サーバーを起動します")
	if err := srv.Start(context.Background()); err != nil {
		logger.WithError(err).Fatal("サーバーの起動に失敗しました")
	}
}

// loadConfig は設定ファイルが指定されていればそれを、なければ環境変数から読み込む
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
