// Package logging はlogrusロガーの生成を担う
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"pistream/internal/config"
)

// New はログ設定からロガーを作成する
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter は出力先を指定してロガーを作成する
func NewWithWriter(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("無効なログレベル: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("無効なログ形式: %s", cfg.Format)
	}

	return logger, nil
}

// Discard はテスト用に出力を捨てるロガーを返す
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
