package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Stream   StreamConfig   `yaml:"stream"`
	Frontend FrontendConfig `yaml:"frontend"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // 読み込みタイムアウト
	WriteTimeout time.Duration `yaml:"write_timeout"` // 書き込みタイムアウト
}

// StreamConfig は点列ストリームの設定
type StreamConfig struct {
	ChunkPoints int `yaml:"chunk_points"` // 1チャンクあたりの点の数
	QueueDepth  int `yaml:"queue_depth"`  // 受け渡しキューに溜められるチャンク数
}

// FrontendConfig は静的ファイル配信の設定
type FrontendConfig struct {
	Dir string `yaml:"dir"` // 静的ファイルのディレクトリ
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text または json
}

// デフォルト値
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 3000
	DefaultChunkPoints = 4096
	DefaultQueueDepth  = 1
	DefaultFrontendDir = "frontend"
)

// Default は環境変数を考慮しないデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // ストリーミング用にタイムアウト無効化
		},
		Stream: StreamConfig{
			ChunkPoints: DefaultChunkPoints,
			QueueDepth:  DefaultQueueDepth,
		},
		Frontend: FrontendConfig{
			Dir: DefaultFrontendDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定を読み込む
// デフォルト値を環境変数で上書きする
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はYAMLファイルから設定を読み込む
// ファイルにない項目はデフォルト値、環境変数はファイルより優先される
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("タイムアウトに負の値は指定できません")
	}

	// ストリーム設定の検証
	if c.Stream.ChunkPoints < 1 {
		return fmt.Errorf("無効なチャンクサイズ: %d", c.Stream.ChunkPoints)
	}
	if c.Stream.QueueDepth < 0 {
		return fmt.Errorf("無効なキューの深さ: %d", c.Stream.QueueDepth)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("無効なログ形式: %s", c.Log.Format)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Frontend.Dir = getEnvOrDefault("FRONTEND_DIR", c.Frontend.Dir)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
