package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Rate Limit（req/min）
	RateLimitPerMin int

	// State
	StateDir string
	CoverDir string

	// Paging
	PageLimit int

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.APIBaseURL = os.Getenv("BOOKY_API_BASE_URL")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "BOOKY_API_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.HTTPTimeout = getEnvDuration("BOOKY_HTTP_TIMEOUT", 10*time.Second)
	cfg.RateLimitPerMin = getEnvInt("BOOKY_RATE_LIMIT", 120)
	cfg.StateDir = getEnvString("BOOKY_STATE_DIR", defaultStateDir())
	cfg.CoverDir = getEnvString("BOOKY_COVER_DIR", filepath.Join(cfg.StateDir, "covers"))
	cfg.PageLimit = getEnvInt("BOOKY_PAGE_LIMIT", 20)
	cfg.LogLevel = getEnvString("BOOKY_LOG_LEVEL", "info")

	return cfg, nil
}

// StatePath は状態データベースファイルのパスを返す。
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.db")
}

// defaultStateDir は状態ディレクトリの既定値を返す。
// ホームディレクトリが取得できない場合はカレントディレクトリ配下を使用する。
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".booky"
	}
	return filepath.Join(home, ".booky")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
