package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 进程级配置，来自环境变量（可选 .env 文件）
type Config struct {
	Port          int
	MatchDuration time.Duration
	LogFile       string
	LogLevel      string
	StaticDir     string
}

// Addr 监听地址，如 ":3000"
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// LoadConfig 先加载 envFile（不存在则跳过，已设置的环境变量优先），再读取各项
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:          3000,
		MatchDuration: DefaultMatchDuration,
		LogFile:       envOr("LOG_FILE", "app.log"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		StaticDir:     envOr("STATIC_DIR", "public"),
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PORT: %w", err)
		}
		if port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("PORT: %d out of range", port)
		}
		cfg.Port = port
	}

	if v := os.Getenv("MATCH_DURATION"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MATCH_DURATION: %w", err)
		}
		if secs <= 0 {
			return Config{}, fmt.Errorf("MATCH_DURATION: must be positive, got %d", secs)
		}
		cfg.MatchDuration = time.Duration(secs) * time.Second
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
