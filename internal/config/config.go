package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config orvio-console（控制台 BFF + kiosk）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Backend struct {
		BaseURL string        // 冰箱后端 REST API 基址
		Timeout time.Duration // 单请求超时
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Session struct {
		TTL time.Duration // 控制台登录会话 TTL
	}
	Kiosk struct {
		CartTTL time.Duration // kiosk 购物车 TTL
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() *Config {
	// 本地开发支持 .env，缺失时静默跳过
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Backend.BaseURL = getEnv("BACKEND_BASE_URL", "/api")
	cfg.Backend.Timeout = parseDuration(getEnv("BACKEND_TIMEOUT", "30s"), 30*time.Second)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Session.TTL = parseDuration(getEnv("SESSION_TTL", "24h"), 24*time.Hour)
	cfg.Kiosk.CartTTL = parseDuration(getEnv("KIOSK_CART_TTL", "30m"), 30*time.Minute)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
