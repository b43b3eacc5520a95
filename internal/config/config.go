// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// ストア実装の選択肢。
const (
	StoreDriverMemory = "memory"
	StoreDriverSQLite = "sqlite"
)

// セッションストアの選択肢。
const (
	SessionStoreMemory = "memory"
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// セッション設定
	SessionSecret string // セッション署名用の秘密鍵
	SessionStore  string // セッションの保存先 (memory, cookie, redis)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// ストア設定
	StoreDriver string // ストア実装 (memory, sqlite)
	SQLitePath  string // SQLiteデータベースファイルのパス

	// Redis設定（SESSION_STORE=redis の場合に使用）
	RedisAddr     string // Redisの接続先 (host:port)
	RedisPassword string // Redisのパスワード

	// 認証設定
	BcryptCost int // bcryptのコストパラメータ
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// セッション設定
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionStore:  getEnv("SESSION_STORE", ""),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		// ストア設定
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverMemory),
		SQLitePath:  getEnv("SQLITE_PATH", "wishlist.db"),

		// Redis設定
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		// 認証設定
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
	}

	// セッションストアの既定値はストア実装に合わせる:
	// memory 変種はプロセス内セッション、sqlite 変種は署名クッキー。
	if config.SessionStore == "" {
		if config.StoreDriver == StoreDriverSQLite {
			config.SessionStore = SessionStoreCookie
		} else {
			config.SessionStore = SessionStoreMemory
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory, StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %q", c.StoreDriver)
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown SESSION_STORE: %q", c.SessionStore)
	}

	if c.StoreDriver == StoreDriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=sqlite")
	}

	if c.SessionStore == SessionStoreRedis && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
	}

	// ローカル開発では秘密鍵は任意。本番環境では厳格にチェックする。
	if c.GinMode == "release" && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
