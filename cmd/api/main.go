// Package main はウィッシュリストAPIサーバーのエントリーポイントです。
package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/memstore"
	redisstore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/yourusername/wishlist/internal/auth"
	"github.com/yourusername/wishlist/internal/config"
	"github.com/yourusername/wishlist/internal/store"
	"github.com/yourusername/wishlist/internal/wishlist"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// セッションストアの設定
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
	}
	router.Use(cors.New(corsConfig))

	// ストアの初期化（memory または sqlite）
	users, items, closeStore, err := newStores(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// ルーティングの設定
	setupRoutes(router, cfg, users, items)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting wishlist server on %s (mode: %s, store: %s, sessions: %s)",
		addr, cfg.GinMode, cfg.StoreDriver, cfg.SessionStore)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore は設定に応じたセッションストアを作成します。
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.SessionSecret)

	var sessionStore sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		// 署名クッキー方式。プロセスを再起動してもセッションは残る
		sessionStore = cookie.NewStore(secret)
	case config.SessionStoreRedis:
		rs, err := redisstore.NewStore(10, "tcp", cfg.RedisAddr, cfg.RedisPassword, secret)
		if err != nil {
			return nil, fmt.Errorf("failed to connect session redis: %w", err)
		}
		sessionStore = rs
	default:
		// プロセス内のみ。終了とともにセッションは消える
		sessionStore = memstore.NewStore(secret)
	}

	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionStore, nil
}

// newStores は設定に応じたユーザー/ウィッシュリストストアを作成します。
func newStores(cfg *config.Config) (store.UserStore, store.WishlistStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverSQLite {
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		s, err := store.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return s, s, func() { _ = db.Close() }, nil
	}

	m := store.NewMemoryStore()
	return m, m, func() {}, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "wishlist-api",
		"version": "0.1.0",
	})
}

// setupRoutes はルートと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, users store.UserStore, items store.WishlistStore) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	authManager := auth.NewManager(cfg, users)

	// 認証不要のルート
	router.GET("/", wishlist.IndexHandler(authManager, items))
	router.GET("/register", authManager.RegisterForm)
	router.POST("/register", authManager.Register)
	router.GET("/login", authManager.LoginForm)
	router.POST("/login", authManager.Login)
	router.GET("/logout", authManager.Logout)

	// ログイン必須のルート
	protected := router.Group("")
	protected.Use(authManager.RequireLogin())
	{
		protected.GET("/add", wishlist.NewItemFormHandler())
		protected.POST("/add", wishlist.CreateItemHandler(items))
		protected.GET("/update/:id", wishlist.EditItemFormHandler(items))
		protected.POST("/update/:id", wishlist.UpdateItemHandler(items))
		protected.GET("/delete/:id", wishlist.DeleteItemHandler(items))
	}
}
