// Package auth は認証・認可機能を提供します。
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/wishlist/internal/config"
	"github.com/yourusername/wishlist/internal/store"
)

const (
	SessionCookieName  = "wl_session"
	sessionKeyUserID   = "auth_user_id"
	sessionKeyIssuedAt = "issued_at"
)

var maxSessionLifetime = 12 * time.Hour

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds() int {
	return int(maxSessionLifetime.Seconds())
}

// ContextUserKey は、ハンドラー間でログイン済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user_id"

// Manager は認証処理とセッション発行をまとめた構造体です。
type Manager struct {
	cfg   *config.Config
	users store.UserStore
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, users store.UserStore) *Manager {
	return &Manager{
		cfg:   cfg,
		users: users,
	}
}

type registerRequest struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// RegisterForm は GET /register のハンドラーです。
func (m *Manager) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "register"})
}

// Register は POST /register のハンドラーです。
// パスワードが確認用と一致しない場合はユーザーを作成せずエラーを返します。
func (m *Manager) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username と password を送ってください",
		})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "PASSWORD_MISMATCH",
			"message": "Passwords do not match",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.cfg.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "HASHING_FAILED",
			"message": "パスワードのハッシュ化に失敗しました",
		})
		return
	}

	if _, err := m.users.CreateUser(c.Request.Context(), req.Username, string(hash)); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			// 登録済みユーザー名の詳細は返さず、一般的な失敗として扱う
			c.JSON(http.StatusConflict, gin.H{
				"code":    "REGISTRATION_FAILED",
				"message": "登録に失敗しました",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "STORAGE_ERROR",
			"message": "ユーザーの保存に失敗しました",
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// LoginForm は GET /login のハンドラーです。直前のリダイレクトで積まれた
// フラッシュメッセージがあれば一度だけ返します。
func (m *Manager) LoginForm(c *gin.Context) {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		// Flashes は読み取りで消費されるため保存して確定させる
		_ = session.Save()
	}
	c.JSON(http.StatusOK, gin.H{"page": "login", "flash": flashes})
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "username と password を送ってください",
		})
		return
	}

	user, err := m.users.FindUserByName(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.failLogin(c, "incorrect username")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "STORAGE_ERROR",
			"message": "ユーザーの参照に失敗しました",
		})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		m.failLogin(c, "incorrect password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの保存に失敗しました",
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// failLogin は失敗理由をフラッシュに積んでログイン画面へ戻します。
// 試行回数の制限は行わず、何度失敗しても同じ応答を返します。
func (m *Manager) failLogin(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// Logout は GET /logout のハンドラーです。未ログインでも成功します。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "セッションの削除に失敗しました",
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未ログインならログイン画面へリダイレクトします。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.resolve(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// ResolveUser はログインを必須としないルート向けに現在のユーザーを解決します。
func (m *Manager) ResolveUser(c *gin.Context) (*store.User, bool) {
	userID, ok := m.resolve(c)
	if !ok {
		return nil, false
	}
	user, err := m.users.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// resolve はセッションからログイン済みユーザーIDを取り出します。
// 有効期限切れのセッションは破棄し、未ログインとして扱います。
func (m *Manager) resolve(c *gin.Context) (int64, bool) {
	session := sessions.Default(c)

	userID, ok := readInt64(session.Get(sessionKeyUserID))
	if !ok || userID == 0 {
		return 0, false
	}

	issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
	if issuedAt.IsZero() || time.Since(issuedAt) > maxSessionLifetime {
		session.Clear()
		_ = session.Save()
		return 0, false
	}

	return userID, true
}

// CurrentUserID は RequireLogin を通ったハンドラーでユーザーIDを取得します。
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func readInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
