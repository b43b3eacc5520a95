// Package wishlist は所有者スコープ付きのウィッシュリスト項目CRUDを提供します。
package wishlist

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/wishlist/internal/auth"
	"github.com/yourusername/wishlist/internal/store"
)

// notFoundMessage は存在しない項目と他人の項目を区別せずに返すメッセージです。
const notFoundMessage = "Item not found or unauthorized access"

type itemRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

// IndexHandler は GET / のハンドラーを返します。
// 未ログインの場合はログイン画面へリダイレクトします。
func IndexHandler(m *auth.Manager, items store.WishlistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.ResolveUser(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		list, err := items.ListByOwner(c.Request.Context(), user.ID)
		if err != nil {
			respondStorageError(c)
			return
		}

		session := sessions.Default(c)
		flashes := session.Flashes()
		if len(flashes) > 0 {
			_ = session.Save()
		}

		c.JSON(http.StatusOK, gin.H{
			"username": user.Username,
			"items":    list,
			"flash":    flashes,
		})
	}
}

// NewItemFormHandler は GET /add のハンドラーを返します。
func NewItemFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "add"})
	}
}

// CreateItemHandler は POST /add のハンドラーを返します。
func CreateItemHandler(items store.WishlistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		var req itemRequest
		if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "name を送ってください",
			})
			return
		}

		if _, err := items.AddItem(c.Request.Context(), userID, req.Name, req.Description); err != nil {
			respondStorageError(c)
			return
		}

		c.Redirect(http.StatusFound, "/")
	}
}

// EditItemFormHandler は GET /update/:id のハンドラーを返します。
// 自分の項目でなければ存在しない場合と同じ応答を返します。
func EditItemFormHandler(items store.WishlistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		id, ok := parseItemID(c)
		if !ok {
			c.String(http.StatusNotFound, notFoundMessage)
			return
		}

		item, err := items.FindItem(c.Request.Context(), id, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.String(http.StatusNotFound, notFoundMessage)
				return
			}
			respondStorageError(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{"item": item})
	}
}

// UpdateItemHandler は POST /update/:id のハンドラーを返します。
func UpdateItemHandler(items store.WishlistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		id, ok := parseItemID(c)
		if !ok {
			c.String(http.StatusNotFound, notFoundMessage)
			return
		}

		var req itemRequest
		if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "name を送ってください",
			})
			return
		}

		updated, err := items.UpdateItem(c.Request.Context(), id, userID, req.Name, req.Description)
		if err != nil {
			respondStorageError(c)
			return
		}
		if !updated {
			c.String(http.StatusNotFound, notFoundMessage)
			return
		}

		c.Redirect(http.StatusFound, "/")
	}
}

// DeleteItemHandler は GET /delete/:id のハンドラーを返します。
func DeleteItemHandler(items store.WishlistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.CurrentUserID(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}

		id, ok := parseItemID(c)
		if !ok {
			c.String(http.StatusNotFound, notFoundMessage)
			return
		}

		deleted, err := items.DeleteItem(c.Request.Context(), id, userID)
		if err != nil {
			respondStorageError(c)
			return
		}
		if !deleted {
			c.String(http.StatusNotFound, notFoundMessage)
			return
		}

		c.Redirect(http.StatusFound, "/")
	}
}

// parseItemID は :id パラメーターを数値として読み取ります。
// 文字列表現でも値が同じなら同じ項目に解決されます。
func parseItemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func respondStorageError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "STORAGE_ERROR",
		"message": "ストレージの操作に失敗しました",
	})
}
