// Package main はログインしてセッションクッキーを取り出すテスト用ヘルパーです。
// 取得したクッキーを session_cookie.txt に書き出し、curl 等から利用できるようにします。
package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/yourusername/wishlist/internal/auth"
)

const outputFile = "session_cookie.txt"

func main() {
	baseURL := getEnv("WISHLIST_BASE_URL", "http://localhost:8080")
	username := getEnv("WISHLIST_USERNAME", "testuser")
	password := getEnv("WISHLIST_PASSWORD", "password123")

	client := &http.Client{
		// Set-Cookie と Location を読むためリダイレクトは追跡しない
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := client.PostForm(baseURL+"/login", form)
	if err != nil {
		log.Fatalf("Error fetching session cookie: %v", err)
	}
	defer resp.Body.Close()

	// ログイン失敗時もフラッシュ用のクッキーが付くため、成功のリダイレクト先を確認する
	if loc := resp.Header.Get("Location"); loc != "/" {
		log.Fatalf("Login failed (status %d, redirected to %q)", resp.StatusCode, loc)
	}

	cookieValue := sessionCookie(resp.Cookies())
	if cookieValue == "" {
		log.Fatalf("Session cookie not found in response")
	}

	if err := os.WriteFile(outputFile, []byte(cookieValue), 0o600); err != nil {
		log.Fatalf("Failed to write %s: %v", outputFile, err)
	}
	fmt.Println("Session cookie saved successfully!")
}

// sessionCookie は Set-Cookie から "name=value" 形式でセッションクッキーを探します。
func sessionCookie(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == auth.SessionCookieName {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
