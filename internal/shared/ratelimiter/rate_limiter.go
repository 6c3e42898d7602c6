// Package ratelimiter は操作頻度の制限を提供します。
package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyLimiter は、キー（クライアントIPなど）ごとに固定ウィンドウで操作回数を制限します。
type KeyLimiter struct {
	mu       sync.Mutex
	limit    int           // 1ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	windows  map[string]*window
}

type window struct {
	count int
	start time.Time
}

// NewKeyLimiter は新しいKeyLimiterのインスタンスを生成します。
func NewKeyLimiter(limit int, interval time.Duration) *KeyLimiter {
	return &KeyLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allow は指定キーの操作を許可するか判定し、許可する場合はカウントを消費します。
func (l *KeyLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	// マップの肥大化を防ぐため、期限切れウィンドウを間引く
	if len(l.windows) > 1024 {
		for k, w := range l.windows {
			if now.Sub(w.start) >= l.interval {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.interval {
		l.windows[key] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= l.limit
}

// Middleware は上限超過時に429を返すGinミドルウェアを生成します。
// キーにはクライアントIPを使用します。
func Middleware(l *KeyLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "リクエストが多すぎます。しばらくしてからお試しください",
			})
			return
		}
		c.Next()
	}
}
