package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	tickethandler "alumni_backend/internal/feature/tickets/transport/handler"
	"alumni_backend/internal/feature/tickets/transport/http/dto"
	platformhandler "alumni_backend/internal/platform/http/handler"
	"alumni_backend/internal/shared/ratelimiter"
)

// 公開の申し込みエンドポイントに適用するレートリミット（1クライアントあたり）。
const (
	submitLimit    = 5
	submitInterval = time.Minute
)

// NewRouter はアプリケーションの全ルートを構成したGinエンジンを生成します。
// allowedOriginsが空の場合は全オリジンを許可します（公開サイトのデフォルト）。
func NewRouter(tickets *tickethandler.TicketHandler, allowedOrigins []string) *gin.Engine {
	dto.RegisterCustomValidations()

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// 申し込みの連投対策。一覧・照会には適用しません。
	limiter := ratelimiter.NewKeyLimiter(submitLimit, submitInterval)

	api := r.Group("/api")
	{
		// チケット申し込み（API変形とフォーム変形）
		api.POST("/tickets", ratelimiter.Middleware(limiter), tickets.Apply)
		api.POST("/festival/tickets", ratelimiter.Middleware(limiter), tickets.ApplyForm)
		// 管理画面向けの一覧・CSVエクスポート
		api.GET("/tickets", tickets.List)
		api.GET("/tickets/export", tickets.ExportCSV)
		// 1件照会・ステータス更新（idまたは申し込みID）
		api.GET("/tickets/:id", tickets.Get)
		api.PATCH("/tickets/:id", tickets.UpdateStatus)
		// データストア接続確認
		api.GET("/test-connection", tickets.TestConnection)
	}

	return r
}
