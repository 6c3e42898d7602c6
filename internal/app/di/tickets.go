// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"alumni_backend/internal/feature/tickets/adapters"
	tickethandler "alumni_backend/internal/feature/tickets/transport/handler"
	"alumni_backend/internal/feature/tickets/usecase"
	"alumni_backend/internal/platform/cache"
)

// listCacheTTL は一覧キャッシュの有効期間です。書き込み時に無効化されるため短めで十分です。
const listCacheTTL = 5 * time.Minute

// NewTicketHandler creates a fully wired TicketHandler:
// GORM repository, Redis listing cache, confirmation-mail stub, and UUID ID generator.
// rdb may be nil, in which case the cache decorator passes through to the database.
func NewTicketHandler(db *gorm.DB, rdb *redis.Client) *tickethandler.TicketHandler {
	repo := adapters.NewTicketRepository(db)
	cachedRepo := cache.NewCachingTicketRepository(rdb, listCacheTTL, repo, "tickets")
	uc := usecase.NewTicketUsecase(cachedRepo, adapters.NewLogMailNotifier(), adapters.NewUUIDIDGenerator())
	return tickethandler.NewTicketHandler(uc)
}
