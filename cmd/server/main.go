package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"alumni_backend/internal/app/di"
	"alumni_backend/internal/app/router"
	"alumni_backend/internal/platform/config"
	infradb "alumni_backend/internal/platform/db"
	infraredis "alumni_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SupabaseURL != "" {
		slog.Info("using Supabase project", "url", cfg.SupabaseURL)
	}

	// db
	db, err := infradb.Open(cfg.DatabaseURL, cfg.RunMigrations)
	if err != nil {
		log.Fatal(err)
	}

	// Redis（任意。未設定・接続不可の場合はキャッシュなしで動作）
	var rdb *redisv9.Client
	if cfg.RedisAddr == "" {
		log.Println("[WARN] REDIS_HOST is not set. Running without cache.")
	} else if tmp, err := infraredis.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Handler（repo → usecase → handler の組み立てはdiに集約）
	ticketH := di.NewTicketHandler(db, rdb)

	// ルータ生成
	router := router.NewRouter(ticketH, cfg.AllowedOrigins)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
