// Package config はアプリケーション設定を環境変数から読み込みます。
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// Config はアプリケーション全体の実行時設定です。
// グローバルなクライアントを持たず、必要なコンポーネントへ明示的に注入します。
type Config struct {
	Port           string   // HTTPサーバーの待ち受けポート
	SupabaseURL    string   // SupabaseプロジェクトURL（接続確認ログ用の参考情報）
	DatabaseURL    string   // Postgres接続DSN（Supabaseのconnection pooler経由）
	RunMigrations  bool     // 起動時にAutoMigrateを実行するか
	RedisAddr      string   // Redisアドレス（空文字でキャッシュ無効）
	RedisPassword  string   // Redisパスワード
	AllowedOrigins []string // CORSで許可するオリジン
}

// ErrDatabaseURLMissing はPostgres接続DSNが設定されていない場合に返されます。
var ErrDatabaseURLMissing = errors.New("SUPABASE_DB_URL (or DATABASE_URL) is not set")

// Load は環境変数から設定を読み込みます。
// データベースDSNは必須で、欠けている場合はエラーを返します。
// Redisは任意で、未設定の場合はキャッシュなしで動作します。
func Load() (Config, error) {
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		DatabaseURL:   os.Getenv("SUPABASE_DB_URL"),
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		slog.Error("SUPABASE_DB_URL is not defined")
		return Config{}, ErrDatabaseURLMissing
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.RedisAddr = host + ":" + envOr("REDIS_PORT", "6379")
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

// envOr は環境変数の値を返し、未設定ならデフォルト値を返します。
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
