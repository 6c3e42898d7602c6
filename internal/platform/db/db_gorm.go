// Package db はGORMによるPostgres接続の初期化を提供します。
package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alumni_backend/internal/feature/tickets/domain/entity"
)

// Open はSupabaseのPostgresへGORMで接続します。
// ホスティング環境の起動直後は接続が確立しないことがあるため、60秒を上限にリトライします。
// TranslateErrorを有効にし、ユニーク制約違反をgorm.ErrDuplicatedKeyとして検知できるようにします。
func Open(dsn string, runMigrations bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after 60s: %w", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if runMigrations {
		if err := db.AutoMigrate(&entity.TicketApplication{}); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return db, nil
}
