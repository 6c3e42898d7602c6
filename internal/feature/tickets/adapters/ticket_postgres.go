// Package adapters はticketsフィーチャーのリポジトリ実装と外部連携アダプターを提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"alumni_backend/internal/feature/tickets/domain"
	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/usecase"
)

// ticketPostgres はTicketRepositoryインターフェースのGORM実装です。
// 本番ではSupabaseのPostgresに接続し、テストではインメモリSQLiteで動作します。
type ticketPostgres struct {
	db *gorm.DB
}

var _ usecase.TicketRepository = (*ticketPostgres)(nil)

// NewTicketRepository は指定されたDB接続でticketPostgresリポジトリの新しいインスタンスを生成します。
func NewTicketRepository(db *gorm.DB) *ticketPostgres {
	return &ticketPostgres{db: db}
}

// Insert は申し込み1件を保存します。
// application_idのユニーク制約違反はdomain.ErrDuplicateApplicationIDに変換します。
func (r *ticketPostgres) Insert(ctx context.Context, app *entity.TicketApplication) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateApplicationID
		}
		return err
	}
	return nil
}

// FindByID はサロゲートキーで申し込みを1件取得します。
func (r *ticketPostgres) FindByID(ctx context.Context, id uint) (*entity.TicketApplication, error) {
	var app entity.TicketApplication
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &app, nil
}

// FindByApplicationID は申し込みIDで申し込みを1件取得します。
func (r *ticketPostgres) FindByApplicationID(ctx context.Context, code string) (*entity.TicketApplication, error) {
	var app entity.TicketApplication
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", code).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &app, nil
}

// List はフィルター条件に一致する申し込みをcreated_atの降順で返します。
// 検索はname・furigana・email・application_idに対する大文字小文字を区別しない部分一致です。
// LOWER + LIKEはPostgresとSQLiteの両方で同じ動作になります。
func (r *ticketPostgres) List(ctx context.Context, filter usecase.ListFilter) ([]entity.TicketApplication, error) {
	q := r.db.WithContext(ctx).Model(&entity.TicketApplication{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(furigana) LIKE ? OR LOWER(email) LIKE ? OR LOWER(application_id) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var apps []entity.TicketApplication
	if err := q.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateStatusByID はstatusとupdated_atのみ部分更新し、更新後の行を返します。
func (r *ticketPostgres) UpdateStatusByID(ctx context.Context, id uint, status entity.Status) (*entity.TicketApplication, error) {
	if err := r.updateStatus(ctx, "id = ?", id, status); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// UpdateStatusByApplicationID は申し込みIDをキーにstatusとupdated_atのみ部分更新します。
func (r *ticketPostgres) UpdateStatusByApplicationID(ctx context.Context, code string, status entity.Status) (*entity.TicketApplication, error) {
	if err := r.updateStatus(ctx, "application_id = ?", code, status); err != nil {
		return nil, err
	}
	return r.FindByApplicationID(ctx, code)
}

// updateStatus は指定された条件に一致する行のstatusとupdated_atを更新します。
// 一致する行がない場合はdomain.ErrTicketNotFoundを返します。
func (r *ticketPostgres) updateStatus(ctx context.Context, cond string, arg any, status entity.Status) error {
	res := r.db.WithContext(ctx).
		Model(&entity.TicketApplication{}).
		Where(cond, arg).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// Count は申し込みの総件数を返します。
func (r *ticketPostgres) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&entity.TicketApplication{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
