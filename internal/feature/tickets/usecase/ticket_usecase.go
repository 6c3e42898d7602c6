// Package usecase はチケット申し込みワークフローのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"alumni_backend/internal/feature/tickets/domain"
	"alumni_backend/internal/feature/tickets/domain/entity"
)

// ListFilter は申し込み一覧の絞り込み条件です。
type ListFilter struct {
	// Status は完全一致のステータスフィルターです。空文字または"all"で無条件になります。
	Status string
	// Search はname・furigana・email・application_idを対象とした
	// 大文字小文字を区別しない部分一致検索です。空文字で無条件になります。
	Search string
}

// TicketRepository はチケット申し込みの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type TicketRepository interface {
	// Insert は申し込み1件を保存します。application_idの重複は
	// domain.ErrDuplicateApplicationIDとして返されます。
	Insert(ctx context.Context, app *entity.TicketApplication) error
	// FindByID はサロゲートキーで1件取得します。存在しない場合はdomain.ErrTicketNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.TicketApplication, error)
	// FindByApplicationID は申し込みIDで1件取得します。存在しない場合はdomain.ErrTicketNotFoundを返します。
	FindByApplicationID(ctx context.Context, code string) (*entity.TicketApplication, error)
	// List はフィルター条件に一致する申し込みをcreated_atの降順（新しい順）で返します。
	List(ctx context.Context, filter ListFilter) ([]entity.TicketApplication, error)
	// UpdateStatusByID はstatusとupdated_atのみ部分更新し、更新後の行を返します。
	UpdateStatusByID(ctx context.Context, id uint, status entity.Status) (*entity.TicketApplication, error)
	// UpdateStatusByApplicationID は申し込みIDをキーにstatusとupdated_atのみ部分更新します。
	UpdateStatusByApplicationID(ctx context.Context, code string, status entity.Status) (*entity.TicketApplication, error)
	// Count は申し込みの総件数を返します。接続確認にも使用されます。
	Count(ctx context.Context) (int64, error)
}

// ConfirmationNotifier は申し込み確認通知の送信を抽象化します。
// 現在の実装はログ出力のみのスタブで、実際のメール配信は外部プロバイダー接続時に差し替えます。
type ConfirmationNotifier interface {
	SendConfirmation(ctx context.Context, app *entity.TicketApplication) error
}

// ApplicationIDGenerator は人間可読な申し込みIDの生成を抽象化します。
type ApplicationIDGenerator interface {
	NewApplicationID() string
}

// SubmitInput はバリデーション済みの申し込み入力です。
// TicketCountはフォーム由来の数値文字列のまま受け取り、合計金額計算時にパースします。
type SubmitInput struct {
	Name           string
	Furigana       string
	GraduationYear string
	Email          string
	Phone          string
	TicketCount    string
	PaymentMethod  string
	Remarks        *string
}

// TicketUsecase はチケット申し込みの送信・照会・更新を提供します。
type TicketUsecase struct {
	repo     TicketRepository
	notifier ConfirmationNotifier
	idGen    ApplicationIDGenerator
}

// NewTicketUsecase は依存を注入してTicketUsecaseの新しいインスタンスを生成します。
func NewTicketUsecase(repo TicketRepository, notifier ConfirmationNotifier, idGen ApplicationIDGenerator) *TicketUsecase {
	return &TicketUsecase{repo: repo, notifier: notifier, idGen: idGen}
}

// Submit は申し込みを受け付けます。
// 合計金額はクライアント入力を信用せずサーバー側で再計算し、
// 申し込みIDを生成してstatus="pending"で保存後、確認通知スタブを呼び出します。
// 通知の失敗は申し込み自体を失敗させず、警告ログのみ残します。
func (u *TicketUsecase) Submit(ctx context.Context, in SubmitInput) (*entity.TicketApplication, error) {
	count, err := strconv.Atoi(in.TicketCount)
	if err != nil {
		return nil, err
	}

	app := &entity.TicketApplication{
		ApplicationID:  u.idGen.NewApplicationID(),
		Name:           in.Name,
		Furigana:       in.Furigana,
		GraduationYear: in.GraduationYear,
		Email:          in.Email,
		Phone:          in.Phone,
		TicketCount:    count,
		PaymentMethod:  entity.PaymentMethod(in.PaymentMethod),
		Remarks:        in.Remarks,
		TotalAmount:    CalculateTotal(in.TicketCount, entity.PaymentMethod(in.PaymentMethod)),
		Status:         entity.StatusPending,
	}

	if err := u.repo.Insert(ctx, app); err != nil {
		return nil, err
	}

	if err := u.notifier.SendConfirmation(ctx, app); err != nil {
		slog.Warn("confirmation notification failed", "application_id", app.ApplicationID, "error", err)
	}

	return app, nil
}

// Get はサロゲートidまたは申し込みIDで1件取得します。
// 引数が符号なし整数としてパースできればid、それ以外はapplication_idとして検索します。
func (u *TicketUsecase) Get(ctx context.Context, idOrCode string) (*entity.TicketApplication, error) {
	if id, err := strconv.ParseUint(idOrCode, 10, 64); err == nil {
		return u.repo.FindByID(ctx, uint(id))
	}
	return u.repo.FindByApplicationID(ctx, idOrCode)
}

// List はフィルター条件に一致する申し込み一覧を新しい順で返します。
func (u *TicketUsecase) List(ctx context.Context, status, search string) ([]entity.TicketApplication, error) {
	return u.repo.List(ctx, ListFilter{Status: status, Search: search})
}

// UpdateStatus は申し込みのステータスを更新します。
// 定義済みの4値以外はdomain.ErrInvalidStatusで拒否し、永続化は行いません。
// ステータス間の遷移順序は制約しません。
func (u *TicketUsecase) UpdateStatus(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
	s := entity.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if id, err := strconv.ParseUint(idOrCode, 10, 64); err == nil {
		return u.repo.UpdateStatusByID(ctx, uint(id), s)
	}
	return u.repo.UpdateStatusByApplicationID(ctx, idOrCode, s)
}

// CountApplications は申し込みの総件数を返します。データストア接続確認に使用します。
func (u *TicketUsecase) CountApplications(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}
