package adapters

import (
	"context"
	"log/slog"

	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/usecase"
)

// confirmationMailSubject は申し込み確認メールの件名です。
const confirmationMailSubject = "【八戸北高校同窓会】チケット申し込み確認"

// logMailNotifier は確認メール送信のスタブ実装です。
// 実際のメール配信は行わず、送信予定の内容をログに出力します。
// メールプロバイダー接続時はこのアダプターを差し替えます。
type logMailNotifier struct{}

var _ usecase.ConfirmationNotifier = (*logMailNotifier)(nil)

// NewLogMailNotifier はlogMailNotifierの新しいインスタンスを生成します。
func NewLogMailNotifier() *logMailNotifier {
	return &logMailNotifier{}
}

// SendConfirmation は確認メールの送信内容をログに記録します。
func (n *logMailNotifier) SendConfirmation(_ context.Context, app *entity.TicketApplication) error {
	slog.Info("確認メールを送信",
		"to", app.Email,
		"subject", confirmationMailSubject,
		"application_id", app.ApplicationID,
		"name", app.Name,
		"ticket_count", app.TicketCount,
		"payment_method", app.PaymentMethod,
	)
	return nil
}
