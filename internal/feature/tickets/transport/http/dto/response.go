package dto

import "alumni_backend/internal/feature/tickets/domain/entity"

// SubmitResponse は申し込み成功時のレスポンスです。
type SubmitResponse struct {
	Success       bool                      `json:"success"`
	Message       string                    `json:"message"`
	ApplicationID string                    `json:"applicationId"`
	Data          *entity.TicketApplication `json:"data"`
}

// ListResponse は申し込み一覧のレスポンスです。
type ListResponse struct {
	Success bool                       `json:"success"`
	Data    []entity.TicketApplication `json:"data"`
}

// DataResponse は申し込み1件のレスポンスです。
type DataResponse struct {
	Success bool                      `json:"success"`
	Data    *entity.TicketApplication `json:"data"`
}

// UpdateResponse はステータス更新成功時のレスポンスです。
type UpdateResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    *entity.TicketApplication `json:"data"`
}

// TestConnectionResponse はデータストア接続確認のレスポンスです。
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// ErrorResponse は失敗時の共通エンベロープです。
// バリデーション失敗時はErrorsにフィールド別メッセージが入り、
// データストア障害時はErrorに元のエラーメッセージが入ります。
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
