// Package dto はticketsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneCharsPattern は電話番号に許可する文字クラス（数字とハイフンのみ）です。
var phoneCharsPattern = regexp.MustCompile(`^[0-9-]+$`)

// ApplyRequest は POST /api/tickets のリクエストボディです。
// Ginのbindingタグでバリデーションします。チケット枚数と支払い方法は
// プレゼンテーション層の選択肢に頼らず、サーバー側でも閉じた値域を強制します。
type ApplyRequest struct {
	Name           string  `json:"name" binding:"required,min=2"`
	Furigana       string  `json:"furigana" binding:"required,min=2"`
	GraduationYear string  `json:"graduationYear" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          string  `json:"phone" binding:"required,min=10,phonechars"`
	TicketCount    string  `json:"ticketCount" binding:"required,oneof=1 2 3 4 5"`
	PaymentMethod  string  `json:"paymentMethod" binding:"required,oneof=bank convenience venue"`
	Remarks        *string `json:"remarks" binding:"omitempty"`
}

// FormApplyRequest はフォーム経由の申し込み（POST /api/festival/tickets）の
// リクエストボディです。API変形に加えてプライバシーポリシーへの同意が必須です。
type FormApplyRequest struct {
	ApplyRequest
	PrivacyPolicy bool `json:"privacyPolicy" binding:"eq=true"`
}

// UpdateStatusRequest は PATCH /api/tickets/:id のリクエストボディです。
// 値域チェック（pending/confirmed/paid/cancelled）はユースケース側で行います。
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterCustomValidations はGinのバリデーションエンジンに独自ルールを登録します。
// ルーター構築時に一度だけ呼び出します。
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phonechars", func(fl validator.FieldLevel) bool {
			return phoneCharsPattern.MatchString(fl.Field().String())
		})
	}
}
