package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError はバリデーション違反1件のフィールド名とメッセージの組です。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldJSONNames は構造体フィールド名からJSONフィールド名への対応です。
var fieldJSONNames = map[string]string{
	"Name":           "name",
	"Furigana":       "furigana",
	"GraduationYear": "graduationYear",
	"Email":          "email",
	"Phone":          "phone",
	"TicketCount":    "ticketCount",
	"PaymentMethod":  "paymentMethod",
	"Remarks":        "remarks",
	"PrivacyPolicy":  "privacyPolicy",
	"Status":         "status",
}

// fieldMessages はフィールドごとの日本語バリデーションメッセージです。
// 電話番号のみルールによってメッセージが分かれます。
var fieldMessages = map[string]string{
	"Name":           "氏名は2文字以上で入力してください",
	"Furigana":       "フリガナは2文字以上で入力してください",
	"GraduationYear": "卒業年度を選択してください",
	"Email":          "有効なメールアドレスを入力してください",
	"Phone":          "電話番号は10桁以上で入力してください",
	"TicketCount":    "チケット枚数を選択してください",
	"PaymentMethod":  "支払い方法を選択してください",
	"PrivacyPolicy":  "プライバシーポリシーに同意する必要があります",
	"Status":         "無効なステータスです",
}

// NewFieldErrors はGinのバインディングエラーをフィールド別メッセージの一覧に変換します。
// バリデーション以外のエラー（JSON構文エラー等）の場合は空のリストを返し、
// 呼び出し側はトップレベルメッセージのみ表示します。
func NewFieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		name := fieldJSONNames[e.Field()]
		if name == "" {
			name = e.Field()
		}
		out = append(out, FieldError{Field: name, Message: messageFor(e)})
	}
	return out
}

// messageFor は違反したルールに応じたメッセージを返します。
func messageFor(e validator.FieldError) string {
	if e.Field() == "Phone" && e.Tag() == "phonechars" {
		return "電話番号は数字とハイフンのみ使用できます"
	}
	if msg, ok := fieldMessages[e.Field()]; ok {
		return msg
	}
	return "入力内容を確認してください"
}
