// Package entity はticketsフィーチャーのドメインモデルを定義します。
package entity

import (
	"fmt"
	"time"
)

// Status はチケット申し込みのライフサイクル段階を表します。
// 状態遷移グラフは設けず、どの状態からどの状態へも変更可能です。
type Status string

const (
	StatusPending   Status = "pending"   // 保留中（申し込み直後の初期値）
	StatusConfirmed Status = "confirmed" // 確認済
	StatusPaid      Status = "paid"      // 入金済
	StatusCancelled Status = "cancelled" // キャンセル
)

// Valid はステータスが定義済みの4値のいずれかであるか判定します。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Label はステータスの日本語表示名を返します。未知の値はそのまま返します。
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "保留中"
	case StatusConfirmed:
		return "確認済"
	case StatusPaid:
		return "入金済"
	case StatusCancelled:
		return "キャンセル"
	}
	return string(s)
}

// PaymentMethod は支払い方法を表します。
type PaymentMethod string

const (
	PaymentBank        PaymentMethod = "bank"        // 銀行振込
	PaymentConvenience PaymentMethod = "convenience" // コンビニ払い
	PaymentVenue       PaymentMethod = "venue"       // 会場受付（当日料金）
)

// Label は支払い方法の日本語表示名を返します。未知の値はそのまま返します。
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentBank:
		return "銀行振込"
	case PaymentConvenience:
		return "コンビニ払い"
	case PaymentVenue:
		return "会場受付"
	}
	return string(p)
}

// TicketApplication は総会チケットの申し込み1件を表します。
// ticket_applicationsテーブルの行に対応し、作成後はstatusとupdated_atのみ更新されます。
type TicketApplication struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ApplicationID  string        `gorm:"size:32;not null;uniqueIndex" json:"application_id"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	Furigana       string        `gorm:"size:255;not null" json:"furigana"`
	GraduationYear string        `gorm:"size:20;not null" json:"graduation_year"`
	Email          string        `gorm:"size:255;not null" json:"email"`
	Phone          string        `gorm:"size:20;not null" json:"phone"`
	TicketCount    int           `gorm:"not null" json:"ticket_count"`
	PaymentMethod  PaymentMethod `gorm:"size:20;not null" json:"payment_method"`
	Remarks        *string       `json:"remarks"`
	TotalAmount    int           `gorm:"not null" json:"total_amount"`
	Status         Status        `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName はGORMが使用するテーブル名を返します。
func (TicketApplication) TableName() string {
	return "ticket_applications"
}

// GraduationYearLabel は卒業回生の日本語表示名を返します。
// "teacher" は教職員、それ以外は「N回生」形式です。
func (t *TicketApplication) GraduationYearLabel() string {
	if t.GraduationYear == "teacher" {
		return "教職員"
	}
	return fmt.Sprintf("%s回生", t.GraduationYear)
}
