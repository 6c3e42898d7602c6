package adapters

import (
	"strings"

	"github.com/google/uuid"

	"alumni_backend/internal/feature/tickets/usecase"
)

// applicationIDPrefix は申し込みIDの固定プレフィックスです。
const applicationIDPrefix = "TICKET-"

// uuidIDGenerator はUUID由来の衝突耐性のある申し込みIDを生成します。
// 以前のタイムスタンプ下6桁方式は同一ミリ秒帯で衝突し得たため、
// ランダムUUIDの先頭8桁（大文字16進）に置き換えています。
// 万一の衝突はapplication_idのユニーク制約が検知します。
type uuidIDGenerator struct{}

var _ usecase.ApplicationIDGenerator = (*uuidIDGenerator)(nil)

// NewUUIDIDGenerator はuuidIDGeneratorの新しいインスタンスを生成します。
func NewUUIDIDGenerator() *uuidIDGenerator {
	return &uuidIDGenerator{}
}

// NewApplicationID は "TICKET-XXXXXXXX" 形式の申し込みIDを返します。
func (g *uuidIDGenerator) NewApplicationID() string {
	return applicationIDPrefix + strings.ToUpper(uuid.NewString()[:8])
}
