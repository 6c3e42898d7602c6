package usecase

import (
	"strconv"

	"alumni_backend/internal/feature/tickets/domain/entity"
)

// チケット単価（円）。会場受付は当日料金です。
const (
	unitPriceAdvance = 6000
	unitPriceVenue   = 7000
)

// CalculateTotal はチケット枚数と支払い方法から合計金額（円）を計算します。
// 会場受付は1枚7,000円、それ以外（銀行振込・コンビニ払い）は1枚6,000円です。
// countは申し込みフォームから渡される数値文字列で、数値でない場合は0を返します。
func CalculateTotal(count string, method entity.PaymentMethod) int {
	price := unitPriceAdvance
	if method == entity.PaymentVenue {
		price = unitPriceVenue
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return 0
	}
	return n * price
}
