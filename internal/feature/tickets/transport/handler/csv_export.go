package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/transport/http/dto"
)

// utf8BOM をCSVの先頭に付与し、Excelでの文字化けを防止します。
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeaders は管理画面のCSVダウンロードと同じ列構成です。
var csvHeaders = []string{
	"申し込みID",
	"氏名",
	"フリガナ",
	"卒業回生",
	"メールアドレス",
	"電話番号",
	"チケット枚数",
	"支払い方法",
	"合計金額",
	"ステータス",
	"申し込み日時",
	"備考",
}

// jst はCSVの申し込み日時表示用タイムゾーンです。
var jst = time.FixedZone("JST", 9*60*60)

// ExportCSV は管理画面向けのCSVエクスポートAPI（GET /api/tickets/export）を処理します。
// 一覧と同じstatus/searchフィルターを適用し、表示名に変換した行をUTF-8（BOM付き）で返します。
func (h *TicketHandler) ExportCSV(c *gin.Context) {
	apps, err := h.uc.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		slog.Error("ticket csv export failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "データの取得中にエラーが発生しました",
			Error:   err.Error(),
		})
		return
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeaders)
	for i := range apps {
		_ = w.Write(csvRow(&apps[i]))
	}
	w.Flush()

	filename := fmt.Sprintf("ticket_applications_%s.csv", time.Now().In(jst).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// csvRow は申し込み1件をCSVの1行（表示名に変換済み）にします。
func csvRow(app *entity.TicketApplication) []string {
	remarks := ""
	if app.Remarks != nil {
		remarks = *app.Remarks
	}
	return []string{
		app.ApplicationID,
		app.Name,
		app.Furigana,
		app.GraduationYearLabel(),
		app.Email,
		app.Phone,
		strconv.Itoa(app.TicketCount),
		app.PaymentMethod.Label(),
		formatYen(app.TotalAmount),
		app.Status.Label(),
		app.CreatedAt.In(jst).Format("2006/01/02 15:04:05"),
		remarks,
	}
}

// formatYen は金額を3桁区切り＋円表記（例: 14,000円）にします。
func formatYen(amount int) string {
	s := strconv.Itoa(amount)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + "円"
}
