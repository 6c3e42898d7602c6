// Package handler はticketsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alumni_backend/internal/feature/tickets/domain"
	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/transport/http/dto"
	"alumni_backend/internal/feature/tickets/usecase"
)

// TicketUsecase はチケット申し込み操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TicketUsecase interface {
	// Submit はバリデーション済みの申し込みを受け付けます。
	Submit(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error)
	// Get はサロゲートidまたは申し込みIDで1件取得します。
	Get(ctx context.Context, idOrCode string) (*entity.TicketApplication, error)
	// List はフィルター条件に一致する申し込み一覧を新しい順で返します。
	List(ctx context.Context, status, search string) ([]entity.TicketApplication, error)
	// UpdateStatus は申し込みのステータスを更新します。
	UpdateStatus(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error)
	// CountApplications は申し込みの総件数を返します。
	CountApplications(ctx context.Context) (int64, error)
}

// TicketHandler はチケット申し込みのHTTPリクエストを処理します。
type TicketHandler struct {
	uc TicketUsecase
}

// NewTicketHandler は指定されたusecaseでTicketHandlerの新しいインスタンスを生成します。
func NewTicketHandler(uc TicketUsecase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// Apply はチケット申し込みAPIエンドポイント（POST /api/tickets）を処理します。
// - リクエストJSONをApplyRequestにバインドし、失敗時はフィールド別メッセージ付きで400を返却
// - 申し込みID重複時は409、データストア障害時は500を返却
// - 成功時は生成された申し込みIDと保存された行を返却
func (h *TicketHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("ticket application validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "入力内容に問題があります",
			Errors:  dto.NewFieldErrors(err),
		})
		return
	}
	h.submit(c, req)
}

// ApplyForm はフォーム経由の申し込み（POST /api/festival/tickets）を処理します。
// API変形との違いはプライバシーポリシー同意の必須チェックのみです。
func (h *TicketHandler) ApplyForm(c *gin.Context) {
	var req dto.FormApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("ticket form validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "入力内容に問題があります",
			Errors:  dto.NewFieldErrors(err),
		})
		return
	}
	h.submit(c, req.ApplyRequest)
}

// submit はバインド済みリクエストをユースケースに渡し、結果をエンベロープに変換します。
func (h *TicketHandler) submit(c *gin.Context, req dto.ApplyRequest) {
	app, err := h.uc.Submit(c.Request.Context(), usecase.SubmitInput{
		Name:           req.Name,
		Furigana:       req.Furigana,
		GraduationYear: req.GraduationYear,
		Email:          req.Email,
		Phone:          req.Phone,
		TicketCount:    req.TicketCount,
		PaymentMethod:  req.PaymentMethod,
		Remarks:        req.Remarks,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateApplicationID) {
			slog.Warn("application id conflict", "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Message: "申し込みIDが重複しました。もう一度お試しください",
				Error:   err.Error(),
			})
			return
		}
		slog.Error("ticket application failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "申し込み処理中にエラーが発生しました",
			Error:   err.Error(),
		})
		return
	}

	slog.Info("ticket application accepted",
		"application_id", app.ApplicationID, "ticket_count", app.TicketCount, "total_amount", app.TotalAmount)
	c.JSON(http.StatusOK, dto.SubmitResponse{
		Success:       true,
		Message:       "チケット申し込みが完了しました",
		ApplicationID: app.ApplicationID,
		Data:          app,
	})
}

// List は申し込み一覧API（GET /api/tickets）を処理します。
// クエリパラメータ status（完全一致、"all"で無条件）と search（部分一致）で絞り込めます。
func (h *TicketHandler) List(c *gin.Context) {
	apps, err := h.uc.List(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		slog.Error("ticket list failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "データの取得中にエラーが発生しました",
			Error:   err.Error(),
		})
		return
	}
	if apps == nil {
		apps = []entity.TicketApplication{}
	}
	c.JSON(http.StatusOK, dto.ListResponse{Success: true, Data: apps})
}

// Get は申し込み1件取得API（GET /api/tickets/:id）を処理します。
// パスパラメータが数値ならサロゲートid、それ以外は申し込みIDとして検索します。
func (h *TicketHandler) Get(c *gin.Context) {
	app, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Message: "申し込みが見つかりません",
				Error:   err.Error(),
			})
			return
		}
		slog.Error("ticket lookup failed", "error", err, "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "データの取得中にエラーが発生しました",
			Error:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Success: true, Data: app})
}

// UpdateStatus はステータス更新API（PATCH /api/tickets/:id）を処理します。
// - ボディのstatusが4値以外の場合は400を返却
// - 対象が存在しない場合は404、データストア障害時は500を返却
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "無効なステータスです"})
		return
	}

	app, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "無効なステータスです"})
		case errors.Is(err, domain.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Message: "申し込みが見つかりません",
				Error:   err.Error(),
			})
		default:
			slog.Error("ticket status update failed", "error", err, "id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Message: "データの更新中にエラーが発生しました",
				Error:   err.Error(),
			})
		}
		return
	}

	slog.Info("ticket status updated", "application_id", app.ApplicationID, "status", app.Status)
	c.JSON(http.StatusOK, dto.UpdateResponse{
		Success: true,
		Message: "チケット情報が更新されました",
		Data:    app,
	})
}

// TestConnection はデータストア接続確認API（GET /api/test-connection）を処理します。
// ticket_applicationsテーブルの件数取得を接続テストとして使用します。
func (h *TicketHandler) TestConnection(c *gin.Context) {
	count, err := h.uc.CountApplications(c.Request.Context())
	if err != nil {
		slog.Error("datastore connection check failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Message: "Supabaseへの接続に失敗しました",
			Error:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, dto.TestConnectionResponse{
		Success: true,
		Message: "Supabaseに正常に接続しました",
		Count:   count,
	})
}
