package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni_backend/internal/feature/tickets/domain"
	"alumni_backend/internal/feature/tickets/domain/entity"
	"alumni_backend/internal/feature/tickets/transport/http/dto"
	"alumni_backend/internal/feature/tickets/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// phonecharsなどの独自ルールはルーター構築時に登録されるため、テストでも明示的に登録する
	dto.RegisterCustomValidations()
	os.Exit(m.Run())
}

// mockTicketUsecase はTicketUsecaseインターフェースのモック実装です。
type mockTicketUsecase struct {
	SubmitFunc            func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error)
	GetFunc               func(ctx context.Context, idOrCode string) (*entity.TicketApplication, error)
	ListFunc              func(ctx context.Context, status, search string) ([]entity.TicketApplication, error)
	UpdateStatusFunc      func(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error)
	CountApplicationsFunc func(ctx context.Context) (int64, error)
}

func (m *mockTicketUsecase) Submit(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, in)
	}
	return nil, nil
}

func (m *mockTicketUsecase) Get(ctx context.Context, idOrCode string) (*entity.TicketApplication, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, idOrCode)
	}
	return nil, nil
}

func (m *mockTicketUsecase) List(ctx context.Context, status, search string) ([]entity.TicketApplication, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status, search)
	}
	return nil, nil
}

func (m *mockTicketUsecase) UpdateStatus(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, idOrCode, status)
	}
	return nil, nil
}

func (m *mockTicketUsecase) CountApplications(ctx context.Context) (int64, error) {
	if m.CountApplicationsFunc != nil {
		return m.CountApplicationsFunc(ctx)
	}
	return 0, nil
}

// newTestRouter は全チケットルートを登録したテスト用ルーターを生成します。
func newTestRouter(uc TicketUsecase) *gin.Engine {
	h := NewTicketHandler(uc)
	r := gin.New()
	r.POST("/api/tickets", h.Apply)
	r.POST("/api/festival/tickets", h.ApplyForm)
	r.GET("/api/tickets", h.List)
	r.GET("/api/tickets/export", h.ExportCSV)
	r.GET("/api/tickets/:id", h.Get)
	r.PATCH("/api/tickets/:id", h.UpdateStatus)
	r.GET("/api/test-connection", h.TestConnection)
	return r
}

// doJSON はJSONボディ付きのリクエストを実行し、レコーダーを返します。
func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// decodeBody はレスポンスボディをマップに変換します。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// validBody はバリデーションを通過する申し込みJSONを返します。
const validBody = `{
	"name": "北高 太郎",
	"furigana": "キタコウ タロウ",
	"graduationYear": "30",
	"email": "a@b.com",
	"phone": "090-1234-5678",
	"ticketCount": "2",
	"paymentMethod": "venue"
}`

// sampleApplication はユースケースが返す保存済みの申し込み行を生成します。
func sampleApplication() *entity.TicketApplication {
	return &entity.TicketApplication{
		ID:             1,
		ApplicationID:  "TICKET-3F9A2C41",
		Name:           "北高 太郎",
		Furigana:       "キタコウ タロウ",
		GraduationYear: "30",
		Email:          "a@b.com",
		Phone:          "090-1234-5678",
		TicketCount:    2,
		PaymentMethod:  entity.PaymentVenue,
		TotalAmount:    14000,
		Status:         entity.StatusPending,
	}
}

// TestTicketHandler_Apply_Success は申し込み成功時のエンベロープを検証します。
func TestTicketHandler_Apply_Success(t *testing.T) {
	t.Parallel()

	var got usecase.SubmitInput
	mockUC := &mockTicketUsecase{
		SubmitFunc: func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
			got = in
			return sampleApplication(), nil
		},
	}
	r := newTestRouter(mockUC)

	w := doJSON(r, http.MethodPost, "/api/tickets", validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "チケット申し込みが完了しました", body["message"])
	assert.Equal(t, "TICKET-3F9A2C41", body["applicationId"])
	require.NotNil(t, body["data"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, float64(14000), data["total_amount"])

	assert.Equal(t, "北高 太郎", got.Name)
	assert.Equal(t, "2", got.TicketCount)
	assert.Equal(t, "venue", got.PaymentMethod)
}

// TestTicketHandler_Apply_ValidationErrors は§4.1の各ルール違反が
// フィールド別メッセージ付きの400になり、ユースケースが呼ばれないことを検証します。
func TestTicketHandler_Apply_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		body            string
		expectedField   string
		expectedMessage string
	}{
		{
			name:            "name too short",
			body:            `{"name":"太","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "name",
			expectedMessage: "氏名は2文字以上で入力してください",
		},
		{
			name:            "furigana too short",
			body:            `{"name":"北高 太郎","furigana":"キ","graduationYear":"30","email":"a@b.com","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "furigana",
			expectedMessage: "フリガナは2文字以上で入力してください",
		},
		{
			name:            "graduation year missing",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"","email":"a@b.com","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "graduationYear",
			expectedMessage: "卒業年度を選択してください",
		},
		{
			name:            "invalid email",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"not-an-email","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "email",
			expectedMessage: "有効なメールアドレスを入力してください",
		},
		{
			name:            "phone too short",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "phone",
			expectedMessage: "電話番号は10桁以上で入力してください",
		},
		{
			name:            "phone with invalid characters",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234-abcd","ticketCount":"2","paymentMethod":"venue"}`,
			expectedField:   "phone",
			expectedMessage: "電話番号は数字とハイフンのみ使用できます",
		},
		{
			name:            "ticket count out of range",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234-5678","ticketCount":"6","paymentMethod":"venue"}`,
			expectedField:   "ticketCount",
			expectedMessage: "チケット枚数を選択してください",
		},
		{
			name:            "unknown payment method",
			body:            `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"cash"}`,
			expectedField:   "paymentMethod",
			expectedMessage: "支払い方法を選択してください",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			submitted := false
			mockUC := &mockTicketUsecase{
				SubmitFunc: func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
					submitted = true
					return sampleApplication(), nil
				},
			}
			r := newTestRouter(mockUC)

			w := doJSON(r, http.MethodPost, "/api/tickets", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, submitted, "no side effect should occur on validation failure")

			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "入力内容に問題があります", body["message"])

			fieldErrs, ok := body["errors"].([]any)
			require.True(t, ok, "errors should be a list")
			require.Len(t, fieldErrs, 1)
			fe := fieldErrs[0].(map[string]any)
			assert.Equal(t, tt.expectedField, fe["field"])
			assert.Equal(t, tt.expectedMessage, fe["message"])
		})
	}
}

// TestTicketHandler_Apply_DuplicateID は申し込みID衝突時に409が返ることを検証します。
func TestTicketHandler_Apply_DuplicateID(t *testing.T) {
	t.Parallel()

	mockUC := &mockTicketUsecase{
		SubmitFunc: func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
			return nil, domain.ErrDuplicateApplicationID
		},
	}
	r := newTestRouter(mockUC)

	w := doJSON(r, http.MethodPost, "/api/tickets", validBody)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
}

// TestTicketHandler_Apply_DatastoreError はデータストア障害時に
// 元のエラーメッセージ付きで500が返ることを検証します。
func TestTicketHandler_Apply_DatastoreError(t *testing.T) {
	t.Parallel()

	mockUC := &mockTicketUsecase{
		SubmitFunc: func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
			return nil, errors.New("connection refused")
		},
	}
	r := newTestRouter(mockUC)

	w := doJSON(r, http.MethodPost, "/api/tickets", validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "申し込み処理中にエラーが発生しました", body["message"])
	assert.Equal(t, "connection refused", body["error"])
}

// TestTicketHandler_ApplyForm はフォーム変形のプライバシーポリシー同意チェックを検証します。
func TestTicketHandler_ApplyForm(t *testing.T) {
	t.Parallel()

	formBody := func(consent string) string {
		return `{"name":"北高 太郎","furigana":"キタコウ タロウ","graduationYear":"30","email":"a@b.com","phone":"090-1234-5678","ticketCount":"2","paymentMethod":"venue","privacyPolicy":` + consent + `}`
	}

	t.Run("consent required", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPost, "/api/festival/tickets", formBody("false"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		fieldErrs := body["errors"].([]any)
		require.Len(t, fieldErrs, 1)
		fe := fieldErrs[0].(map[string]any)
		assert.Equal(t, "privacyPolicy", fe["field"])
		assert.Equal(t, "プライバシーポリシーに同意する必要があります", fe["message"])
	})

	t.Run("success with consent", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			SubmitFunc: func(ctx context.Context, in usecase.SubmitInput) (*entity.TicketApplication, error) {
				return sampleApplication(), nil
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPost, "/api/festival/tickets", formBody("true"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "TICKET-3F9A2C41", body["applicationId"])
	})
}

// TestTicketHandler_List は一覧APIの各種シナリオを検証します。
func TestTicketHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("success: filters are passed through", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			ListFunc: func(ctx context.Context, status, search string) ([]entity.TicketApplication, error) {
				assert.Equal(t, "paid", status)
				assert.Equal(t, "tanaka", search)
				return []entity.TicketApplication{*sampleApplication()}, nil
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets?status=paid&search=tanaka", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["data"], 1)
	})

	t.Run("success: nil result becomes empty list", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			ListFunc: func(ctx context.Context, status, search string) ([]entity.TicketApplication, error) {
				return nil, nil
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("failure: datastore error", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			ListFunc: func(ctx context.Context, status, search string) ([]entity.TicketApplication, error) {
				return nil, errors.New("connection refused")
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "データの取得中にエラーが発生しました", body["message"])
	})
}

// TestTicketHandler_Get は1件照会APIの各種シナリオを検証します。
func TestTicketHandler_Get(t *testing.T) {
	t.Parallel()

	t.Run("success by application id", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			GetFunc: func(ctx context.Context, idOrCode string) (*entity.TicketApplication, error) {
				assert.Equal(t, "TICKET-3F9A2C41", idOrCode)
				return sampleApplication(), nil
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets/TICKET-3F9A2C41", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "TICKET-3F9A2C41", data["application_id"])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			GetFunc: func(ctx context.Context, idOrCode string) (*entity.TicketApplication, error) {
				return nil, domain.ErrTicketNotFound
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets/999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "申し込みが見つかりません", body["message"])
	})

	t.Run("datastore error", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			GetFunc: func(ctx context.Context, idOrCode string) (*entity.TicketApplication, error) {
				return nil, errors.New("connection refused")
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/tickets/1", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// TestTicketHandler_UpdateStatus はステータス更新APIの各種シナリオを検証します。
func TestTicketHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			UpdateStatusFunc: func(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
				assert.Equal(t, "1", idOrCode)
				assert.Equal(t, "confirmed", status)
				app := sampleApplication()
				app.Status = entity.StatusConfirmed
				return app, nil
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPatch, "/api/tickets/1", `{"status":"confirmed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "チケット情報が更新されました", body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "confirmed", data["status"])
	})

	t.Run("invalid status value", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			UpdateStatusFunc: func(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
				return nil, domain.ErrInvalidStatus
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPatch, "/api/tickets/1", `{"status":"not-a-status"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "無効なステータスです", body["message"])
	})

	t.Run("missing status in body", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPatch, "/api/tickets/1", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			UpdateStatusFunc: func(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
				return nil, domain.ErrTicketNotFound
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPatch, "/api/tickets/TICKET-MISSING1", `{"status":"paid"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("datastore error", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			UpdateStatusFunc: func(ctx context.Context, idOrCode, status string) (*entity.TicketApplication, error) {
				return nil, errors.New("connection refused")
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodPatch, "/api/tickets/1", `{"status":"paid"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "データの更新中にエラーが発生しました", body["message"])
	})
}

// TestTicketHandler_TestConnection はデータストア接続確認APIを検証します。
func TestTicketHandler_TestConnection(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			CountApplicationsFunc: func(ctx context.Context) (int64, error) { return 12, nil },
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/test-connection", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"message":"Supabaseに正常に接続しました","count":12}`, w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		mockUC := &mockTicketUsecase{
			CountApplicationsFunc: func(ctx context.Context) (int64, error) {
				return 0, errors.New("connection refused")
			},
		}
		r := newTestRouter(mockUC)

		w := doJSON(r, http.MethodGet, "/api/test-connection", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Supabaseへの接続に失敗しました", body["message"])
	})
}
