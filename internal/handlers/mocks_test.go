package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/kidsministry/backend/internal/middleware"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/services"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Adjust(ctx context.Context, req services.AdjustRequest) (*services.AdjustResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.AdjustResult)
	return res, args.Error(1)
}

func (m *mockLedger) BulkAdjust(ctx context.Context, req services.BulkAdjustRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *mockLedger) Transfer(ctx context.Context, req services.TransferRequest) (*services.TransferResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.TransferResult)
	return res, args.Error(1)
}

func (m *mockLedger) GrantWithWeeklyCap(ctx context.Context, req services.GrantRequest) (*services.AdjustResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.AdjustResult)
	return res, args.Error(1)
}

func (m *mockLedger) WeeklyGrants(ctx context.Context, teacherID int64) (*services.WeeklySummary, error) {
	args := m.Called(ctx, teacherID)
	res, _ := args.Get(0).(*services.WeeklySummary)
	return res, args.Error(1)
}

func (m *mockLedger) StudentHistory(ctx context.Context, caller models.Caller, studentID int64, limit int) (*services.StudentLedger, error) {
	args := m.Called(ctx, caller, studentID, limit)
	res, _ := args.Get(0).(*services.StudentLedger)
	return res, args.Error(1)
}

func (m *mockLedger) TeacherHistory(ctx context.Context, teacherID int64, limit int) (*services.TeacherLedger, error) {
	args := m.Called(ctx, teacherID, limit)
	res, _ := args.Get(0).(*services.TeacherLedger)
	return res, args.Error(1)
}

type mockActivities struct {
	mock.Mock
}

func (m *mockActivities) SetWeeklyActivity(ctx context.Context, teacherID, studentID int64, done bool) (*services.ActivityResult, error) {
	args := m.Called(ctx, teacherID, studentID, done)
	res, _ := args.Get(0).(*services.ActivityResult)
	return res, args.Error(1)
}

type mockMarket struct {
	mock.Mock
}

func (m *mockMarket) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]*models.Reward)
	return res, args.Error(1)
}

func (m *mockMarket) Purchase(ctx context.Context, studentID, rewardID int64) (*services.PurchaseResult, error) {
	args := m.Called(ctx, studentID, rewardID)
	res, _ := args.Get(0).(*services.PurchaseResult)
	return res, args.Error(1)
}

func (m *mockMarket) RedeemVoucher(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendSMS(ctx context.Context, to, body string) error {
	return m.Called(ctx, to, body).Error(0)
}

// asCaller stands in for the JWT middleware.
func asCaller(c models.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), c)))
		})
	}
}

func serve(router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
