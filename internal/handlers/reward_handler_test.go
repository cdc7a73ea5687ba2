package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/services"
)

var student = models.Caller{Role: models.RoleStudent, ID: 7}

func newRewardRouter(market *mockMarket, caller models.Caller) chi.Router {
	h := NewRewardHandler(market, nil, nil)
	r := chi.NewRouter()
	r.Use(asCaller(caller))
	r.Get("/rewards", h.List)
	r.Post("/student/rewards/{rewardId}/purchase", h.Purchase)
	r.Post("/teacher/vouchers/{code}/redeem", h.Redeem)
	return r
}

func TestListRewards(t *testing.T) {
	market := &mockMarket{}
	market.On("ListRewards", mock.Anything).Return([]*models.Reward{
		{ID: 1, Name: "색연필", Price: 5, Stock: 10, Active: true},
	}, nil)

	rec := serve(newRewardRouter(market, student), http.MethodGet, "/rewards", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec.Body.Bytes())["rewards"], 1)
}

func TestPurchase(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		market := &mockMarket{}
		market.On("Purchase", mock.Anything, int64(7), int64(1)).Return(&services.PurchaseResult{
			Voucher:       &models.Voucher{Code: "V-1", RewardID: 1, StudentID: 7, Price: 5},
			Reward:        &models.Reward{ID: 1, Name: "색연필", Price: 5},
			Student:       &models.Student{ID: 7},
			BeforeBalance: 8,
			AfterBalance:  3,
			QRCode:        "iVBORw0KGgo=",
		}, nil)

		rec := serve(newRewardRouter(market, student), http.MethodPost, "/student/rewards/1/purchase", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec.Body.Bytes())
		assert.Equal(t, float64(3), body["afterBalance"])
		assert.Equal(t, "iVBORw0KGgo=", body["qrCode"])
		assert.Equal(t, "V-1", body["voucher"].(map[string]any)["code"])
	})

	t.Run("out of stock", func(t *testing.T) {
		market := &mockMarket{}
		market.On("Purchase", mock.Anything, int64(7), int64(1)).Return(nil, services.ErrOutOfStock)

		rec := serve(newRewardRouter(market, student), http.MethodPost, "/student/rewards/1/purchase", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		market := &mockMarket{}
		market.On("Purchase", mock.Anything, int64(7), int64(1)).Return(nil, services.ErrInsufficientBalance)

		rec := serve(newRewardRouter(market, student), http.MethodPost, "/student/rewards/1/purchase", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad reward id", func(t *testing.T) {
		market := &mockMarket{}
		rec := serve(newRewardRouter(market, student), http.MethodPost, "/student/rewards/0/purchase", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRedeem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		market := &mockMarket{}
		market.On("RedeemVoucher", mock.Anything, "V-1").Return(nil)

		rec := serve(newRewardRouter(market, teacher), http.MethodPost, "/teacher/vouchers/V-1/redeem", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already redeemed", func(t *testing.T) {
		market := &mockMarket{}
		market.On("RedeemVoucher", mock.Anything, "V-1").Return(services.ErrConflict)

		rec := serve(newRewardRouter(market, teacher), http.MethodPost, "/teacher/vouchers/V-1/redeem", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "이미 존재하는 데이터입니다", decodeBody(t, rec.Body.Bytes())["error"])
	})
}
