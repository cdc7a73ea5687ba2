package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/notify"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

type RewardMarket interface {
	ListRewards(ctx context.Context) ([]*models.Reward, error)
	Purchase(ctx context.Context, studentID, rewardID int64) (*services.PurchaseResult, error)
	RedeemVoucher(ctx context.Context, code string) error
}

type RewardHandler struct {
	market   RewardMarket
	notifier notify.Notifier
	log      *logger.Logger
}

func NewRewardHandler(market RewardMarket, notifier notify.Notifier, log *logger.Logger) *RewardHandler {
	if log == nil {
		log = logger.NewNop()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &RewardHandler{market: market, notifier: notifier, log: log.With("handler", "RewardHandler")}
}

// List returns the rewards currently on sale
// @Summary List rewards
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,rewards=[]models.Reward}
// @Router /rewards [get]
func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.market.ListRewards(r.Context())
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]any{"success": true, "rewards": rewards})
}

// Purchase buys a reward with the calling student's talents
// @Summary Purchase a reward
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Param rewardId path int true "Reward ID"
// @Success 200 {object} services.PurchaseResult
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /student/rewards/{rewardId}/purchase [post]
func (h *RewardHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	rewardID, ok := pathID(w, r, "rewardId")
	if !ok {
		return
	}

	res, err := h.market.Purchase(r.Context(), caller.ID, rewardID)
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	notify.SendAsync(h.notifier, h.log, res.Student.Phone,
		fmt.Sprintf("[교회학교] %s 구매 완료 (교환권 %s)", res.Reward.Name, res.Voucher.Code))

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"voucher":       res.Voucher,
		"reward":        res.Reward,
		"beforeBalance": res.BeforeBalance,
		"afterBalance":  res.AfterBalance,
		"qrCode":        res.QRCode,
	})
}

// Redeem marks a voucher as handed out
// @Summary Redeem a voucher
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Param code path string true "Voucher code"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /teacher/vouchers/{code}/redeem [post]
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		services.SendErrorResponse(w, "교환권 코드가 필요합니다", http.StatusBadRequest, nil)
		return
	}
	if err := h.market.RedeemVoucher(r.Context(), code); err != nil {
		writeLedgerError(w, h.log, err)
		return
	}
	services.SendJSON(w, http.StatusOK, map[string]any{"success": true})
}
