package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"

	"github.com/skip2/go-qrcode"

	"github.com/kidsministry/backend/internal/database"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
)

type PurchaseResult struct {
	Voucher       *models.Voucher `json:"voucher"`
	Reward        *models.Reward  `json:"reward"`
	Student       *models.Student `json:"student"`
	BeforeBalance int64           `json:"beforeBalance"`
	AfterBalance  int64           `json:"afterBalance"`
	QRCode        string          `json:"qrCode"`
}

// MarketService sells rewards for talents and issues a pickup voucher per sale.
type MarketService struct {
	ledger *LedgerService
	log    *logger.Logger
}

func NewMarketService(ledger *LedgerService, log *logger.Logger) *MarketService {
	if log == nil {
		log = logger.NewNop()
	}
	return &MarketService{ledger: ledger, log: log.With("service", "MarketService")}
}

func (s *MarketService) ListRewards(ctx context.Context) ([]*models.Reward, error) {
	rows, err := s.ledger.db.QueryContext(ctx, `
		SELECT id, name, description, price, stock, active
		FROM rewards
		WHERE active = TRUE
		ORDER BY price, id`)
	if err != nil {
		return nil, internalErr("상품 목록 조회 실패", err)
	}
	defer rows.Close()

	rewards := []*models.Reward{}
	for rows.Next() {
		var r models.Reward
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Price, &r.Stock, &r.Active); err != nil {
			return nil, internalErr("상품 목록 조회 실패", err)
		}
		rewards = append(rewards, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErr("상품 목록 조회 실패", err)
	}
	return rewards, nil
}

// Purchase locks the reward and then the student, checks stock and balance,
// and records the debit, the stock decrement and the voucher together.
func (s *MarketService) Purchase(ctx context.Context, studentID, rewardID int64) (*PurchaseResult, error) {
	code := s.ledger.newRef()

	var result *PurchaseResult
	err := s.ledger.WithTx(ctx, func(tx *sql.Tx) error {
		var reward models.Reward
		err := tx.QueryRowContext(ctx, `
			SELECT id, name, description, price, stock, active
			FROM rewards WHERE id = $1 FOR UPDATE`, rewardID,
		).Scan(&reward.ID, &reward.Name, &reward.Description, &reward.Price, &reward.Stock, &reward.Active)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRewardNotFound
		}
		if err != nil {
			return internalErr("상품 조회 실패", err)
		}
		if !reward.Active {
			return ErrRewardInactive
		}
		if reward.Stock <= 0 {
			return ErrOutOfStock
		}

		student, err := s.ledger.LockStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student.Talents < reward.Price {
			return ErrInsufficientBalance.With("balance", student.Talents).With("price", reward.Price)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE rewards SET stock = stock - 1 WHERE id = $1`, reward.ID); err != nil {
			return internalErr("재고 갱신 실패", err)
		}
		reward.Stock--

		before := student.Talents
		entry, err := s.ledger.ApplyStudentTx(ctx, tx, student, -reward.Price,
			fmt.Sprintf("%s 구매", reward.Name), models.HistoryPurchase, code)
		if err != nil {
			return err
		}

		voucher := &models.Voucher{
			Code:      code,
			RewardID:  reward.ID,
			StudentID: student.ID,
			Price:     reward.Price,
			CreatedAt: entry.CreatedAt,
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reward_vouchers (code, reward_id, student_id, price, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			voucher.Code, voucher.RewardID, voucher.StudentID, voucher.Price, voucher.CreatedAt); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrConflict.With("code", code)
			}
			return internalErr("교환권 발급 실패", err)
		}

		result = &PurchaseResult{
			Voucher:       voucher,
			Reward:        &reward,
			Student:       student,
			BeforeBalance: before,
			AfterBalance:  student.Talents,
		}
		return nil
	})
	if err != nil {
		s.ledger.audit.LogError("PURCHASE", string(models.AccountStudent), studentID, err)
		return nil, err
	}

	s.ledger.audit.LogAdjust(string(models.AccountStudent), studentID, -result.Reward.Price,
		result.BeforeBalance, result.AfterBalance, string(models.HistoryPurchase), result.Reward.Name)

	qr, err := voucherQR(result.Voucher)
	if err != nil {
		// The sale is committed; the voucher code alone is enough for pickup.
		s.log.Warn("voucher QR generation failed", "code", result.Voucher.Code, "error", err)
	}
	result.QRCode = qr
	return result, nil
}

// RedeemVoucher marks a voucher as handed out.
func (s *MarketService) RedeemVoucher(ctx context.Context, code string) error {
	res, err := s.ledger.db.ExecContext(ctx, `
		UPDATE reward_vouchers SET redeemed = TRUE
		WHERE code = $1 AND redeemed = FALSE`, code)
	if err != nil {
		return internalErr("교환권 처리 실패", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return internalErr("교환권 처리 실패", err)
	}
	if n > 0 {
		s.ledger.audit.LogOperation("VOUCHER_REDEEM", "voucher", 0, code)
		return nil
	}

	var exists bool
	if err := s.ledger.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reward_vouchers WHERE code = $1)`, code).Scan(&exists); err != nil {
		return internalErr("교환권 처리 실패", err)
	}
	if !exists {
		return &LedgerError{Kind: KindNotFound, Code: "voucher_not_found", Message: "교환권을 찾을 수 없습니다"}
	}
	return &LedgerError{Kind: KindConflict, Code: "voucher_redeemed", Message: "이미 사용된 교환권입니다"}
}

func voucherQR(v *models.Voucher) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"code":      v.Code,
		"rewardId":  v.RewardID,
		"studentId": v.StudentID,
	})
	if err != nil {
		return "", err
	}

	qr, err := qrcode.New(string(payload), qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
