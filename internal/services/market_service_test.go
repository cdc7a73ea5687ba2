package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsministry/backend/internal/models"
)

var rewardCols = []string{"id", "name", "description", "price", "stock", "active"}

const lockRewardSQL = `FROM rewards WHERE id = \$1 FOR UPDATE`

func TestMarketService_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("debits price, decrements stock and issues a voucher", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockRewardSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(rewardCols).AddRow(7, "연필 세트", "", 10, 3, true))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "김선생", 12))
		mock.ExpectExec(`UPDATE rewards SET stock = stock - 1 WHERE id = \$1`).WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		expectStudentApply(mock, 2, 12, -10, "연필 세트 구매", models.HistoryPurchase, "ref-1", 70)
		mock.ExpectExec(`INSERT INTO reward_vouchers`).
			WithArgs("ref-1", int64(7), int64(2), int64(10), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := svc.Purchase(ctx, 2, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(12), res.BeforeBalance)
		assert.Equal(t, int64(2), res.AfterBalance)
		assert.Equal(t, 2, res.Reward.Stock)
		assert.Equal(t, "ref-1", res.Voucher.Code)

		png, err := base64.StdEncoding.DecodeString(res.QRCode)
		require.NoError(t, err)
		assert.Equal(t, "\x89PNG", string(png[:4]))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance leaves stock alone", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockRewardSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(rewardCols).AddRow(7, "연필 세트", "", 10, 3, true))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "김선생", 9))
		mock.ExpectRollback()

		_, err := svc.Purchase(ctx, 2, 7)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sold out", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockRewardSQL).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(rewardCols).AddRow(7, "연필 세트", "", 10, 0, true))
		mock.ExpectRollback()

		_, err := svc.Purchase(ctx, 2, 7)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown reward", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(lockRewardSQL).WithArgs(int64(8)).WillReturnRows(sqlmock.NewRows(rewardCols))
		mock.ExpectRollback()

		_, err := svc.Purchase(ctx, 2, 8)
		assert.ErrorIs(t, err, ErrRewardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarketService_ListRewards(t *testing.T) {
	ledger, mock := newTestLedger(t)
	svc := NewMarketService(ledger, nil)

	mock.ExpectQuery(`FROM rewards WHERE active = TRUE ORDER BY price, id`).
		WillReturnRows(sqlmock.NewRows(rewardCols).
			AddRow(1, "스티커", "", 3, 50, true).
			AddRow(7, "연필 세트", "", 10, 3, true))

	rewards, err := svc.ListRewards(context.Background())
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.Equal(t, "스티커", rewards[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketService_RedeemVoucher(t *testing.T) {
	ctx := context.Background()
	redeemSQL := `UPDATE reward_vouchers SET redeemed = TRUE WHERE code = \$1 AND redeemed = FALSE`
	existsSQL := `SELECT EXISTS\(SELECT 1 FROM reward_vouchers WHERE code = \$1\)`

	t.Run("first redemption", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectExec(redeemSQL).WithArgs("ref-1").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.RedeemVoucher(ctx, "ref-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already redeemed", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectExec(redeemSQL).WithArgs("ref-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).WithArgs("ref-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := svc.RedeemVoucher(ctx, "ref-1")
		assert.Equal(t, KindConflict, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewMarketService(ledger, nil)

		mock.ExpectExec(redeemSQL).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsSQL).WithArgs("nope").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := svc.RedeemVoucher(ctx, "nope")
		assert.Equal(t, KindNotFound, KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
