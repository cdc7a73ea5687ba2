package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
)

type AttendanceAwardResult struct {
	Date    string  `json:"date"`
	Amount  int64   `json:"amount"`
	Awarded []int64 `json:"awarded"`
	Skipped int     `json:"skipped"`
}

type AttendanceService struct {
	ledger *LedgerService
	log    *logger.Logger
}

func NewAttendanceService(ledger *LedgerService, log *logger.Logger) *AttendanceService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AttendanceService{ledger: ledger, log: log.With("service", "AttendanceService")}
}

// AwardAttendance credits every student marked present on date who has not
// been paid for it yet. Each student is paid in its own transaction together
// with the awarded flag, so a rerun only pays the ones still outstanding.
func (s *AttendanceService) AwardAttendance(ctx context.Context, date time.Time, amount int64) (*AttendanceAwardResult, error) {
	if amount == 0 {
		amount = s.ledger.Config().AttendanceAmount
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	day := date.Format("2006-01-02")

	rows, err := s.ledger.db.QueryContext(ctx, `
		SELECT student_id FROM attendance
		WHERE date = $1 AND present = TRUE AND awarded = FALSE
		ORDER BY student_id`, day)
	if err != nil {
		return nil, internalErr("출석 조회 실패", err)
	}
	var pending []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, internalErr("출석 조회 실패", err)
		}
		pending = append(pending, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, internalErr("출석 조회 실패", err)
	}

	result := &AttendanceAwardResult{Date: day, Amount: amount, Awarded: []int64{}}
	reason := fmt.Sprintf("%s (%s)", models.HistoryAttendance.DefaultReason(), day)
	for _, studentID := range pending {
		paid, err := s.awardOne(ctx, studentID, day, amount, reason)
		if err != nil {
			s.ledger.audit.LogError("ATTENDANCE", string(models.AccountStudent), studentID, err)
			return result, fmt.Errorf("award student %d: %w", studentID, err)
		}
		if !paid {
			result.Skipped++
			continue
		}
		result.Awarded = append(result.Awarded, studentID)
	}

	s.ledger.audit.LogOperation("ATTENDANCE", string(models.AccountStudent), 0,
		fmt.Sprintf("date=%s awarded=%d skipped=%d amount=%d", day, len(result.Awarded), result.Skipped, amount))
	s.log.Info("attendance awarded", "date", day, "awarded", len(result.Awarded), "skipped", result.Skipped)
	return result, nil
}

func (s *AttendanceService) awardOne(ctx context.Context, studentID int64, day string, amount int64, reason string) (bool, error) {
	paid := false
	err := s.ledger.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE attendance SET awarded = TRUE
			WHERE student_id = $1 AND date = $2 AND present = TRUE AND awarded = FALSE`,
			studentID, day)
		if err != nil {
			return internalErr("출석 보상 기록 실패", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return internalErr("출석 보상 기록 실패", err)
		}
		if n == 0 {
			return nil
		}

		if _, err := s.ledger.AdjustTx(ctx, tx, AdjustRequest{
			Subject: Subject{Kind: models.AccountStudent, ID: studentID},
			Amount:  amount,
			Reason:  reason,
			Type:    models.HistoryAttendance,
		}); err != nil {
			return err
		}
		paid = true
		return nil
	})
	return paid, err
}
