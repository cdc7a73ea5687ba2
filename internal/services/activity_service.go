package services

import (
	"context"
	"database/sql"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
)

type ActivityResult struct {
	Student   *models.Student       `json:"student"`
	Done      bool                  `json:"done"`
	Changed   bool                  `json:"changed"`
	WeekStart string                `json:"weekStart"`
	Entry     *models.TalentHistory `json:"entry,omitempty"`
}

// ActivityService toggles the weekly activity mark and keeps the matching
// talent credit in step with it.
type ActivityService struct {
	ledger *LedgerService
	log    *logger.Logger
}

func NewActivityService(ledger *LedgerService, log *logger.Logger) *ActivityService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ActivityService{ledger: ledger, log: log.With("service", "ActivityService")}
}

// SetWeeklyActivity marks or unmarks the student's activity for the current
// week. Setting the state the student already has changes nothing.
func (s *ActivityService) SetWeeklyActivity(ctx context.Context, teacherID, studentID int64, done bool) (*ActivityResult, error) {
	amount := s.ledger.Config().ActivityAmount
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	weekStart := s.ledger.CurrentWeekStart().Format("2006-01-02")

	var result *ActivityResult
	err := s.ledger.WithTx(ctx, func(tx *sql.Tx) error {
		teacher, err := s.ledger.findTeacher(ctx, tx, teacherID)
		if err != nil {
			return err
		}
		student, err := s.ledger.LockStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if !teacher.Teaches(student) {
			return ErrNotAssignedTeacher
		}

		var marked bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM weekly_activities WHERE student_id = $1 AND week_start = $2)`,
			studentID, weekStart).Scan(&marked); err != nil {
			return internalErr("주간 활동 조회 실패", err)
		}

		result = &ActivityResult{Student: student, Done: done, WeekStart: weekStart}
		if marked == done {
			return nil
		}

		var entry *models.TalentHistory
		if done {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO weekly_activities (student_id, week_start, marked_by, created_at)
				VALUES ($1, $2, $3, $4)`,
				studentID, weekStart, teacherID, s.ledger.now()); err != nil {
				return internalErr("주간 활동 기록 실패", err)
			}
			entry, err = s.ledger.ApplyStudentTx(ctx, tx, student, amount, "주간 활동 완료", models.HistoryActivity, "")
		} else {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM weekly_activities WHERE student_id = $1 AND week_start = $2`,
				studentID, weekStart); err != nil {
				return internalErr("주간 활동 취소 실패", err)
			}
			entry, err = s.ledger.ApplyStudentTx(ctx, tx, student, -amount, "주간 활동 취소", models.HistoryActivity, "")
		}
		if err != nil {
			return err
		}
		result.Changed = true
		result.Entry = entry
		return nil
	})
	if err != nil {
		s.ledger.audit.LogError("ACTIVITY", string(models.AccountStudent), studentID, err)
		return nil, err
	}

	if result.Changed {
		s.ledger.audit.LogAdjust(string(models.AccountStudent), studentID, result.Entry.Amount,
			result.Entry.BeforeBalance, result.Entry.AfterBalance, string(models.HistoryActivity), result.Entry.Reason)
	}
	return result, nil
}
