package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsministry/backend/internal/models"
)

const activityExistsSQL = `SELECT EXISTS\(SELECT 1 FROM weekly_activities WHERE student_id = \$1 AND week_start = \$2\)`

func TestActivityService_SetWeeklyActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("marking done credits the activity amount", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewActivityService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(findTeacherSQL).WithArgs(int64(1)).WillReturnRows(teacherRow(1, "김선생", 20))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "김선생", 4))
		mock.ExpectQuery(activityExistsSQL).WithArgs(int64(2), "2026-10-11").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO weekly_activities`).
			WithArgs(int64(2), "2026-10-11", int64(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		expectStudentApply(mock, 2, 4, 1, "주간 활동 완료", models.HistoryActivity, "", 50)
		mock.ExpectCommit()

		res, err := svc.SetWeeklyActivity(ctx, 1, 2, true)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, int64(5), res.Student.Talents)
		assert.Equal(t, "2026-10-11", res.WeekStart)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unmarking debits the same amount", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewActivityService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(findTeacherSQL).WithArgs(int64(1)).WillReturnRows(teacherRow(1, "김선생", 20))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "김선생", 5))
		mock.ExpectQuery(activityExistsSQL).WithArgs(int64(2), "2026-10-11").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`DELETE FROM weekly_activities WHERE student_id = \$1 AND week_start = \$2`).
			WithArgs(int64(2), "2026-10-11").
			WillReturnResult(sqlmock.NewResult(0, 1))
		expectStudentApply(mock, 2, 5, -1, "주간 활동 취소", models.HistoryActivity, "", 51)
		mock.ExpectCommit()

		res, err := svc.SetWeeklyActivity(ctx, 1, 2, false)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, int64(4), res.Student.Talents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeating the current state is a no-op", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewActivityService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(findTeacherSQL).WithArgs(int64(1)).WillReturnRows(teacherRow(1, "김선생", 20))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "김선생", 5))
		mock.ExpectQuery(activityExistsSQL).WithArgs(int64(2), "2026-10-11").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectCommit()

		res, err := svc.SetWeeklyActivity(ctx, 1, 2, true)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Nil(t, res.Entry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("another teacher's student", func(t *testing.T) {
		ledger, mock := newTestLedger(t)
		svc := NewActivityService(ledger, nil)

		mock.ExpectBegin()
		mock.ExpectQuery(findTeacherSQL).WithArgs(int64(1)).WillReturnRows(teacherRow(1, "김선생", 20))
		mock.ExpectQuery(lockStudentSQL).WithArgs(int64(2)).WillReturnRows(studentRow(2, "이하은", "박선생", 5))
		mock.ExpectRollback()

		_, err := svc.SetWeeklyActivity(ctx, 1, 2, true)
		assert.ErrorIs(t, err, ErrNotAssignedTeacher)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
