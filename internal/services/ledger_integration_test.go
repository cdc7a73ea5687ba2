package services

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsministry/backend/internal/config"
	"github.com/kidsministry/backend/internal/database"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
)

// Runs only with TEST_DATABASE_URL=postgres://... set.
func newPostgresLedger(t *testing.T) (*LedgerService, *sql.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run Postgres integration tests")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, logger.NewNop()))
	_, err = db.Exec(`TRUNCATE reward_vouchers, rewards, attendance, weekly_activities,
		teacher_talent_history, talent_history, students, teachers RESTART IDENTITY`)
	require.NoError(t, err)

	cfg := &config.LedgerConfig{WeeklyLimit: 5, Location: kst, ActivityAmount: 1, AttendanceAmount: 1, BulkMax: 200}
	return NewLedgerService(db, cfg, nil, logger.NewNop()), db
}

func seedClass(t *testing.T, db *sql.DB, students int, talents int64) (int64, []int64) {
	t.Helper()
	var teacherID int64
	require.NoError(t, db.QueryRow(
		`INSERT INTO teachers (name, talents) VALUES ('김선생', 0) RETURNING id`).Scan(&teacherID))

	ids := make([]int64, students)
	for i := range ids {
		require.NoError(t, db.QueryRow(
			`INSERT INTO students (name, teacher_name, talents) VALUES ($1, '김선생', $2) RETURNING id`,
			"학생", talents).Scan(&ids[i]))
	}
	return teacherID, ids
}

func TestPostgres_ConcurrentAdjustKeepsChain(t *testing.T) {
	svc, db := newPostgresLedger(t)
	_, ids := seedClass(t, db, 1, 10)
	studentID := ids[0]
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, amount := range []int64{3, -1} {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := svc.Adjust(ctx, AdjustRequest{
				Subject: Subject{Kind: models.AccountStudent, ID: studentID},
				Amount:  amount,
			})
			errs <- err
		}(amount)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var talents int64
	require.NoError(t, db.QueryRow(`SELECT talents FROM students WHERE id = $1`, studentID).Scan(&talents))
	assert.Equal(t, int64(12), talents)

	rows, err := db.Query(`SELECT before_balance, after_balance FROM talent_history WHERE student_id = $1 ORDER BY id`, studentID)
	require.NoError(t, err)
	defer rows.Close()

	prev := int64(10)
	n := 0
	for rows.Next() {
		var before, after int64
		require.NoError(t, rows.Scan(&before, &after))
		assert.Equal(t, prev, before)
		prev = after
		n++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(12), prev)
}

func TestPostgres_ConcurrentGrantsRespectWeeklyLimit(t *testing.T) {
	svc, db := newPostgresLedger(t)
	teacherID, ids := seedClass(t, db, 5, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted, limited := 0, 0
	for _, id := range ids {
		wg.Add(1)
		go func(studentID int64) {
			defer wg.Done()
			_, err := svc.GrantWithWeeklyCap(ctx, GrantRequest{TeacherID: teacherID, StudentID: studentID, Amount: 2})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				granted++
			case errors.Is(err, ErrWeeklyLimitExceeded):
				limited++
			default:
				t.Errorf("unexpected grant error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, granted)
	assert.Equal(t, 3, limited)

	summary, err := svc.WeeklyGrants(ctx, teacherID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.WeeklyTotal)
	assert.Equal(t, int64(1), summary.Remaining)
}
