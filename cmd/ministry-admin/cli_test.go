package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kidsministry/backend/internal/middleware"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/services"
)

type mockAwarder struct {
	mock.Mock
}

func (m *mockAwarder) AwardAttendance(ctx context.Context, date time.Time, amount int64) (*services.AttendanceAwardResult, error) {
	args := m.Called(ctx, date, amount)
	res, _ := args.Get(0).(*services.AttendanceAwardResult)
	return res, args.Error(1)
}

func newTestCLI(awarder attendanceAwarder) (*commandLine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	kst := time.FixedZone("KST", 9*60*60)
	return &commandLine{
		out:       out,
		loc:       kst,
		jwtSecret: "test-secret",
		attendance: func() (attendanceAwarder, error) {
			if awarder == nil {
				return nil, errors.New("no database")
			}
			return awarder, nil
		},
	}, out
}

func TestCLI_Usage(t *testing.T) {
	cli, out := newTestCLI(nil)

	err := cli.run(context.Background(), []string{"ministry-admin"})
	assert.ErrorIs(t, err, errHelp)
	assert.Contains(t, out.String(), "award-attendance")

	err = cli.run(context.Background(), []string{"ministry-admin", "bogus"})
	assert.ErrorIs(t, err, errHelp)
}

func TestCLI_AwardAttendance(t *testing.T) {
	awarder := &mockAwarder{}
	cli, out := newTestCLI(awarder)
	day := time.Date(2026, 10, 11, 0, 0, 0, 0, cli.loc)

	awarder.On("AwardAttendance", mock.Anything, mock.MatchedBy(day.Equal), int64(2)).Return(&services.AttendanceAwardResult{
		Date:    "2026-10-11",
		Amount:  2,
		Awarded: []int64{3, 7},
		Skipped: 1,
	}, nil)

	err := cli.run(context.Background(), []string{"ministry-admin", "award-attendance", "-date", "2026-10-11", "-amount", "2"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-11: awarded 2 talent(s) to 2 student(s), skipped 1\n", out.String())
	awarder.AssertExpectations(t)
}

func TestCLI_AwardAttendance_BadDate(t *testing.T) {
	awarder := &mockAwarder{}
	cli, _ := newTestCLI(awarder)

	err := cli.run(context.Background(), []string{"ministry-admin", "award-attendance", "-date", "11/10/2026"})
	assert.Error(t, err)
	awarder.AssertNotCalled(t, "AwardAttendance", mock.Anything, mock.Anything, mock.Anything)
}

func TestCLI_AwardAttendance_ServiceError(t *testing.T) {
	awarder := &mockAwarder{}
	cli, _ := newTestCLI(awarder)

	awarder.On("AwardAttendance", mock.Anything, mock.Anything, int64(-1)).Return(nil, services.ErrInvalidAmount)

	err := cli.run(context.Background(), []string{"ministry-admin", "award-attendance", "-date", "2026-10-11", "-amount", "-1"})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestCLI_IssueToken(t *testing.T) {
	cli, out := newTestCLI(nil)

	err := cli.run(context.Background(), []string{"ministry-admin", "issue-token", "-kind", "teacher", "-id", "4", "-ttl", "1h"})
	require.NoError(t, err)

	raw := strings.TrimSpace(out.String())
	claims := &middleware.Claims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, claims.Kind)
	assert.Equal(t, int64(4), claims.SubjectID)
}

func TestCLI_IssueToken_RejectsBadKind(t *testing.T) {
	cli, _ := newTestCLI(nil)

	err := cli.run(context.Background(), []string{"ministry-admin", "issue-token", "-kind", "parent", "-id", "4"})
	assert.ErrorIs(t, err, errHelp)

	err = cli.run(context.Background(), []string{"ministry-admin", "issue-token", "-kind", "student"})
	assert.ErrorIs(t, err, errHelp)
}
