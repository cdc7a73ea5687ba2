package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kidsministry/backend/internal/audit"
	"github.com/kidsministry/backend/internal/config"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
)

// grantLockNamespace is the first key of the per-teacher advisory lock taken by
// GrantWithWeeklyCap.
const grantLockNamespace int64 = 5101

const defaultHistoryLimit = 100

type ledgerTables struct {
	accounts string
	history  string
	owner    string
}

var (
	studentLedger = ledgerTables{accounts: "students", history: "talent_history", owner: "student_id"}
	teacherLedger = ledgerTables{accounts: "teachers", history: "teacher_talent_history", owner: "teacher_id"}
)

// Subject identifies the account an adjustment targets.
type Subject struct {
	Kind models.AccountKind `json:"kind"`
	ID   int64              `json:"id"`
}

type AdjustRequest struct {
	Subject     Subject
	Amount      int64
	Reason      string
	Type        models.HistoryType
	ReferenceID string
}

type AdjustResult struct {
	Student       *models.Student       `json:"student,omitempty"`
	Teacher       *models.Teacher       `json:"teacher,omitempty"`
	BeforeBalance int64                 `json:"beforeBalance"`
	AfterBalance  int64                 `json:"afterBalance"`
	Entry         *models.TalentHistory `json:"entry"`
}

type BulkAdjustRequest struct {
	StudentIDs []int64
	Amount     int64
	Reason     string
	Type       models.HistoryType
}

type TransferRequest struct {
	TeacherID int64
	StudentID int64
	Amount    int64
	Reason    string
}

type BalanceChange struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

type TransferResult struct {
	Teacher     BalanceChange   `json:"teacher"`
	Student     BalanceChange   `json:"student"`
	ReferenceID string          `json:"referenceId"`
	TeacherName string          `json:"-"`
	StudentInfo *models.Student `json:"-"`
}

type GrantRequest struct {
	TeacherID int64
	StudentID int64
	Amount    int64
	Reason    string
}

type WeeklyGrant struct {
	HistoryID   int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	StudentName string    `json:"studentName"`
	Amount      int64     `json:"amount"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WeeklySummary struct {
	WeeklyTotal int64         `json:"weeklyTotal"`
	Limit       int64         `json:"limit"`
	Remaining   int64         `json:"remaining"`
	WeekStart   time.Time     `json:"weekStart"`
	Grants      []WeeklyGrant `json:"grants"`
}

type StudentLedger struct {
	Student *models.Student         `json:"student"`
	History []*models.TalentHistory `json:"history"`
}

type TeacherLedger struct {
	Teacher *models.Teacher         `json:"teacher"`
	History []*models.TalentHistory `json:"history"`
}

// LedgerService owns every write to talent balances and their history tables.
// Each exported mutation runs in a single transaction and locks the affected
// account rows before reading their balance.
type LedgerService struct {
	db     *sql.DB
	cfg    *config.LedgerConfig
	audit  *audit.AuditLogger
	log    *logger.Logger
	now    func() time.Time
	newRef func() string
}

func NewLedgerService(db *sql.DB, cfg *config.LedgerConfig, auditLog *audit.AuditLogger, log *logger.Logger) *LedgerService {
	if log == nil {
		log = logger.NewNop()
	}
	if auditLog == nil {
		auditLog = audit.NewAuditLogger(log)
	}
	return &LedgerService{
		db:     db,
		cfg:    cfg,
		audit:  auditLog,
		log:    log.With("service", "LedgerService"),
		now:    time.Now,
		newRef: uuid.NewString,
	}
}

func (s *LedgerService) Config() *config.LedgerConfig { return s.cfg }

// CurrentWeekStart is the most recent Sunday 00:00 in the configured zone.
func (s *LedgerService) CurrentWeekStart() time.Time {
	return StartOfWeek(s.now(), s.cfg.Location)
}

// WithTx runs fn inside one transaction. The transaction commits only when fn
// returns nil.
func (s *LedgerService) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return internalErr("트랜잭션을 시작할 수 없습니다", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return internalErr("트랜잭션 커밋에 실패했습니다", err)
	}
	return nil
}

func (s *LedgerService) Adjust(ctx context.Context, req AdjustRequest) (*AdjustResult, error) {
	if _, _, err := normalizeAdjust(req); err != nil {
		return nil, err
	}

	var result *AdjustResult
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		result, err = s.AdjustTx(ctx, tx, req)
		return err
	})
	if err != nil {
		s.audit.LogError("ADJUST", string(req.Subject.Kind), req.Subject.ID, err)
		return nil, err
	}
	s.audit.LogAdjust(string(req.Subject.Kind), req.Subject.ID, req.Amount,
		result.BeforeBalance, result.AfterBalance, string(result.Entry.Type), result.Entry.Reason)
	return result, nil
}

// AdjustTx applies one adjustment inside a transaction the caller owns. No floor
// is enforced; callers that must keep balances non-negative check first.
func (s *LedgerService) AdjustTx(ctx context.Context, tx *sql.Tx, req AdjustRequest) (*AdjustResult, error) {
	typ, reason, err := normalizeAdjust(req)
	if err != nil {
		return nil, err
	}

	switch req.Subject.Kind {
	case models.AccountStudent:
		student, err := s.lockStudent(ctx, tx, req.Subject.ID)
		if err != nil {
			return nil, err
		}
		before := student.Talents
		entry, err := s.applyStudentTx(ctx, tx, student, req.Amount, reason, typ, req.ReferenceID)
		if err != nil {
			return nil, err
		}
		return &AdjustResult{Student: student, BeforeBalance: before, AfterBalance: student.Talents, Entry: entry}, nil
	case models.AccountTeacher:
		teacher, err := s.lockTeacher(ctx, tx, req.Subject.ID)
		if err != nil {
			return nil, err
		}
		before := teacher.Talents
		entry, err := s.applyTeacherTx(ctx, tx, teacher, req.Amount, reason, typ, req.ReferenceID)
		if err != nil {
			return nil, err
		}
		return &AdjustResult{Teacher: teacher, BeforeBalance: before, AfterBalance: teacher.Talents, Entry: entry}, nil
	default:
		return nil, ErrInvalidSubject
	}
}

func normalizeAdjust(req AdjustRequest) (models.HistoryType, string, error) {
	if req.Subject.ID <= 0 || (req.Subject.Kind != models.AccountStudent && req.Subject.Kind != models.AccountTeacher) {
		return "", "", ErrInvalidSubject
	}
	if req.Amount == 0 {
		return "", "", ErrInvalidAmount
	}
	typ := req.Type
	if typ == "" {
		typ = models.HistoryManual
	}
	if !typ.Valid() {
		return "", "", ErrInvalidType
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = typ.DefaultReason()
	}
	return typ, reason, nil
}

// BulkAdjust applies the same amount to every listed student in one
// transaction. Rows are locked in ascending id order and duplicate ids collapse.
func (s *LedgerService) BulkAdjust(ctx context.Context, req BulkAdjustRequest) (int, error) {
	if req.Amount == 0 {
		return 0, ErrInvalidAmount
	}
	ids := uniqueSorted(req.StudentIDs)
	if len(ids) == 0 {
		return 0, ErrInvalidSubject
	}
	if s.cfg.BulkMax > 0 && len(ids) > s.cfg.BulkMax {
		return 0, ErrBulkTooLarge.With("max", s.cfg.BulkMax)
	}
	typ := req.Type
	if typ == "" {
		typ = models.HistoryManual
	}
	if !typ.Valid() {
		return 0, ErrInvalidType
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = typ.DefaultReason()
	}

	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			student, err := s.lockStudent(ctx, tx, id)
			if err != nil {
				return err
			}
			if _, err := s.applyStudentTx(ctx, tx, student, req.Amount, reason, typ, ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.audit.LogError("BULK_ADJUST", string(models.AccountStudent), 0, err)
		return 0, err
	}

	s.audit.LogOperation("BULK_ADJUST", string(models.AccountStudent), 0,
		fmt.Sprintf("count=%d amount=%d reason=%s", len(ids), req.Amount, reason))
	return len(ids), nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Transfer moves talents from a teacher's own balance to one of their students.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.TeacherID <= 0 || req.StudentID <= 0 {
		return nil, ErrInvalidSubject
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = models.HistoryTransfer.DefaultReason()
	}
	referenceID := s.newRef()

	var result *TransferResult
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		// Teacher row before student row, matching the order every other
		// multi-account path uses.
		teacher, err := s.lockTeacher(ctx, tx, req.TeacherID)
		if err != nil {
			return err
		}
		student, err := s.lockStudent(ctx, tx, req.StudentID)
		if err != nil {
			return err
		}
		if !teacher.Teaches(student) {
			return ErrNotAssignedTeacher
		}
		if teacher.Talents < req.Amount {
			return ErrInsufficientBalance.With("balance", teacher.Talents).With("requestAmount", req.Amount)
		}

		teacherBefore, studentBefore := teacher.Talents, student.Talents
		teacherReason := fmt.Sprintf("%s 학생에게 전달: %s", student.Name, reason)
		if _, err := s.applyTeacherTx(ctx, tx, teacher, -req.Amount, teacherReason, models.HistoryTransfer, referenceID); err != nil {
			return err
		}
		studentReason := fmt.Sprintf("%s 선생님으로부터: %s", teacher.Name, reason)
		if _, err := s.applyStudentTx(ctx, tx, student, req.Amount, studentReason, models.HistoryTransfer, referenceID); err != nil {
			return err
		}

		result = &TransferResult{
			Teacher:     BalanceChange{Before: teacherBefore, After: teacher.Talents},
			Student:     BalanceChange{Before: studentBefore, After: student.Talents},
			ReferenceID: referenceID,
			TeacherName: teacher.Name,
			StudentInfo: student,
		}
		return nil
	})
	if err != nil {
		s.audit.LogTransfer(referenceID, req.TeacherID, req.StudentID, req.Amount, "FAILED")
		s.audit.LogError("TRANSFER", string(models.AccountTeacher), req.TeacherID, err)
		return nil, err
	}

	s.audit.LogTransfer(referenceID, req.TeacherID, req.StudentID, req.Amount, "SUCCESS")
	return result, nil
}

// GrantWithWeeklyCap credits a student on behalf of their teacher without
// touching the teacher's balance. Positive grants count against the teacher's
// weekly limit; deductions are never capped.
func (s *LedgerService) GrantWithWeeklyCap(ctx context.Context, req GrantRequest) (*AdjustResult, error) {
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if req.TeacherID <= 0 || req.StudentID <= 0 {
		return nil, ErrInvalidSubject
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = models.HistoryManual.DefaultReason()
	}

	var result *AdjustResult
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		// Serializes grants per teacher until commit so the window sum below
		// cannot be read by two grants at once.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, grantLockNamespace, req.TeacherID); err != nil {
			return internalErr("주간 지급 잠금 실패", err)
		}

		teacher, err := s.findTeacher(ctx, tx, req.TeacherID)
		if err != nil {
			return err
		}
		student, err := s.lockStudent(ctx, tx, req.StudentID)
		if err != nil {
			return err
		}
		if !teacher.Teaches(student) {
			return ErrNotAssignedTeacher
		}

		if req.Amount > 0 {
			total, err := s.weeklyTotal(ctx, tx, teacher.Name, s.CurrentWeekStart())
			if err != nil {
				return err
			}
			if total+req.Amount > s.cfg.WeeklyLimit {
				return &WeeklyLimitError{WeeklyTotal: total, RequestAmount: req.Amount, Limit: s.cfg.WeeklyLimit}
			}
		}

		before := student.Talents
		entry, err := s.applyStudentTx(ctx, tx, student, req.Amount, reason, models.HistoryManual, "")
		if err != nil {
			return err
		}
		result = &AdjustResult{Student: student, BeforeBalance: before, AfterBalance: student.Talents, Entry: entry}
		return nil
	})
	if err != nil {
		s.audit.LogError("GRANT", string(models.AccountTeacher), req.TeacherID, err)
		return nil, err
	}

	s.audit.LogAdjust(string(models.AccountStudent), req.StudentID, req.Amount,
		result.BeforeBalance, result.AfterBalance, string(models.HistoryManual), reason)
	s.log.Debug("weekly grant applied", "teacher_id", req.TeacherID, "student_id", req.StudentID, "amount", req.Amount)
	return result, nil
}

// WeeklyGrants reports the teacher's grant window for the current week.
func (s *LedgerService) WeeklyGrants(ctx context.Context, teacherID int64) (*WeeklySummary, error) {
	teacher, err := s.findTeacher(ctx, s.db, teacherID)
	if err != nil {
		return nil, err
	}
	weekStart := s.CurrentWeekStart()

	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.student_id, s.name, h.amount, h.reason, h.created_at
		FROM talent_history h
		JOIN students s ON s.id = h.student_id
		WHERE s.teacher_name = $1 AND h.type = 'manual' AND h.amount > 0 AND h.created_at >= $2
		ORDER BY h.created_at DESC, h.id DESC`,
		teacher.Name, weekStart)
	if err != nil {
		return nil, internalErr("주간 지급 내역 조회 실패", err)
	}
	defer rows.Close()

	summary := &WeeklySummary{Limit: s.cfg.WeeklyLimit, WeekStart: weekStart, Grants: []WeeklyGrant{}}
	for rows.Next() {
		var g WeeklyGrant
		if err := rows.Scan(&g.HistoryID, &g.StudentID, &g.StudentName, &g.Amount, &g.Reason, &g.CreatedAt); err != nil {
			return nil, internalErr("주간 지급 내역 조회 실패", err)
		}
		summary.WeeklyTotal += g.Amount
		summary.Grants = append(summary.Grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErr("주간 지급 내역 조회 실패", err)
	}

	if r := summary.Limit - summary.WeeklyTotal; r > 0 {
		summary.Remaining = r
	}
	return summary, nil
}

// StudentHistory returns a student's summary and entries newest first. Admins
// see any student, teachers only their own students, students only themselves.
// Callers outside that scope get Forbidden whether or not the student exists.
func (s *LedgerService) StudentHistory(ctx context.Context, caller models.Caller, studentID int64, limit int) (*StudentLedger, error) {
	var student *models.Student
	var err error

	switch caller.Role {
	case models.RoleAdmin:
		student, err = s.findStudent(ctx, s.db, studentID)
		if err != nil {
			return nil, err
		}
	case models.RoleStudent:
		if caller.ID != studentID {
			return nil, ErrAccessDenied
		}
		student, err = s.findStudent(ctx, s.db, studentID)
		if err != nil {
			return nil, err
		}
	case models.RoleTeacher:
		teacher, err := s.findTeacher(ctx, s.db, caller.ID)
		if err != nil {
			return nil, err
		}
		student, err = s.findStudent(ctx, s.db, studentID)
		if errors.Is(err, ErrStudentNotFound) {
			return nil, ErrNotAssignedTeacher
		}
		if err != nil {
			return nil, err
		}
		if !teacher.Teaches(student) {
			return nil, ErrNotAssignedTeacher
		}
	default:
		return nil, ErrAccessDenied
	}

	history, err := s.listHistory(ctx, studentLedger, studentID, limit)
	if err != nil {
		return nil, err
	}
	return &StudentLedger{Student: student, History: history}, nil
}

func (s *LedgerService) TeacherHistory(ctx context.Context, teacherID int64, limit int) (*TeacherLedger, error) {
	teacher, err := s.findTeacher(ctx, s.db, teacherID)
	if err != nil {
		return nil, err
	}
	history, err := s.listHistory(ctx, teacherLedger, teacherID, limit)
	if err != nil {
		return nil, err
	}
	return &TeacherLedger{Teacher: teacher, History: history}, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	studentColumns = `id, name, COALESCE(phone, ''), teacher_name, talents, created_at`
	teacherColumns = `id, name, COALESCE(phone, ''), talents, created_at`
)

func scanStudent(row *sql.Row) (*models.Student, error) {
	var st models.Student
	err := row.Scan(&st.ID, &st.Name, &st.Phone, &st.TeacherName, &st.Talents, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, internalErr("학생 조회 실패", err)
	}
	return &st, nil
}

func scanTeacher(row *sql.Row) (*models.Teacher, error) {
	var t models.Teacher
	err := row.Scan(&t.ID, &t.Name, &t.Phone, &t.Talents, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, internalErr("선생님 조회 실패", err)
	}
	return &t, nil
}

func (s *LedgerService) lockStudent(ctx context.Context, tx *sql.Tx, studentID int64) (*models.Student, error) {
	return scanStudent(tx.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1 FOR UPDATE`, studentID))
}

func (s *LedgerService) lockTeacher(ctx context.Context, tx *sql.Tx, teacherID int64) (*models.Teacher, error) {
	return scanTeacher(tx.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = $1 FOR UPDATE`, teacherID))
}

func (s *LedgerService) findStudent(ctx context.Context, q queryer, studentID int64) (*models.Student, error) {
	return scanStudent(q.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, studentID))
}

func (s *LedgerService) findTeacher(ctx context.Context, q queryer, teacherID int64) (*models.Teacher, error) {
	return scanTeacher(q.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, teacherID))
}

// LockStudent exposes the row lock to services that compose their own
// transaction around AdjustTx.
func (s *LedgerService) LockStudent(ctx context.Context, tx *sql.Tx, studentID int64) (*models.Student, error) {
	return s.lockStudent(ctx, tx, studentID)
}

// ApplyStudentTx moves an already locked student's balance by amount.
func (s *LedgerService) ApplyStudentTx(ctx context.Context, tx *sql.Tx, student *models.Student, amount int64, reason string, typ models.HistoryType, referenceID string) (*models.TalentHistory, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	if strings.TrimSpace(reason) == "" {
		reason = typ.DefaultReason()
	}
	return s.applyStudentTx(ctx, tx, student, amount, reason, typ, referenceID)
}

func (s *LedgerService) applyStudentTx(ctx context.Context, tx *sql.Tx, student *models.Student, amount int64, reason string, typ models.HistoryType, referenceID string) (*models.TalentHistory, error) {
	entry, err := s.apply(ctx, tx, studentLedger, student.ID, student.Talents, amount, reason, typ, referenceID)
	if err != nil {
		return nil, err
	}
	student.Talents = entry.AfterBalance
	return entry, nil
}

func (s *LedgerService) applyTeacherTx(ctx context.Context, tx *sql.Tx, teacher *models.Teacher, amount int64, reason string, typ models.HistoryType, referenceID string) (*models.TalentHistory, error) {
	entry, err := s.apply(ctx, tx, teacherLedger, teacher.ID, teacher.Talents, amount, reason, typ, referenceID)
	if err != nil {
		return nil, err
	}
	teacher.Talents = entry.AfterBalance
	return entry, nil
}

// apply writes the history entry and the new balance for a locked account.
func (s *LedgerService) apply(ctx context.Context, tx *sql.Tx, t ledgerTables, ownerID, before, amount int64, reason string, typ models.HistoryType, referenceID string) (*models.TalentHistory, error) {
	entry := &models.TalentHistory{
		OwnerID:       ownerID,
		Amount:        amount,
		BeforeBalance: before,
		AfterBalance:  before + amount,
		Reason:        reason,
		Type:          typ,
		ReferenceID:   referenceID,
		CreatedAt:     s.now(),
	}
	if err := s.createHistoryEntry(ctx, tx, t, entry); err != nil {
		return nil, err
	}
	if err := s.updateTalents(ctx, tx, t, ownerID, before, entry.AfterBalance); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LedgerService) createHistoryEntry(ctx context.Context, tx *sql.Tx, t ledgerTables, entry *models.TalentHistory) error {
	err := tx.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s, amount, before_balance, after_balance, reason, type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING id`, t.history, t.owner),
		entry.OwnerID, entry.Amount, entry.BeforeBalance, entry.AfterBalance,
		entry.Reason, string(entry.Type), entry.ReferenceID, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return internalErr("달란트 내역 기록 실패", err)
	}
	return nil
}

// updateTalents guards on the balance read under lock; a mismatch means the
// row changed outside the ledger and the transaction is abandoned.
func (s *LedgerService) updateTalents(ctx context.Context, tx *sql.Tx, t ledgerTables, ownerID, before, after int64) error {
	result, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s
		SET talents = $1
		WHERE id = $2 AND talents = $3`, t.accounts),
		after, ownerID, before)
	if err != nil {
		return internalErr("달란트 잔액 갱신 실패", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return internalErr("달란트 잔액 갱신 실패", err)
	}
	if rowsAffected == 0 {
		return internalErr("달란트 잔액 갱신 실패", fmt.Errorf("balance changed concurrently for %s %d", t.accounts, ownerID))
	}
	return nil
}

func (s *LedgerService) weeklyTotal(ctx context.Context, tx *sql.Tx, teacherName string, since time.Time) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(h.amount), 0)
		FROM talent_history h
		JOIN students s ON s.id = h.student_id
		WHERE s.teacher_name = $1 AND h.type = 'manual' AND h.amount > 0 AND h.created_at >= $2`,
		teacherName, since).Scan(&total)
	if err != nil {
		return 0, internalErr("주간 지급 합계 조회 실패", err)
	}
	return total, nil
}

func (s *LedgerService) listHistory(ctx context.Context, t ledgerTables, ownerID int64, limit int) ([]*models.TalentHistory, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, %s, amount, before_balance, after_balance, reason, type, COALESCE(reference_id, ''), created_at
		FROM %s
		WHERE %s = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, t.owner, t.history, t.owner),
		ownerID, limit)
	if err != nil {
		return nil, internalErr("달란트 내역 조회 실패", err)
	}
	defer rows.Close()

	history := []*models.TalentHistory{}
	for rows.Next() {
		var h models.TalentHistory
		var typ string
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Amount, &h.BeforeBalance, &h.AfterBalance,
			&h.Reason, &typ, &h.ReferenceID, &h.CreatedAt); err != nil {
			return nil, internalErr("달란트 내역 조회 실패", err)
		}
		h.Type = models.HistoryType(typ)
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErr("달란트 내역 조회 실패", err)
	}
	return history, nil
}
