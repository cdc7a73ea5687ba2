package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the failure category a ledger operation reports to callers.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInvalidInput        ErrorKind = "INVALID_INPUT"
	KindUnauthorized        ErrorKind = "UNAUTHORIZED"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindWeeklyLimitExceeded ErrorKind = "WEEKLY_LIMIT_EXCEEDED"
	KindConflict            ErrorKind = "CONFLICT"
	KindInternal            ErrorKind = "INTERNAL"
)

// LedgerError is a domain failure. Two LedgerErrors match under errors.Is when
// they share Kind and Code, so sentinels work with wrapped instances.
type LedgerError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LedgerError) Unwrap() error { return e.Err }

func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

// With returns a copy carrying an extra detail entry.
func (e *LedgerError) With(key string, value any) *LedgerError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

var (
	ErrNotFound            = &LedgerError{Kind: KindNotFound}
	ErrInvalidInput        = &LedgerError{Kind: KindInvalidInput}
	ErrUnauthorized        = &LedgerError{Kind: KindUnauthorized}
	ErrForbidden           = &LedgerError{Kind: KindForbidden}
	ErrInsufficientBalance = &LedgerError{Kind: KindInsufficientBalance, Code: "insufficient_balance", Message: "달란트가 부족합니다"}
	ErrConflict            = &LedgerError{Kind: KindConflict}

	ErrStudentNotFound    = &LedgerError{Kind: KindNotFound, Code: "student_not_found", Message: "학생을 찾을 수 없습니다"}
	ErrTeacherNotFound    = &LedgerError{Kind: KindNotFound, Code: "teacher_not_found", Message: "선생님을 찾을 수 없습니다"}
	ErrRewardNotFound     = &LedgerError{Kind: KindNotFound, Code: "reward_not_found", Message: "상품을 찾을 수 없습니다"}
	ErrInvalidAmount      = &LedgerError{Kind: KindInvalidInput, Code: "invalid_amount", Message: "유효한 달란트 수량을 입력해주세요"}
	ErrInvalidType        = &LedgerError{Kind: KindInvalidInput, Code: "invalid_type", Message: "알 수 없는 달란트 유형입니다"}
	ErrInvalidSubject     = &LedgerError{Kind: KindInvalidInput, Code: "invalid_subject", Message: "대상 계정이 올바르지 않습니다"}
	ErrBulkTooLarge       = &LedgerError{Kind: KindInvalidInput, Code: "bulk_too_large", Message: "한 번에 처리할 수 있는 학생 수를 초과했습니다"}
	ErrNotAssignedTeacher = &LedgerError{Kind: KindForbidden, Code: "not_assigned_teacher", Message: "담당 학생이 아닙니다"}
	ErrAccessDenied       = &LedgerError{Kind: KindForbidden, Code: "access_denied", Message: "접근 권한이 없습니다"}
	ErrOutOfStock         = &LedgerError{Kind: KindConflict, Code: "out_of_stock", Message: "품절된 상품입니다"}
	ErrRewardInactive     = &LedgerError{Kind: KindConflict, Code: "reward_inactive", Message: "판매 중인 상품이 아닙니다"}
)

// WeeklyLimitError reports a grant that would push a teacher past the weekly cap.
type WeeklyLimitError struct {
	WeeklyTotal   int64
	RequestAmount int64
	Limit         int64
}

func (e *WeeklyLimitError) Error() string {
	return fmt.Sprintf("%s: 주간 지급 한도를 초과했습니다 (이번 주 %d, 요청 %d, 한도 %d)",
		KindWeeklyLimitExceeded, e.WeeklyTotal, e.RequestAmount, e.Limit)
}

func (e *WeeklyLimitError) Remaining() int64 {
	if r := e.Limit - e.WeeklyTotal; r > 0 {
		return r
	}
	return 0
}

// ErrWeeklyLimitExceeded matches any *WeeklyLimitError under errors.Is.
var ErrWeeklyLimitExceeded = errors.New("weekly limit exceeded")

func (e *WeeklyLimitError) Is(target error) bool { return target == ErrWeeklyLimitExceeded }

// KindOf classifies err. Anything not raised by the ledger is Internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var wl *WeeklyLimitError
	if errors.As(err, &wl) {
		return KindWeeklyLimitExceeded
	}
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindInternal
}

func internalErr(op string, err error) error {
	return &LedgerError{Kind: KindInternal, Code: "internal", Message: op, Err: err}
}
