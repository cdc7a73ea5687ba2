package models

import "time"

// HistoryType classifies why a balance moved.
type HistoryType string

const (
	HistoryManual     HistoryType = "manual"
	HistoryAttendance HistoryType = "attendance"
	HistoryActivity   HistoryType = "activity"
	HistoryPurchase   HistoryType = "purchase"
	HistoryTransfer   HistoryType = "transfer"
)

func (t HistoryType) Valid() bool {
	switch t {
	case HistoryManual, HistoryAttendance, HistoryActivity, HistoryPurchase, HistoryTransfer:
		return true
	}
	return false
}

// DefaultReason is used when a caller leaves the reason blank.
func (t HistoryType) DefaultReason() string {
	switch t {
	case HistoryAttendance:
		return "출석 보상"
	case HistoryActivity:
		return "주간 활동"
	case HistoryPurchase:
		return "마켓 구매"
	case HistoryTransfer:
		return "달란트 전달"
	default:
		return "관리자 수동 조정"
	}
}

// TalentHistory is an append-only ledger entry. AfterBalance always equals
// BeforeBalance + Amount, and an owner's entries chain by balance in creation order.
type TalentHistory struct {
	ID            int64       `json:"id" db:"id"`
	OwnerID       int64       `json:"ownerId" db:"owner_id"`
	Amount        int64       `json:"amount" db:"amount" example:"3"`
	BeforeBalance int64       `json:"beforeBalance" db:"before_balance" example:"10"`
	AfterBalance  int64       `json:"afterBalance" db:"after_balance" example:"13"`
	Reason        string      `json:"reason" db:"reason" example:"성경 암송"`
	Type          HistoryType `json:"type" db:"type" example:"manual"`
	ReferenceID   string      `json:"referenceId,omitempty" db:"reference_id"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
}
