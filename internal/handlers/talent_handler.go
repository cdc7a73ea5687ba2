package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/notify"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

// TalentLedger is the part of the ledger engine the HTTP layer drives.
type TalentLedger interface {
	Adjust(ctx context.Context, req services.AdjustRequest) (*services.AdjustResult, error)
	BulkAdjust(ctx context.Context, req services.BulkAdjustRequest) (int, error)
	Transfer(ctx context.Context, req services.TransferRequest) (*services.TransferResult, error)
	GrantWithWeeklyCap(ctx context.Context, req services.GrantRequest) (*services.AdjustResult, error)
	WeeklyGrants(ctx context.Context, teacherID int64) (*services.WeeklySummary, error)
	StudentHistory(ctx context.Context, caller models.Caller, studentID int64, limit int) (*services.StudentLedger, error)
	TeacherHistory(ctx context.Context, teacherID int64, limit int) (*services.TeacherLedger, error)
}

type TalentHandler struct {
	ledger    TalentLedger
	notifier  notify.Notifier
	validator *services.ValidationHelper
	log       *logger.Logger
}

func NewTalentHandler(ledger TalentLedger, notifier notify.Notifier, log *logger.Logger) *TalentHandler {
	if log == nil {
		log = logger.NewNop()
	}
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &TalentHandler{
		ledger:    ledger,
		notifier:  notifier,
		validator: services.NewValidationHelper(),
		log:       log.With("handler", "TalentHandler"),
	}
}

type adjustStudentRequest struct {
	StudentID int64               `json:"studentId" validate:"required,gt=0"`
	Amount    models.TalentAmount `json:"amount"`
	Reason    string              `json:"reason" validate:"max=200"`
}

type adjustTeacherRequest struct {
	TeacherID int64               `json:"teacherId" validate:"required,gt=0"`
	Amount    models.TalentAmount `json:"amount"`
	Reason    string              `json:"reason" validate:"max=200"`
}

type bulkAdjustRequest struct {
	StudentIDs []int64             `json:"studentIds" validate:"required,min=1,dive,gt=0"`
	Amount     models.TalentAmount `json:"amount"`
	Reason     string              `json:"reason" validate:"max=200"`
}

type studentAmountRequest struct {
	StudentID int64               `json:"studentId" validate:"required,gt=0"`
	Amount    models.TalentAmount `json:"amount"`
	Reason    string              `json:"reason" validate:"max=200"`
}

func adjustMessage(amount int64) string {
	if amount > 0 {
		return fmt.Sprintf("달란트 %d개가 지급되었습니다", amount)
	}
	return fmt.Sprintf("달란트 %d개가 차감되었습니다", -amount)
}

// AdjustStudent applies a manual adjustment to one student
// @Summary Adjust student talents
// @Description Admin credit or debit of a student's balance. Negative results are allowed.
// @Tags talents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{studentId=int64,amount=int64,reason=string} true "Adjustment"
// @Success 200 {object} object{success=bool,student=models.Student,message=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/talents/adjust [post]
func (h *TalentHandler) AdjustStudent(w http.ResponseWriter, r *http.Request) {
	var req adjustStudentRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	res, err := h.ledger.Adjust(r.Context(), services.AdjustRequest{
		Subject: services.Subject{Kind: models.AccountStudent, ID: req.StudentID},
		Amount:  req.Amount.Int64(),
		Reason:  req.Reason,
		Type:    models.HistoryManual,
	})
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"student":       res.Student,
		"beforeBalance": res.BeforeBalance,
		"afterBalance":  res.AfterBalance,
		"message":       adjustMessage(req.Amount.Int64()),
	})
}

// AdjustTeacher applies a manual adjustment to a teacher's own balance
// @Summary Adjust teacher talents
// @Tags talents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{teacherId=int64,amount=int64,reason=string} true "Adjustment"
// @Success 200 {object} object{success=bool,teacher=models.Teacher,message=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/teachers/talents/adjust [post]
func (h *TalentHandler) AdjustTeacher(w http.ResponseWriter, r *http.Request) {
	var req adjustTeacherRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	res, err := h.ledger.Adjust(r.Context(), services.AdjustRequest{
		Subject: services.Subject{Kind: models.AccountTeacher, ID: req.TeacherID},
		Amount:  req.Amount.Int64(),
		Reason:  req.Reason,
		Type:    models.HistoryManual,
	})
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"teacher":       res.Teacher,
		"beforeBalance": res.BeforeBalance,
		"afterBalance":  res.AfterBalance,
		"message":       adjustMessage(req.Amount.Int64()),
	})
}

// BulkAdjust applies one adjustment to many students atomically
// @Summary Bulk adjust student talents
// @Tags talents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{studentIds=[]int64,amount=int64,reason=string} true "Bulk adjustment"
// @Success 200 {object} object{success=bool,count=int,message=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/talents/bulk [post]
func (h *TalentHandler) BulkAdjust(w http.ResponseWriter, r *http.Request) {
	var req bulkAdjustRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	count, err := h.ledger.BulkAdjust(r.Context(), services.BulkAdjustRequest{
		StudentIDs: req.StudentIDs,
		Amount:     req.Amount.Int64(),
		Reason:     req.Reason,
	})
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
		"message": fmt.Sprintf("%d명의 학생에게 %s", count, adjustMessage(req.Amount.Int64())),
	})
}

// Grant credits one of the calling teacher's students within the weekly limit
// @Summary Grant talents with weekly cap
// @Tags talents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{studentId=int64,amount=int64,reason=string} true "Grant"
// @Success 200 {object} object{success=bool,student=models.Student,beforeBalance=int64,afterBalance=int64}
// @Failure 400 {object} object{weeklyTotal=int64,requestAmount=int64,limit=int64,remaining=int64}
// @Failure 403 {object} services.ErrorResponse
// @Router /teacher/talents/grant [post]
func (h *TalentHandler) Grant(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	var req studentAmountRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	res, err := h.ledger.GrantWithWeeklyCap(r.Context(), services.GrantRequest{
		TeacherID: caller.ID,
		StudentID: req.StudentID,
		Amount:    req.Amount.Int64(),
		Reason:    req.Reason,
	})
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	notify.SendAsync(h.notifier, h.log, res.Student.Phone,
		fmt.Sprintf("[교회학교] %s 학생, %s (%s)", res.Student.Name, adjustMessage(req.Amount.Int64()), res.Entry.Reason))

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"student":       res.Student,
		"beforeBalance": res.BeforeBalance,
		"afterBalance":  res.AfterBalance,
	})
}

// Transfer moves talents from the calling teacher to one of their students
// @Summary Transfer talents to a student
// @Tags talents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{studentId=int64,amount=int64,reason=string} true "Transfer"
// @Success 200 {object} object{success=bool,result=services.TransferResult}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /teacher/talents/transfer [post]
func (h *TalentHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	var req studentAmountRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	res, err := h.ledger.Transfer(r.Context(), services.TransferRequest{
		TeacherID: caller.ID,
		StudentID: req.StudentID,
		Amount:    req.Amount.Int64(),
		Reason:    req.Reason,
	})
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	if res.StudentInfo != nil {
		notify.SendAsync(h.notifier, h.log, res.StudentInfo.Phone,
			fmt.Sprintf("[교회학교] %s 선생님이 달란트 %d개를 보냈습니다", res.TeacherName, req.Amount.Int64()))
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  res,
	})
}

// Weekly reports the calling teacher's grants for the current week
// @Summary Weekly grant window
// @Tags talents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.WeeklySummary
// @Router /teacher/talents/weekly [get]
func (h *TalentHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	summary, err := h.ledger.WeeklyGrants(r.Context(), caller.ID)
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"weeklyTotal": summary.WeeklyTotal,
		"limit":       summary.Limit,
		"remaining":   summary.Remaining,
		"weekStart":   summary.WeekStart,
		"grants":      summary.Grants,
	})
}

// StudentHistory lists a student's ledger newest first
// @Summary Student talent history
// @Tags talents
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param limit query int false "Max entries (default 100)"
// @Success 200 {object} services.StudentLedger
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /students/{studentId}/talents/history [get]
func (h *TalentHandler) StudentHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	studentID, ok := pathID(w, r, "studentId")
	if !ok {
		return
	}

	ledger, err := h.ledger.StudentHistory(r.Context(), caller, studentID, queryLimit(r))
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"student": ledger.Student,
		"history": ledger.History,
	})
}

// TeacherHistory lists the calling teacher's own ledger newest first
// @Summary Teacher talent history
// @Tags talents
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 100)"
// @Success 200 {object} services.TeacherLedger
// @Router /teacher/talents/history [get]
func (h *TalentHandler) TeacherHistory(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	ledger, err := h.ledger.TeacherHistory(r.Context(), caller.ID, queryLimit(r))
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"teacher": ledger.Teacher,
		"history": ledger.History,
	})
}
