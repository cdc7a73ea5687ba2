package handlers

import (
	"context"
	"net/http"

	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

type ActivityMarker interface {
	SetWeeklyActivity(ctx context.Context, teacherID, studentID int64, done bool) (*services.ActivityResult, error)
}

type ActivityHandler struct {
	activities ActivityMarker
	validator  *services.ValidationHelper
	log        *logger.Logger
}

func NewActivityHandler(activities ActivityMarker, log *logger.Logger) *ActivityHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ActivityHandler{
		activities: activities,
		validator:  services.NewValidationHelper(),
		log:        log.With("handler", "ActivityHandler"),
	}
}

type activityRequest struct {
	Done *bool `json:"done" validate:"required"`
}

// SetActivity marks or unmarks this week's activity for a student
// @Summary Toggle weekly activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param request body object{done=bool} true "Activity state"
// @Success 200 {object} services.ActivityResult
// @Failure 403 {object} services.ErrorResponse
// @Router /teacher/students/{studentId}/activity [put]
func (h *ActivityHandler) SetActivity(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	studentID, ok := pathID(w, r, "studentId")
	if !ok {
		return
	}
	var req activityRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	res, err := h.activities.SetWeeklyActivity(r.Context(), caller.ID, studentID, *req.Done)
	if err != nil {
		writeLedgerError(w, h.log, err)
		return
	}

	services.SendJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"done":      res.Done,
		"changed":   res.Changed,
		"weekStart": res.WeekStart,
		"student":   res.Student,
	})
}
