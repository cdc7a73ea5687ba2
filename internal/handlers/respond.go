package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kidsministry/backend/internal/middleware"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

const maxBodyBytes = 1_048_576

// decodeJSON reads exactly one JSON object into dst and validates it. On
// failure the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *services.ValidationHelper, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, models.ErrAmountNotNumeric) {
			writeLedgerError(w, nil, services.ErrInvalidAmount)
			return false
		}
		services.SendErrorResponse(w, "잘못된 요청 형식입니다", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "요청 본문에는 하나의 JSON 객체만 허용됩니다", http.StatusBadRequest, nil)
		return false
	}

	if err := v.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "입력값을 확인해주세요", http.StatusBadRequest, err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		services.SendErrorResponse(w, fmt.Sprintf("잘못된 %s 입니다", name), http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

func callerOrReject(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		services.SendLedgerError(w, http.StatusUnauthorized, string(services.KindUnauthorized), "로그인이 필요합니다", nil)
		return models.Caller{}, false
	}
	return caller, true
}

// ledgerStatuses is matched in order with errors.Is; the kind-only sentinels
// match every error of their kind.
var ledgerStatuses = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrInsufficientBalance, http.StatusBadRequest},
	{services.ErrUnauthorized, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrConflict, http.StatusConflict},
}

func statusFor(err error) int {
	for _, s := range ledgerStatuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

var kindMessages = map[services.ErrorKind]string{
	services.KindNotFound:     "대상을 찾을 수 없습니다",
	services.KindInvalidInput: "입력값을 확인해주세요",
	services.KindUnauthorized: "로그인이 필요합니다",
	services.KindForbidden:    "접근 권한이 없습니다",
	services.KindConflict:     "이미 존재하는 데이터입니다",
}

// writeLedgerError maps a ledger failure onto the response. Weekly-limit
// rejections carry the window numbers at the top level for the client.
func writeLedgerError(w http.ResponseWriter, log *logger.Logger, err error) {
	var wl *services.WeeklyLimitError
	if errors.As(err, &wl) {
		services.SendJSON(w, http.StatusBadRequest, map[string]any{
			"success":       false,
			"code":          string(services.KindWeeklyLimitExceeded),
			"error":         fmt.Sprintf("이번 주 지급 한도(%d개)를 초과합니다. 남은 수량: %d개", wl.Limit, wl.Remaining()),
			"weeklyTotal":   wl.WeeklyTotal,
			"requestAmount": wl.RequestAmount,
			"limit":         wl.Limit,
			"remaining":     wl.Remaining(),
		})
		return
	}

	var le *services.LedgerError
	if errors.As(err, &le) {
		if status := statusFor(le); status != http.StatusInternalServerError {
			msg := le.Message
			if msg == "" {
				msg = kindMessages[le.Kind]
			}
			services.SendLedgerError(w, status, string(le.Kind), msg, le.Details)
			return
		}
	}

	if log != nil {
		log.Error("ledger operation failed", "error", err)
	}
	services.SendLedgerError(w, http.StatusInternalServerError, string(services.KindInternal), "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요", nil)
}
