package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsministry/backend/internal/services"
)

func TestDecodeJSON_RequestTags(t *testing.T) {
	v := services.NewValidationHelper()

	tests := []struct {
		name   string
		dst    func() any
		body   string
		ok     bool
		detail string
		code   string
	}{
		{
			name: "bulk with students",
			dst:  func() any { return &bulkAdjustRequest{} },
			body: `{"studentIds":[1,2],"amount":1}`,
			ok:   true,
		},
		{
			name:   "bulk without studentIds",
			dst:    func() any { return &bulkAdjustRequest{} },
			body:   `{"amount":1}`,
			detail: "StudentIDs",
		},
		{
			name:   "bulk with empty studentIds",
			dst:    func() any { return &bulkAdjustRequest{} },
			body:   `{"studentIds":[],"amount":1}`,
			detail: "StudentIDs",
		},
		{
			name:   "bulk with a zero id",
			dst:    func() any { return &bulkAdjustRequest{} },
			body:   `{"studentIds":[4,0],"amount":1}`,
			detail: "StudentIDs[1]",
		},
		{
			name: "reason at 200 characters",
			dst:  func() any { return &studentAmountRequest{} },
			body: fmt.Sprintf(`{"studentId":7,"amount":1,"reason":%q}`, strings.Repeat("가", 200)),
			ok:   true,
		},
		{
			name:   "reason over 200 characters",
			dst:    func() any { return &studentAmountRequest{} },
			body:   fmt.Sprintf(`{"studentId":7,"amount":1,"reason":%q}`, strings.Repeat("가", 201)),
			detail: "Reason",
		},
		{
			name:   "teacher adjust without teacherId",
			dst:    func() any { return &adjustTeacherRequest{} },
			body:   `{"amount":3}`,
			detail: "TeacherID",
		},
		{
			name: "activity done false is present",
			dst:  func() any { return &activityRequest{} },
			body: `{"done":false}`,
			ok:   true,
		},
		{
			name:   "activity without done",
			dst:    func() any { return &activityRequest{} },
			body:   `{}`,
			detail: "Done",
		},
		{
			name: "activity with two objects",
			dst:  func() any { return &activityRequest{} },
			body: `{"done":true}{"done":false}`,
		},
		{
			name: "amount that is not a number",
			dst:  func() any { return &adjustStudentRequest{} },
			body: `{"studentId":7,"amount":"three"}`,
			code: string(services.KindInvalidInput),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			ok := decodeJSON(rec, req, v, tt.dst())

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, 0, rec.Body.Len())
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec.Body.Bytes())
			assert.Equal(t, false, body["success"])
			if tt.detail != "" {
				require.Contains(t, body, "details")
				assert.Contains(t, body["details"], tt.detail)
			}
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestWriteLedgerError_Statuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrStudentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{services.ErrRewardNotFound.With("rewardId", int64(3)), http.StatusNotFound, "NOT_FOUND"},
		{services.ErrBulkTooLarge, http.StatusBadRequest, "INVALID_INPUT"},
		{fmt.Errorf("purchase: %w", services.ErrInsufficientBalance), http.StatusBadRequest, "INSUFFICIENT_BALANCE"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{services.ErrAccessDenied, http.StatusForbidden, "FORBIDDEN"},
		{services.ErrOutOfStock, http.StatusConflict, "CONFLICT"},
		{errors.New("pq: deadlock detected"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.code+" "+tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeLedgerError(rec, nil, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec.Body.Bytes())
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}
