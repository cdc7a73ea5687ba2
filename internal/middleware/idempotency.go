package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

const IdempotencyHeader = "Idempotency-Key"

// Idempotency rejects a replayed ledger request that carries the same
// Idempotency-Key as one already accepted for the same caller. A request that
// fails with 4xx/5xx, or panics, releases its key so the client can retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if rdb == nil || key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > 128 {
				services.SendErrorResponse(w, "Idempotency-Key가 너무 깁니다", http.StatusBadRequest, nil)
				return
			}

			subject := "anonymous"
			if caller, ok := CallerFrom(r.Context()); ok {
				subject = fmt.Sprintf("%s:%d", caller.Role, caller.ID)
			}
			redisKey := fmt.Sprintf("idem:%s:%s", subject, key)

			claimed, err := rdb.SetNX(r.Context(), redisKey, "1", ttl).Result()
			if err != nil {
				log.Warn("idempotency check unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !claimed {
				services.SendLedgerError(w, http.StatusConflict, string(services.KindConflict), "이미 처리된 요청입니다", nil)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				// A panic is answered with 500 further out, so it releases the key too.
				p := recover()
				if p != nil || rec.status >= http.StatusBadRequest {
					if err := rdb.Del(context.WithoutCancel(r.Context()), redisKey).Err(); err != nil {
						log.Warn("failed to release idempotency key", "key", redisKey, "error", err)
					}
				}
				if p != nil {
					panic(p)
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
