package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/pkg/logger"
	"github.com/kidsministry/backend/internal/services"
)

type contextKey string

const (
	callerKey contextKey = "caller"
	tokenKey  contextKey = "token"
)

// TokenCookie is the cookie the form pages carry the session token in.
const TokenCookie = "token"

var (
	ErrMissingToken = errors.New("missing token")
	ErrRevokedToken = errors.New("token revoked")
)

// Claims is the typed session payload. Kind and SubjectID are checked when the
// token is parsed, so handlers never see an unknown role.
type Claims struct {
	Kind      models.Role `json:"kind"`
	SubjectID int64       `json:"sid"`
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the registered claims pass.
func (c Claims) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown subject kind %q", c.Kind)
	}
	if c.Kind != models.RoleAdmin && c.SubjectID <= 0 {
		return fmt.Errorf("subject id required for %s", c.Kind)
	}
	return nil
}

func (c Claims) Caller() models.Caller {
	return models.Caller{Role: c.Kind, ID: c.SubjectID}
}

// IssueToken signs claims with HS256 and stamps iat/exp.
func IssueToken(secret string, kind models.Role, subjectID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind:      kind,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if err := claims.Validate(); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Authenticator resolves the caller of every request from a bearer token or
// the session cookie.
type Authenticator struct {
	secret []byte
	expiry time.Duration
	redis  *redis.Client
	log    *logger.Logger
}

// NewAuthenticator builds the middleware. A nil redis client disables the
// revocation check.
func NewAuthenticator(secret string, expiry time.Duration, rdb *redis.Client, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Authenticator{secret: []byte(secret), expiry: expiry, redis: rdb, log: log.With("component", "auth")}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := tokenFromRequest(r)
		if err != nil {
			services.SendLedgerError(w, http.StatusUnauthorized, string(services.KindUnauthorized), "로그인이 필요합니다", nil)
			return
		}

		claims, err := a.parse(r.Context(), raw)
		if err != nil {
			a.log.Debug("rejected token", "error", err, "path", r.URL.Path)
			services.SendLedgerError(w, http.StatusUnauthorized, string(services.KindUnauthorized), "유효하지 않은 인증 정보입니다", nil)
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, claims.Caller())
		ctx = context.WithValue(ctx, tokenKey, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", ErrMissingToken
		}
		return parts[1], nil
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrMissingToken
}

func (a *Authenticator) parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if a.redis != nil {
		n, err := a.redis.Exists(ctx, blacklistKey(raw)).Result()
		if err != nil {
			a.log.Warn("revocation check failed", "error", err)
		} else if n > 0 {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}

// Revoke blacklists the request's token until it would have expired anyway.
func (a *Authenticator) Revoke(ctx context.Context, raw string) error {
	if a.redis == nil || raw == "" {
		return nil
	}
	return a.redis.Set(ctx, blacklistKey(raw), "1", a.expiry).Err()
}

// Logout revokes the current token and clears the session cookie.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) {
	raw, _ := r.Context().Value(tokenKey).(string)
	if err := a.Revoke(r.Context(), raw); err != nil {
		a.log.Warn("failed to blacklist token", "error", err)
	}
	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	services.SendJSON(w, http.StatusOK, map[string]any{"success": true, "message": "로그아웃 되었습니다"})
}

func blacklistKey(raw string) string {
	return fmt.Sprintf("blacklist:%s", raw)
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFrom(r.Context())
			if !ok {
				services.SendLedgerError(w, http.StatusUnauthorized, string(services.KindUnauthorized), "로그인이 필요합니다", nil)
				return
			}
			for _, role := range roles {
				if caller.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			services.SendLedgerError(w, http.StatusForbidden, string(services.KindForbidden), "접근 권한이 없습니다", nil)
		})
	}
}

func CallerFrom(ctx context.Context) (models.Caller, bool) {
	c, ok := ctx.Value(callerKey).(models.Caller)
	return c, ok
}

// WithCaller attaches an identity to ctx. Used by tools and tests that bypass
// token parsing.
func WithCaller(ctx context.Context, c models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}
