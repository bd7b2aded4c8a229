package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy caps login attempts per source IP and per target
// account over a fixed window. Hashing the email keeps the raw address
// out of the counter store and the logs.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) counterKey(scope, value string) string {
	return "medsup:rl:" + p.name + ":" + scope + ":" + value
}

// AuthRateLimit enforces the policy on an auth endpoint. The request
// body is restored after the email is read so the handler downstream
// still sees it.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					if done := checkCounter(ctx, logg, w, store, policy, "ip", ip, policy.ipLimit); done {
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := loginEmail(body); email != "" {
					if done := checkCounter(ctx, logg, w, store, policy, "email", hashValue(email), policy.emailLimit); done {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkCounter bumps one counter and writes the response when the
// request cannot proceed. Reports whether the request was handled.
func checkCounter(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, policy AuthRateLimitPolicy, scope, value string, limit int) bool {
	count, err := store.IncrWithTTL(ctx, policy.counterKey(scope, value), policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"policy":         policy.name,
			"scope":          scope,
			scope:            value,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// loginEmail pulls the normalized email out of a login payload. A body
// that is not a login request yields the empty string.
func loginEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
