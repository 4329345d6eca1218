package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mtsdigital/storefront/api/responses"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy caps requests per client IP inside a fixed window.
type RateLimitPolicy struct {
	Scope  string
	Window time.Duration
	Limit  int64
}

func NewRateLimitPolicy(scope string, window time.Duration, limit int) RateLimitPolicy {
	return RateLimitPolicy{Scope: scope, Window: window, Limit: int64(limit)}
}

func (p RateLimitPolicy) enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// RateLimit rejects clients over the policy with 429. A nil limiter, a
// disabled policy or a limiter error lets the request through.
func RateLimit(policy RateLimitPolicy, limiter windowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || !policy.enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := policy.Scope + ":ip:" + ClientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope, policy.Limit, policy.Window)
			if err != nil {
				if logg != nil {
					logg.Error(logg.WithField(r.Context(), "scope", policy.Scope), "rate_limit.check_failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Seconds())))
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultTrustedProxyHops assumes a single load balancer in front of the API.
const DefaultTrustedProxyHops = 1

const ctxClientIP contextKey = "client_ip"

// ClientAddress resolves the caller address once per request. trustedHops is
// the number of proxies that append to X-Forwarded-For; entries left of them
// are client supplied and ignored. Zero trusts no headers.
func ClientAddress(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, trustedHops)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxClientIP, ip)))
		})
	}
}

// ClientIP returns the address bound by ClientAddress, resolving it with
// DefaultTrustedProxyHops when the middleware did not run.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(ctxClientIP).(string); ok && ip != "" {
		return ip
	}
	return resolveClientIP(r, DefaultTrustedProxyHops)
}

func resolveClientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		var hops []string
		for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
		switch {
		case len(hops) >= trustedHops:
			return hops[len(hops)-trustedHops]
		case len(hops) > 0:
			return hops[0]
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
