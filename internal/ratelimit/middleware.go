package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

// ResetTimeLayout matches JavaScript's Date.prototype.toISOString.
const ResetTimeLayout = "2006-01-02T15:04:05.000Z"

const unmatchedRoute = "unmatched"

type Options struct {
	Limiter *FixedWindow
	Stats   StatsStore
	Metrics MetricsCollector
	KeyFn   KeyFunc
	Logger  *zap.Logger
}

// Middleware admits requests through the limiter. Denied requests get 429
// with a JSON body; admitted ones get X-RateLimit-* headers.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc
	}
	if opts.Metrics == nil {
		opts.Metrics = disabledMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			now := opts.Limiter.clock.Now()
			dec := opts.Limiter.Check(key, now)

			opts.Metrics.IncDecision(dec.Allowed)
			opts.Metrics.SetKeys(opts.Limiter.Len())

			if !dec.Allowed {
				recordStats(r, opts, StatsEvent{Key: key, Allowed: false, Method: r.Method, Route: routePattern(r), At: now})

				retryAfter := dec.RetryAfterSeconds()
				opts.Logger.Debug("rate limit exceeded",
					zap.String("key", key),
					zap.Int("retry_after", retryAfter),
				)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				respond.JSON(w, r, http.StatusTooManyRequests, map[string]string{
					"error":      "Too many requests",
					"retryAfter": fmt.Sprintf("%ds", retryAfter),
				})
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			w.Header().Set("X-RateLimit-Reset", dec.ResetAt.UTC().Format(ResetTimeLayout))

			next.ServeHTTP(w, r)

			// шаблон маршрута известен только после роутинга
			recordStats(r, opts, StatsEvent{Key: key, Allowed: true, Method: r.Method, Route: routePattern(r), At: now})
		})
	}
}

func recordStats(r *http.Request, opts Options, ev StatsEvent) {
	if opts.Stats == nil {
		return
	}
	if err := opts.Stats.Record(r.Context(), ev); err != nil {
		opts.Logger.Warn("failed to record rate limit stats", zap.String("key", ev.Key), zap.Error(err))
	}
}

// routePattern returns the chi route pattern of r, e.g. "/api/todos/{id}",
// so path parameters do not multiply the per-route counters.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
