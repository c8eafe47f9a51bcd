package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/ratelimit"
)

const (
	RateLimitRemainingHeader = "X-RateLimit-Remaining"

	statsRecordTimeout = 500 * time.Millisecond
)

type Admitter interface {
	Admit(key string) ratelimit.Decision
}

type ClientKeyFunc func(r *http.Request) string

type ClientRateLimitConfig struct {
	Limiter    Admitter
	KeyFunc    ClientKeyFunc
	Stats      ratelimit.StatsStore
	RetryAfter time.Duration
	// Message is the "error" text of the 429 body.
	Message string
}

// ClientRateLimit admits each request against the per-client quota before
// anything else looks at it. Admitted requests carry the remaining quota in
// X-RateLimit-Remaining and the client address in their context; rejected
// ones get a 429 with Retry-After.
func ClientRateLimit(cfg ClientRateLimitConfig, log *logger.Logger) func(http.Handler) http.Handler {
	message := cfg.Message
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	body, _ := json.Marshal(map[string]string{"error": message})
	retryAfter := strconv.Itoa(int(cfg.RetryAfter.Round(time.Second).Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := cfg.KeyFunc(r)
			decision := cfg.Limiter.Admit(client)
			recordDecision(r, cfg.Stats, log, client, decision.Allowed)

			if !decision.Allowed {
				log.Warn("Rate limit exceeded",
					"request_id", GetRequestID(r.Context()),
					"client", client,
					"path", r.URL.Path,
					"reset_at", decision.ResetAt,
				)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(RateLimitRemainingHeader, "0")
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(body)
				return
			}

			w.Header().Set(RateLimitRemainingHeader, strconv.Itoa(decision.Remaining))
			ctx := context.WithValue(r.Context(), ClientAddressKey, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func recordDecision(r *http.Request, stats ratelimit.StatsStore, log *logger.Logger, client string, allowed bool) {
	if stats == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), statsRecordTimeout)
	defer cancel()

	err := stats.Record(ctx, ratelimit.StatsEvent{
		Key:     client,
		Allowed: allowed,
		Method:  r.Method,
		Path:    r.URL.Path,
		At:      time.Now(),
	})
	if err != nil {
		log.Warn("Failed to record admission stats",
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
	}
}
