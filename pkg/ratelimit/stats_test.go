package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsStore_Record(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	_ = s.Record(ctx, StatsEvent{Key: "a", Allowed: true, Method: "POST", Path: "/api/v1/booking-notifications"})
	_ = s.Record(ctx, StatsEvent{Key: "a", Allowed: false, Method: "POST", Path: "/api/v1/booking-notifications"})
	_ = s.Record(ctx, StatsEvent{Key: "b", Allowed: true, Method: "POST", Path: "/api/v1/bookings"})

	assert.Equal(t, Counters{Allowed: 2, Denied: 1}, s.Total())
	assert.Equal(t, Counters{Allowed: 1, Denied: 1}, s.ByRoute()["POST /api/v1/booking-notifications"])
	assert.Equal(t, Counters{Allowed: 1, Denied: 1}, s.ByKey()["a"])
}

func TestMemoryStatsStore_KeysNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), StatsEvent{Key: "a", Allowed: true})

	assert.Empty(t, s.ByKey())
	assert.Equal(t, int64(1), s.Total().Allowed)
}

func TestMemoryStatsStore_LogSummary(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()
	_ = s.Record(ctx, StatsEvent{Allowed: true, Method: "POST", Path: "/api/v1/bookings"})
	_ = s.Record(ctx, StatsEvent{Allowed: true, Method: "POST", Path: "/api/v1/booking-notifications"})
	_ = s.Record(ctx, StatsEvent{Allowed: false, Method: "POST", Path: "/api/v1/booking-notifications"})

	var buf bytes.Buffer
	s.LogSummary(logger.New(logger.Config{Output: &buf}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var entries []map[string]any
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}

	assert.Equal(t, "Admission stats", entries[0]["msg"])
	assert.Equal(t, float64(2), entries[0]["allowed"])
	assert.Equal(t, float64(1), entries[0]["denied"])

	assert.Equal(t, "POST /api/v1/booking-notifications", entries[1]["route"])
	assert.Equal(t, float64(1), entries[1]["denied"])
	assert.Equal(t, "POST /api/v1/bookings", entries[2]["route"])
	assert.Equal(t, float64(0), entries[2]["denied"])
}

func TestRedisStatsStore_Keys(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix(":gate:"), WithStatsTTL(time.Hour))

	assert.Equal(t, "gate:total", s.TotalKey())
	at := time.Date(2026, 3, 1, 9, 5, 30, 0, time.UTC)
	assert.Equal(t, "gate:minute:202603010905", s.MinuteKey(at))
}

func TestRedisStatsStore_NilClientIsNoop(t *testing.T) {
	s := NewRedisStatsStore(nil)
	assert.NoError(t, s.Record(context.Background(), StatsEvent{Allowed: true}))

	var nilStore *RedisStatsStore
	assert.NoError(t, nilStore.Record(context.Background(), StatsEvent{}))
}
