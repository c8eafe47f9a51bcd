// Package auth issues and checks operator session tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/sealer"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

// Sessions seals "<user id>:<unix expiry>" into an opaque bearer token.
type Sessions struct {
	sealer *sealer.Sealer
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(s *sealer.Sealer, ttl time.Duration) *Sessions {
	return &Sessions{sealer: s, ttl: ttl, now: time.Now}
}

func (s *Sessions) Issue(userID string) (string, time.Time, error) {
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, fmt.Errorf("user id cannot be empty")
	}

	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	payload := userID + ":" + strconv.FormatInt(expiresAt.Unix(), 10)

	token, err := s.sealer.Seal([]byte(payload))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to seal session: %w", err)
	}
	return token, expiresAt, nil
}

// Verify returns the user a token was issued to.
func (s *Sessions) Verify(token string) (string, error) {
	payload, err := s.sealer.Open(token)
	if err != nil {
		return "", ErrInvalidSession
	}

	sep := strings.LastIndexByte(string(payload), ':')
	if sep <= 0 {
		return "", ErrInvalidSession
	}
	userID, rawExpiry := string(payload[:sep]), string(payload[sep+1:])

	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return "", ErrInvalidSession
	}
	if !s.now().Before(time.Unix(expiry, 0)) {
		return "", ErrSessionExpired
	}
	return userID, nil
}
