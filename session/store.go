// Package session keeps per-browser state outside the process: the pending
// OTP challenge and the authenticated email. Every value lives under a key
// scoped to one session id, so two sessions never see each other's data.
package session

import (
	"context"
	"errors"
	"time"
)

// Well-known fields.
const (
	FieldChallenge = "otp_challenge"
	FieldAuthEmail = "auth_email"
	// FieldAttempts counts wrong codes entered against the current challenge.
	FieldAttempts = "otp_attempts"
)

var ErrEmptySessionKey = errors.New("session: empty session key")

type Store interface {
	// Put writes field for the session; ttl <= 0 keeps it until deleted.
	Put(ctx context.Context, sessionKey, field, value string, ttl time.Duration) error
	// Get returns the value and whether it was present.
	Get(ctx context.Context, sessionKey, field string) (string, bool, error)
	// Take atomically reads and deletes field. Of several concurrent callers
	// at most one sees ok == true.
	Take(ctx context.Context, sessionKey, field string) (string, bool, error)
	// Incr adds one to a counter field and returns the new value. ttl applies
	// from the first increment.
	Incr(ctx context.Context, sessionKey, field string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, sessionKey string, fields ...string) error
}
