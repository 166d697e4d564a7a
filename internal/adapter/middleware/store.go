package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "idemp:lend:"

	// a claimed key must be finished or released within this window
	claimTTL = 60 * time.Second
)

type entryState string

const (
	statePending entryState = "pending"
	stateDone    entryState = "done"
)

// replayEntry is the JSON stored under an idempotency key.
type replayEntry struct {
	State       entryState `json:"state"`
	Status      int        `json:"status,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
	Body        []byte     `json:"body,omitempty"`
	BodyHash    string     `json:"body_hash"`
	RequestID   string     `json:"request_id"`
	RequestAtMS int64      `json:"request_at_ms"`
	StoredAt    time.Time  `json:"stored_at"`
}

// replayable reports whether the entry holds a finished response. The body
// may be empty.
func (e replayEntry) replayable() bool { return e.State == stateDone }

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func buildKey(method, path, tenantID, requestID string) string {
	return keyPrefix + strings.ToLower(method) + ":" + path + ":" + tenantID + ":" + requestID
}

// replayStore keeps idempotency entries in redis. Pending claims expire after
// claimTTL; finished responses are kept for keepFor.
type replayStore struct {
	rdb     *redis.Client
	keepFor time.Duration
}

// claim marks key as pending. false means someone holds it already.
func (s *replayStore) claim(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.State = statePending
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, claimTTL).Result()
}

func (s *replayStore) lookup(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

func (s *replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	e.State = stateDone
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.keepFor).Err()
}

// release drops a claim so the client may retry with the same id.
func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
