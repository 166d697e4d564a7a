package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lending-backoffice/pkg/id"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderRequestAt = "X-Request-At"
	HeaderTenantID  = "X-Tenant-Id"
	HeaderReplayed  = "Idempotent-Replayed"

	// accepted drift between X-Request-At and the server clock
	maxClockSkew = 10 * time.Minute
)

var reTenant = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// request ids are either a canonical uuid or a loan-style 32-hex id
func validReqID(s string) bool { return id.IsUUID(s) || id.IsID32(s) }

// ValidTenantID reports whether s is a usable X-Tenant-Id value.
func ValidTenantID(s string) bool { return reTenant.MatchString(s) }

// requestMeta is what a mutating request must carry to be deduplicated.
type requestMeta struct {
	RequestID string
	TenantID  string
	At        time.Time
}

// readMeta checks the idempotency headers against now. The error text is
// safe to return to the client.
func readMeta(h http.Header, now time.Time) (requestMeta, error) {
	var m requestMeta

	m.RequestID = strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case m.RequestID == "":
		return m, errors.New("missing " + HeaderRequestID)
	case !validReqID(m.RequestID):
		return m, errors.New("invalid " + HeaderRequestID + " format")
	}

	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return m, err
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return m, errors.New(HeaderRequestAt + " too skewed")
	}
	m.At = at

	m.TenantID = strings.TrimSpace(h.Get(HeaderTenantID))
	switch {
	case m.TenantID == "":
		return m, errors.New("missing " + HeaderTenantID)
	case !ValidTenantID(m.TenantID):
		return m, errors.New("invalid " + HeaderTenantID)
	}
	return m, nil
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with
// an explicit zone. Naive local timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}
