package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

func metaHeaders(reqID, at, tenant string) http.Header {
	h := http.Header{}
	if reqID != "" {
		h.Set(HeaderRequestID, reqID)
	}
	if at != "" {
		h.Set(HeaderRequestAt, at)
	}
	if tenant != "" {
		h.Set(HeaderTenantID, tenant)
	}
	return h
}

func TestReadMeta(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	okID := strings.Repeat("a", 32)
	okAt := now.Format(time.RFC3339)

	m, err := readMeta(metaHeaders(" "+okID+" ", okAt, "tenant-a"), now)
	if err != nil {
		t.Fatalf("readMeta: %v", err)
	}
	if m.RequestID != okID || m.TenantID != "tenant-a" || !m.At.Equal(now) {
		t.Fatalf("unexpected meta: %+v", m)
	}

	cases := []struct {
		name    string
		h       http.Header
		wantMsg string
	}{
		{"missing request id", metaHeaders("", okAt, "tenant-a"), "missing " + HeaderRequestID},
		{"bad request id", metaHeaders("NOT-VALID", okAt, "tenant-a"), "invalid " + HeaderRequestID},
		{"missing request at", metaHeaders(okID, "", "tenant-a"), "missing " + HeaderRequestAt},
		{"bad request at", metaHeaders(okID, "yesterday", "tenant-a"), "must be epoch"},
		{"skewed past", metaHeaders(okID, now.Add(-maxClockSkew-time.Minute).Format(time.RFC3339), "tenant-a"), "too skewed"},
		{"skewed future", metaHeaders(okID, now.Add(maxClockSkew+time.Minute).Format(time.RFC3339), "tenant-a"), "too skewed"},
		{"missing tenant", metaHeaders(okID, okAt, ""), "missing " + HeaderTenantID},
		{"bad tenant", metaHeaders(okID, okAt, "bad tenant!"), "invalid " + HeaderTenantID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readMeta(tc.h, now)
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("want error containing %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestParseRequestAt(t *testing.T) {
	sec := int64(1736123456)
	got, err := parseRequestAt(strconv.FormatInt(sec, 10))
	if err != nil || got.Unix() != sec || got.Location() != time.UTC {
		t.Fatalf("epoch seconds: got %v err %v", got, err)
	}

	ms := sec*1000 + 789
	got, err = parseRequestAt(strconv.FormatInt(ms, 10))
	if err != nil || got.UnixMilli() != ms {
		t.Fatalf("epoch millis: got %v err %v", got, err)
	}

	got, err = parseRequestAt("2025-09-05T10:00:00+07:00")
	if err != nil || !got.Equal(time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)) || got.Location() != time.UTC {
		t.Fatalf("rfc3339 with zone: got %v err %v", got, err)
	}

	for _, raw := range []string{"", "   ", "2025-09-05T10:00:00", "2025/09/05"} {
		if _, err := parseRequestAt(raw); err == nil {
			t.Fatalf("parseRequestAt(%q) should fail", raw)
		}
	}
}

func TestValidIDs(t *testing.T) {
	reqIDs := map[string]bool{
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88": true,
		strings.Repeat("a", 32):                true,
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA":     false,
		"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88": false,
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88": false,
		"":                                     false,
	}
	for in, want := range reqIDs {
		if got := validReqID(in); got != want {
			t.Fatalf("validReqID(%q) = %v, want %v", in, got, want)
		}
	}

	tenants := map[string]bool{
		"tenant-a":              true,
		"T_01":                  true,
		strings.Repeat("x", 32): true,
		strings.Repeat("x", 33): false,
		"":                      false,
		"bad tenant!":           false,
	}
	for in, want := range tenants {
		if got := ValidTenantID(in); got != want {
			t.Fatalf("ValidTenantID(%q) = %v, want %v", in, got, want)
		}
	}
}
