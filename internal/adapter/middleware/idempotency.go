package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const storeTimeout = 2 * time.Second

var nowUTC = func() time.Time { return time.Now().UTC() }

// capture tees the handler's response so it can be stored for replay.
type capture struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (c *capture) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *capture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func reject(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// IdempotencyMiddleware deduplicates mutating requests per method, concrete
// path, tenant and X-Request-Id. Finished responses below 500 are replayed
// for ttl. Server errors release the key so the same request id can retry.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	store := &replayStore{rdb: rdb, keepFor: ttl}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			now := nowUTC()
			meta, err := readMeta(req.Header, now)
			if err != nil {
				return reject(c, http.StatusBadRequest, err.Error())
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return reject(c, http.StatusBadRequest, "unreadable request body")
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := buildKey(req.Method, req.URL.Path, meta.TenantID, meta.RequestID)
			entry := replayEntry{
				BodyHash:    bodyHash(body),
				RequestID:   meta.RequestID,
				RequestAtMS: meta.At.UnixMilli(),
				StoredAt:    now,
			}
			l := log.With().Str("key", key).Logger()

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.claim(ctx, key, entry)
			if err != nil {
				l.Error().Err(err).Msg("idempotency: claim failed")
				return reject(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !claimed {
				return replayOrConflict(ctx, c, store, key, entry.BodyHash, l)
			}

			rec := &capture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			bg, cancelBg := context.WithTimeout(context.Background(), storeTimeout)
			defer cancelBg()
			if rec.status >= http.StatusInternalServerError {
				if err := store.release(bg, key); err != nil {
					l.Warn().Err(err).Msg("idempotency: release failed")
				}
				return nil
			}
			entry.Status = rec.status
			entry.ContentType = rec.Header().Get(echo.HeaderContentType)
			entry.Body = rec.buf.Bytes()
			entry.StoredAt = nowUTC()
			if err := store.finish(bg, key, entry); err != nil {
				l.Warn().Err(err).Msg("idempotency: finish failed")
			}
			return nil
		}
	}
}

func replayOrConflict(ctx context.Context, c echo.Context, store *replayStore, key, hash string, l zerolog.Logger) error {
	cur, err := store.lookup(ctx, key)
	if err != nil {
		l.Warn().Err(err).Msg("idempotency: lookup failed")
	}
	if cur.BodyHash != "" && cur.BodyHash != hash {
		return reject(c, http.StatusConflict, HeaderRequestID+" reused with different body")
	}
	if !cur.replayable() {
		return reject(c, http.StatusConflict, "request is already in progress")
	}
	ct := cur.ContentType
	if ct == "" {
		ct = echo.MIMEApplicationJSON
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	if len(cur.Body) == 0 {
		return c.NoContent(cur.Status)
	}
	return c.Blob(cur.Status, ct, cur.Body)
}
