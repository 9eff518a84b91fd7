package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"maitred/pkg/logger"
)

// ResponseCache stores successful GET responses in Redis for a short TTL.
// Availability lookups hammer the same (date, time) slots while guests pick a
// table; a stale-by-seconds answer is acceptable because the create path
// re-validates against the store's unique constraint anyway.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

func NewResponseCache(client *redis.Client, ttl time.Duration, prefix string, log *logger.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		log:    log,
	}
}

type cacheCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cc *cacheCapture) WriteHeader(statusCode int) {
	cc.statusCode = statusCode
	cc.ResponseWriter.WriteHeader(statusCode)
}

func (cc *cacheCapture) Write(b []byte) (int, error) {
	cc.body.Write(b)
	return cc.ResponseWriter.Write(b)
}

// Wrap caches one GET route. A nil Redis client or zero TTL turns the
// middleware into a pass-through.
func (c *ResponseCache) Wrap(next httprouter.Handle) httprouter.Handle {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if r.Method != http.MethodGet {
			next(w, r, ps)
			return
		}

		key := c.key(r)
		ctx := r.Context()

		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		} else if err != redis.Nil {
			c.log.Warn("Response cache read failed", "key", key, "error", err)
		}

		capture := &cacheCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next(capture, r, ps)

		if capture.statusCode == http.StatusOK && capture.body.Len() > 0 {
			if err := c.client.Set(ctx, key, capture.body.Bytes(), c.ttl).Err(); err != nil {
				c.log.Warn("Response cache write failed", "key", key, "error", err)
			}
		}
	}
}

func (c *ResponseCache) key(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", c.prefix, sum)
}
