package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "idem:"
)

// storedResponse is the cached outcome of an idempotent request.
type storedResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// captureWriter wraps gin.ResponseWriter to record the response body.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response for repeated mutating
// requests carrying the same Idempotency-Key header. Responses with 5xx
// status are not stored, so a retry after a server fault goes through.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + key

		if stored := load(ctx, redisClient, cacheKey); stored != nil {
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if c.Writer.Status() < http.StatusInternalServerError {
			store(ctx, redisClient, cacheKey, &storedResponse{
				StatusCode:  c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			})
		}
	}
}

// load fetches a stored response; any Redis problem degrades to a cache miss.
func load(ctx context.Context, client *redis.Client, key string) *storedResponse {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil
	}
	return &stored
}

func store(ctx context.Context, client *redis.Client, key string, response *storedResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	_ = client.Set(ctx, key, data, idempotencyTTL).Err()
}
