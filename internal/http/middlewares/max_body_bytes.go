package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies. A declared Content-Length over the cap
// is refused before the handler runs; chunked bodies are cut off while
// reading and surface as *http.MaxBytesError from the JSON binder.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			abortError(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				"Request body must not exceed "+strconv.FormatInt(limit, 10)+" bytes")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
