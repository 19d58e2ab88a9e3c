package middlewares

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSON answers 415 for writes whose Content-Type is not JSON.
// Parameters such as charset are allowed; GET and DELETE pass untouched.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !carriesBody(c.Request.Method) {
			c.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "application/json" {
			abortError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "Content-Type must be application/json")
			return
		}

		c.Next()
	}
}

func carriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
