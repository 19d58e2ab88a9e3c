package handlers

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag writes payload with a strong ETag over its JSON bytes.
// Subscriber counts move whenever anyone enrolls, so the response is marked
// no-cache: clients keep it but must revalidate with If-None-Match, which
// answers 304 while the rendered view is unchanged.
func RespondJSONWithETag(ctx *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.JSON(status, payload)
		return
	}

	tag := viewETag(body)
	ctx.Header("ETag", tag)
	ctx.Header("Cache-Control", "no-cache")

	if isSafeMethod(ctx.Request.Method) && matchesAny(ctx.GetHeader("If-None-Match"), tag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, "application/json; charset=utf-8", body)
}

// 16 bytes of sha256 is plenty to tell two renderings of a view apart.
func viewETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + base64.RawURLEncoding.EncodeToString(sum[:16]) + `"`
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// matchesAny applies the weak comparison If-None-Match calls for: W/ prefixes
// are ignored and "*" matches any current representation.
func matchesAny(header, tag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
