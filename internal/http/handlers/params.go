package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive base-10 id from the named path parameter and
// answers 400 when it is not one.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Param(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondInvalid(ctx, "invalid_id", name+" must be a positive integer")
		return 0, false
	}

	return id, true
}
