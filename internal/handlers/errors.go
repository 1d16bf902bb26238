package handlers

import (
	"strconv"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

// bind decodes the JSON body, answering 400 itself when it cannot.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.Validation("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query parameter; absent means nil.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, apperr.Validation("invalid %s %q", name, raw))
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// queryBool reads an optional boolean query parameter; absent means false.
func queryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, apperr.Validation("invalid %s %q", name, raw))
		return false, false
	}
	return b, true
}
