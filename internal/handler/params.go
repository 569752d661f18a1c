package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func pageParams(c *gin.Context) (page, size int) {
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}

func boolQuery(c *gin.Context, key string) *bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true", "1", "paid":
		v := true
		return &v
	case "false", "0", "unpaid":
		v := false
		return &v
	default:
		return nil
	}
}
