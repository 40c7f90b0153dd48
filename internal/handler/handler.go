package handler

import (
	"errors"
	"net/http"
	"strconv"

	"River_Social/internal/middleware"
	"River_Social/internal/service"

	"github.com/gin-gonic/gin"
)

// respondErr service 错误到状态码的统一映射
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrPermission):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func currentUserID(c *gin.Context) uint64 {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > 120 {
		limit = 30
	}
	return offset, limit
}

// serveOptions 折叠参数：maxComments/maxLikes 支持 'all'
func serveOptions(c *gin.Context) service.ServeOptions {
	opts := service.DefaultServeOptions()
	if v := c.Query("maxComments"); v != "" {
		if v == "all" {
			opts.AllComments = true
		} else if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxComments = n
		}
	}
	if v := c.Query("maxLikes"); v != "" {
		if v == "all" {
			opts.AllLikes = true
		} else if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxLikes = n
		}
	}
	return opts
}
