package handler

import (
	"net/http"

	"River_Social/internal/model"
	"River_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type TimelineHandler struct {
	svc *service.TimelineService
}

func NewTimelineHandler(svc *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

func (h *TimelineHandler) RiverOfNews(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.RiverOfNews(c.Request.Context(), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func (h *TimelineHandler) MyDiscussions(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.MyDiscussions(c.Request.Context(), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func (h *TimelineHandler) Directs(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.Directs(c.Request.Context(), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func (h *TimelineHandler) SavedPosts(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.SavedPosts(c.Request.Context(), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

// UserPosts 匿名可访问，受保护/私密内容由可见性引擎过滤
func (h *TimelineHandler) UserPosts(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.UserPosts(c.Request.Context(), c.Param("username"), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func (h *TimelineHandler) UserLikes(c *gin.Context) {
	h.userActivity(c, model.FeedLikes)
}

func (h *TimelineHandler) UserComments(c *gin.Context) {
	h.userActivity(c, model.FeedComments)
}

func (h *TimelineHandler) userActivity(c *gin.Context, feedName string) {
	offset, limit := pageParams(c)
	views, err := h.svc.UserActivity(c.Request.Context(), c.Param("username"), feedName, currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

func (h *TimelineHandler) HashtagPosts(c *gin.Context) {
	offset, limit := pageParams(c)
	views, err := h.svc.HashtagPosts(c.Request.Context(), c.Param("name"), currentUserID(c), offset, limit, serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}
