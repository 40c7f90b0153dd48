package handler

import (
	"context"
	"net/http"

	"River_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type CreatePostReq struct {
	Body             string   `json:"body"`
	FeedIDs          []uint64 `json:"feed_ids"`
	AttachmentIDs    []uint64 `json:"attachment_ids"`
	CommentsDisabled bool     `json:"comments_disabled"`
}

// CreatePost 发帖接口，feed_ids 缺省投自己的 Posts feed
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), currentUserID(c), req.Body, req.FeedIDs, req.AttachmentIDs, req.CommentsDisabled)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

type UpdatePostReq struct {
	Body          string   `json:"body"`
	AttachmentIDs []uint64 `json:"attachment_ids"`
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	post, err := h.svc.UpdatePost(c.Request.Context(), currentUserID(c), id, req.Body, req.AttachmentIDs)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "updated_at": post.UpdatedAt.UnixMilli()})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), currentUserID(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

type CommentsDisabledReq struct {
	Disabled bool `json:"disabled"`
}

func (h *PostHandler) SetCommentsDisabled(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req CommentsDisabledReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.SetCommentsDisabled(c.Request.Context(), currentUserID(c), id, req.Disabled); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// GetPost 匿名可访问，可见性由引擎判断
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.svc.GetPost(c.Request.Context(), id, currentUserID(c), serveOptions(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PostHandler) HidePost(c *gin.Context)   { h.toggle(c, h.svc.HidePost, "hidden") }
func (h *PostHandler) UnhidePost(c *gin.Context) { h.toggle(c, h.svc.UnhidePost, "unhidden") }
func (h *PostHandler) SavePost(c *gin.Context)   { h.toggle(c, h.svc.SavePost, "saved") }
func (h *PostHandler) UnsavePost(c *gin.Context) { h.toggle(c, h.svc.UnsavePost, "unsaved") }

// toggle hide/save 系列动作共用：幂等，重复操作返回 false
func (h *PostHandler) toggle(c *gin.Context, op func(ctx context.Context, userID, postID uint64) (bool, error), key string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	changed, err := op(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: changed})
}
