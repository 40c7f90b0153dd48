package handler

import (
	"net/http"

	"River_Social/internal/model"
	"River_Social/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type RegisterReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	pair, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	changed, err := h.svc.Subscribe(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": changed})
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	changed, err := h.svc.Unsubscribe(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": changed})
}

func (h *UserHandler) Ban(c *gin.Context) {
	changed, err := h.svc.Ban(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned": changed})
}

func (h *UserHandler) Unban(c *gin.Context) {
	changed, err := h.svc.Unban(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unbanned": changed})
}

type PrivacyReq struct {
	IsPrivate   bool `json:"is_private"`
	IsProtected bool `json:"is_protected"`
}

func (h *UserHandler) SetPrivacy(c *gin.Context) {
	var req PrivacyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.SetPrivacy(c.Request.Context(), currentUserID(c), req.IsPrivate, req.IsProtected); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

type CommentPrefsReq struct {
	HideCommentsOfTypes []model.HideType `json:"hideCommentsOfTypes"`
}

// SetCommentPrefs 不传字段与传空数组含义不同，空数组表示全部呈现占位符
func (h *UserHandler) SetCommentPrefs(c *gin.Context) {
	var req CommentPrefsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if req.HideCommentsOfTypes == nil {
		req.HideCommentsOfTypes = []model.HideType{}
	}
	if err := h.svc.UpdateCommentVisibilityPrefs(c.Request.Context(), currentUserID(c), req.HideCommentsOfTypes); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

type CreateGroupReq struct {
	Username    string `json:"username"`
	IsPrivate   bool   `json:"is_private"`
	IsProtected bool   `json:"is_protected"`
}

func (h *UserHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	group, err := h.svc.CreateGroup(c.Request.Context(), currentUserID(c), req.Username, req.IsPrivate, req.IsProtected)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": group.ID, "username": group.Username})
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.svc.UserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"kind":         user.Kind,
		"is_private":   user.IsPrivate,
		"is_protected": user.IsProtected,
		"updated_at":   user.UpdatedAt.UnixMilli(),
	})
}
