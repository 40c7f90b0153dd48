package router

import (
	"River_Social/internal/handler"
	"River_Social/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User     *handler.UserHandler
	Post     *handler.PostHandler
	Comment  *handler.CommentHandler
	Like     *handler.LikeHandler
	Timeline *handler.TimelineHandler
}

func InitRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.POST("/login", h.User.Login)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// 账号设置与关系接口
	accountGroup := r.Group("/api/account")
	accountGroup.Use(middleware.AuthMiddleware())
	{
		accountGroup.POST("/privacy", h.User.SetPrivacy)
		accountGroup.POST("/comment-prefs", h.User.SetCommentPrefs)
		accountGroup.POST("/subscribe/:username", h.User.Subscribe)
		accountGroup.POST("/unsubscribe/:username", h.User.Unsubscribe)
		accountGroup.POST("/ban/:username", h.User.Ban)
		accountGroup.POST("/unban/:username", h.User.Unban)
		accountGroup.POST("/group", h.User.CreateGroup)
	}

	// 帖子相关接口，读接口匿名可访问
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.OptionalAuthMiddleware())
	{
		postGroup.GET("/:id", h.Post.GetPost)
	}
	postAuthGroup := r.Group("/api/post")
	postAuthGroup.Use(middleware.AuthMiddleware())
	{
		postAuthGroup.POST("", h.Post.CreatePost)
		postAuthGroup.PUT("/:id", h.Post.UpdatePost)
		postAuthGroup.DELETE("/:id", h.Post.DeletePost)
		postAuthGroup.POST("/:id/comments-disabled", h.Post.SetCommentsDisabled)
		postAuthGroup.POST("/:id/hide", h.Post.HidePost)
		postAuthGroup.POST("/:id/unhide", h.Post.UnhidePost)
		postAuthGroup.POST("/:id/save", h.Post.SavePost)
		postAuthGroup.POST("/:id/unsave", h.Post.UnsavePost)
		postAuthGroup.POST("/:id/like", h.Like.LikePost)
		postAuthGroup.POST("/:id/unlike", h.Like.UnlikePost)
		postAuthGroup.POST("/:id/comment", h.Comment.AddComment)
	}

	// 评论相关接口
	commentGroup := r.Group("/api/comment")
	commentGroup.Use(middleware.OptionalAuthMiddleware())
	{
		commentGroup.GET("/:id", h.Comment.GetComment)
	}
	commentAuthGroup := r.Group("/api/comment")
	commentAuthGroup.Use(middleware.AuthMiddleware())
	{
		commentAuthGroup.PUT("/:id", h.Comment.UpdateComment)
		commentAuthGroup.DELETE("/:id", h.Comment.DeleteComment)
		commentAuthGroup.POST("/:id/like", h.Like.LikeComment)
		commentAuthGroup.POST("/:id/unlike", h.Like.UnlikeComment)
	}

	// 时间线接口：本人的河/讨论/私信/收藏要登录，账号页匿名可看
	timelineAuthGroup := r.Group("/api/timeline")
	timelineAuthGroup.Use(middleware.AuthMiddleware())
	{
		timelineAuthGroup.GET("/home", h.Timeline.RiverOfNews)
		timelineAuthGroup.GET("/discussions", h.Timeline.MyDiscussions)
		timelineAuthGroup.GET("/directs", h.Timeline.Directs)
		timelineAuthGroup.GET("/saved", h.Timeline.SavedPosts)
	}
	timelineGroup := r.Group("/api/timeline")
	timelineGroup.Use(middleware.OptionalAuthMiddleware())
	{
		timelineGroup.GET("/user/:username", h.Timeline.UserPosts)
		timelineGroup.GET("/user/:username/likes", h.Timeline.UserLikes)
		timelineGroup.GET("/user/:username/comments", h.Timeline.UserComments)
		timelineGroup.GET("/hashtag/:name", h.Timeline.HashtagPosts)
	}

	// 账号主页
	profileGroup := r.Group("/api/users")
	profileGroup.Use(middleware.OptionalAuthMiddleware())
	{
		profileGroup.GET("/:username", h.User.Profile)
	}

	return r
}
