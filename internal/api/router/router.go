package router

import (
	"vidtube-go/internal/api/handler"
	"vidtube-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Tweet        *handler.TweetHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Dashboard    *handler.DashboardHandler
}

// Setup 注册所有业务路由，limiter 为 nil 时不对认证接口限流
func Setup(r *gin.Engine, h *Handlers, auth middleware.Authenticator, limiter *middleware.IPRateLimiter) {
	required := middleware.AuthRequired(auth)
	optional := middleware.OptionalAuth(auth)

	v1 := r.Group("/api/v1")

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		public := users.Group("")
		if limiter != nil {
			public.Use(middleware.RateLimit(limiter))
		}
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
		public.POST("/refresh-token", h.Auth.RefreshToken)

		users.GET("/channel/:username", optional, h.User.ChannelProfile)

		usersAuth := users.Group("", required)
		{
			usersAuth.POST("/logout", h.Auth.Logout)
			usersAuth.GET("/current-user", h.User.CurrentUser)
			usersAuth.POST("/change-password", h.User.ChangePassword)
			usersAuth.PATCH("/update-account", h.User.UpdateAccount)
			usersAuth.PATCH("/avatar", h.User.UpdateAvatar)
			usersAuth.PATCH("/cover-image", h.User.UpdateCoverImage)
			usersAuth.GET("/history", h.User.WatchHistory)
		}
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videos.GET("", optional, h.Video.List)
		videos.GET("/:videoId", optional, h.Video.Get)

		videosAuth := videos.Group("", required)
		{
			videosAuth.POST("", h.Video.Publish)
			videosAuth.PATCH("/:videoId", h.Video.Update)
			videosAuth.DELETE("/:videoId", h.Video.Delete)
			videosAuth.PATCH("/toggle/publish/:videoId", h.Video.TogglePublish)
		}
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments", required)
	{
		comments.GET("/:videoId", h.Comment.ListByVideo)
		comments.POST("/:videoId", h.Comment.Create)
		comments.PATCH("/c/:commentId", h.Comment.Update)
		comments.DELETE("/c/:commentId", h.Comment.Delete)
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes", required)
	{
		likes.POST("/toggle/v/:videoId", h.Like.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", h.Like.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", h.Like.ToggleTweetLike)
		likes.GET("/videos", h.Like.LikedVideos)
	}

	// --- 动态模块 ---
	tweets := v1.Group("/tweets", required)
	{
		tweets.POST("", h.Tweet.Create)
		tweets.GET("/user/:userId", h.Tweet.ListByUser)
		tweets.PATCH("/:tweetId", h.Tweet.Update)
		tweets.DELETE("/:tweetId", h.Tweet.Delete)
	}

	// --- 播放列表模块 ---
	playlists := v1.Group("/playlists", required)
	{
		playlists.POST("", h.Playlist.Create)
		playlists.GET("/:playlistId", h.Playlist.Get)
		playlists.PATCH("/:playlistId", h.Playlist.Update)
		playlists.DELETE("/:playlistId", h.Playlist.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", h.Playlist.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", h.Playlist.RemoveVideo)
		playlists.GET("/user/:userId", h.Playlist.ListByUser)
	}

	// --- 订阅模块 ---
	subscriptions := v1.Group("/subscriptions", required)
	{
		subscriptions.POST("/:channelId/toggle", h.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.Subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.Subscription.SubscribedChannels)
	}

	// --- 频道面板 ---
	dashboard := v1.Group("/dashboard", required)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}
}
