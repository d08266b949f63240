package router

import (
	"fmt"
	"strings"

	"github.com/inkwell-next/internal/cache"
	"github.com/inkwell-next/internal/config"
	adminhandlers "github.com/inkwell-next/internal/http/handlers/admin"
	publichandlers "github.com/inkwell-next/internal/http/handlers/public"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/provider"

	"github.com/gin-gonic/gin"
)

const defaultRedisPrefix = "inkwell"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = defaultRedisPrefix
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit, "error.login_too_many")
	commentRule := NewRateLimitRule(fmt.Sprintf("%s:rate:comment", redisPrefix), cfg.Security.CommentRateLimit, "error.comment_too_many")
	contactRule := NewRateLimitRule(fmt.Sprintf("%s:rate:contact", redisPrefix), cfg.Security.ContactRateLimit, "error.contact_too_many")

	optionalAuth := OptionalUserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)
	requiredAuth := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)
	actor := ActorMiddleware(c.UserRoleService)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（可选登录，管理员可预览未发布文章）
		public := apiV1.Group("/public")
		public.Use(optionalAuth, actor)
		{
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/search", publicHandler.SearchPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
			public.GET("/posts/:slug/image", publicHandler.GetPostImage)
			public.GET("/blogs", publicHandler.GetBlogs)
			public.GET("/blogs/:id", publicHandler.GetBlog)
			public.GET("/blogs/:id/image", publicHandler.GetBlogImage)
			public.GET("/blogs/:id/posts", publicHandler.GetBlogPosts)
			public.GET("/tags", publicHandler.GetTags)
			public.GET("/tags/:tag/posts", publicHandler.GetTagPosts)
			public.GET("/captcha/config", publicHandler.GetCaptchaConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.POST("/contact", RateLimitMiddleware(redisClient, contactRule, KeyByIP), publicHandler.SubmitContact)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(requiredAuth, actor)
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.POST("/posts/:slug/comments", RateLimitMiddleware(redisClient, commentRule, KeyByUser), publicHandler.CreateComment)
		}

		// 管理接口：administrator 全部放行，moderator 仅评论审核
		admin := apiV1.Group("/admin")
		admin.Use(requiredAuth, AdminRBACMiddleware(c.AuthzService), actor)
		{
			// 评论审核
			admin.GET("/comments", adminHandler.ListComments)
			admin.GET("/comments/:id", adminHandler.GetComment)
			admin.PUT("/comments/:id/moderation", adminHandler.ModerateComment)
			admin.DELETE("/comments/:id", adminHandler.DeleteComment)

			// 文章管理
			admin.GET("/posts", adminHandler.GetAdminPosts)
			admin.POST("/posts", adminHandler.CreatePost)
			admin.GET("/posts/:id", adminHandler.GetAdminPost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)

			// 角色与审计
			admin.GET("/users/:id/roles", adminHandler.GetUserRoles)
			admin.PUT("/users/:id/roles", adminHandler.SetUserRoles)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
