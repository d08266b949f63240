package provider

import (
	"time"

	"github.com/inkwell-next/internal/authz"
	"github.com/inkwell-next/internal/cache"
	"github.com/inkwell-next/internal/config"
	"github.com/inkwell-next/internal/logger"
	"github.com/inkwell-next/internal/models"
	"github.com/inkwell-next/internal/queue"
	"github.com/inkwell-next/internal/repository"
	"github.com/inkwell-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	BlogRepo     repository.BlogRepository
	PostRepo     repository.PostRepository
	CommentRepo  repository.CommentRepository
	AuditLogRepo repository.AuditLogRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	UserRoleService  *service.UserRoleService
	BootstrapService *service.BootstrapService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	ImageService     *service.ImageService
	SlugService      *service.SlugService
	AuditService     *service.AuditService
	BlogService      *service.BlogService
	PostService      *service.PostService
	CommentService   *service.CommentService
	ContactService   *service.ContactService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，禁用时返回空实现，联系邮件改为同步发送
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.BlogRepo = repository.NewBlogRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.CommentRepo = repository.NewCommentRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ImageService = service.NewImageService(c.Config.Image)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.SlugService = service.NewSlugService(c.PostRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserRoleService = service.NewUserRoleService(c.AuthzService, c.UserRepo, c.AuditService)
	c.BootstrapService = service.NewBootstrapService(c.UserAuthService, c.UserRoleService)
	c.BlogService = service.NewBlogService(c.BlogRepo, c.UserRepo, c.Config.Blog.PageSize)
	c.PostService = service.NewPostService(c.PostRepo, c.BlogRepo, c.CommentRepo, c.SlugService, c.AuditService, service.PostServiceOptions{
		PageSize:    c.Config.Blog.PageSize,
		CacheTTL:    time.Duration(c.Config.Blog.CacheTTLSeconds) * time.Second,
		TagCloudTTL: time.Duration(c.Config.Blog.TagCloudCacheTTL) * time.Second,
	})
	c.CommentService = service.NewCommentService(c.CommentRepo, c.PostRepo, c.AuditService, c.Config.Comment.MaxBodyLength)
	c.ContactService = service.NewContactService(c.Config.Contact, c.Config.Email, c.EmailService, c.QueueClient)
}
