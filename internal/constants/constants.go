package constants

// 文章就绪状态
const (
	ReadyStatusProductionReady = "production_ready"
	ReadyStatusPreProduction   = "pre_production"
)

// 评论生命周期状态
const (
	CommentStatePending     = "pending"
	CommentStateModerated   = "moderated"
	CommentStateSoftDeleted = "soft_deleted"
	// CommentStateHardDeleted 仅作为迁移目标，不会落库
	CommentStateHardDeleted = "hard_deleted"
)

// 评论审核队列视图
const (
	CommentViewUnmoderated = "unmoderated"
	CommentViewModerated   = "moderated"
	CommentViewDeleted     = "deleted"
)

// 审核类型
const (
	ModerationTypePolitical   = "political"
	ModerationTypeLanguage    = "language"
	ModerationTypeDrugs       = "drugs"
	ModerationTypeThreatening = "threatening"
	ModerationTypeSexual      = "sexual"
	ModerationTypeHateSpeech  = "hate_speech"
	ModerationTypeShaming     = "shaming"
)

// 内置角色
const (
	RoleAdministrator = "administrator"
	RoleModerator     = "moderator"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskContactEmail = "contact:email"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码场景
const (
	CaptchaSceneLogin         = "login"
	CaptchaSceneRegister      = "register"
	CaptchaSceneCommentCreate = "comment_create"
	CaptchaSceneContact       = "contact"
)

// 社交链接键
const (
	SocialLinkGitHub   = "github"
	SocialLinkLinkedIn = "linkedin"
	SocialLinkPersonal = "personal"
)

// CommentSectionAnchor 文章详情页评论区锚点
const CommentSectionAnchor = "commentSection"

// 审计动作
const (
	AuditActionCommentModerate   = "comment.moderate"
	AuditActionCommentSoftDelete = "comment.soft_delete"
	AuditActionCommentHardDelete = "comment.hard_delete"
	AuditActionPostCreate        = "post.create"
	AuditActionPostUpdate        = "post.update"
	AuditActionPostDelete        = "post.delete"
	AuditActionUserRolesSet      = "user.roles_set"
)

// 审计目标类型
const (
	AuditTargetComment = "comment"
	AuditTargetPost    = "post"
	AuditTargetUser    = "user"
)
