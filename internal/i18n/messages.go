package i18n

// entry 三种语言的同一条消息
type entry struct {
	zh string
	tw string
	en string
}

var catalog = map[string]entry{
	"error.bad_request":                  {"请求参数错误", "請求參數錯誤", "Bad request"},
	"error.unauthorized":                 {"请先登录", "請先登入", "Please sign in first"},
	"error.forbidden":                    {"无权执行该操作", "無權執行該操作", "You are not allowed to perform this action"},
	"error.not_found":                    {"资源不存在", "資源不存在", "Resource not found"},
	"error.validation_failed":            {"表单校验失败", "表單校驗失敗", "Validation failed"},
	"error.concurrency_conflict":         {"数据已被他人修改，请刷新后重试", "資料已被他人修改，請重新整理後再試", "The record was changed by someone else, please reload and try again"},
	"error.save_failed":                  {"保存失败", "儲存失敗", "Save failed"},
	"error.upload_failed":                {"上传失败", "上傳失敗", "Upload failed"},
	"error.queue_unavailable":            {"任务队列不可用", "任務佇列不可用", "Task queue unavailable"},
	"error.post_not_found":               {"文章不存在", "文章不存在", "Post not found"},
	"error.post_id_invalid":              {"文章 ID 无效", "文章 ID 無效", "Invalid post id"},
	"error.post_fetch_failed":            {"获取文章失败", "取得文章失敗", "Failed to fetch posts"},
	"error.post_create_failed":           {"创建文章失败", "建立文章失敗", "Failed to create post"},
	"error.post_update_failed":           {"更新文章失败", "更新文章失敗", "Failed to update post"},
	"error.post_delete_failed":           {"删除文章失败", "刪除文章失敗", "Failed to delete post"},
	"error.ready_status_invalid":         {"发布状态无效", "發布狀態無效", "Invalid ready status"},
	"error.tag_invalid":                  {"标签不能为空", "標籤不能為空", "Tags must not be empty"},
	"error.tag_duplicate":                {"标签重复", "標籤重複", "Duplicate tag"},
	"error.tag_fetch_failed":             {"获取标签失败", "取得標籤失敗", "Failed to fetch tags"},
	"error.image_not_found":              {"图片不存在", "圖片不存在", "Image not found"},
	"error.image_too_large":              {"图片过大", "圖片過大", "Image is too large"},
	"error.image_type_invalid":           {"图片格式不支持", "圖片格式不支援", "Unsupported image type"},
	"error.image_dimension_invalid":      {"图片尺寸超出限制", "圖片尺寸超出限制", "Image dimensions exceed the limit"},
	"error.blog_not_found":               {"博客不存在", "部落格不存在", "Blog not found"},
	"error.blog_id_invalid":              {"博客 ID 无效", "部落格 ID 無效", "Invalid blog id"},
	"error.blog_fetch_failed":            {"获取博客失败", "取得部落格失敗", "Failed to fetch blogs"},
	"error.comment_not_found":            {"评论不存在", "留言不存在", "Comment not found"},
	"error.comment_id_invalid":           {"评论 ID 无效", "留言 ID 無效", "Invalid comment id"},
	"error.comment_fetch_failed":         {"获取评论失败", "取得留言失敗", "Failed to fetch comments"},
	"error.comment_create_failed":        {"发表评论失败", "發表留言失敗", "Failed to post comment"},
	"error.comment_moderate_failed":      {"审核评论失败", "審核留言失敗", "Failed to moderate comment"},
	"error.comment_delete_failed":        {"删除评论失败", "刪除留言失敗", "Failed to delete comment"},
	"error.comment_transition_invalid":   {"评论当前状态不允许该操作", "留言目前狀態不允許該操作", "The comment cannot make this transition"},
	"error.comment_too_many":             {"评论过于频繁，请 %d 秒后再试", "留言過於頻繁，請 %d 秒後再試", "Too many comments, try again in %d seconds"},
	"error.contact_send_failed":          {"发送失败，请稍后再试", "傳送失敗，請稍後再試", "Failed to send message, please try again later"},
	"error.contact_too_many":             {"提交过于频繁，请 %d 秒后再试", "提交過於頻繁，請 %d 秒後再試", "Too many messages, try again in %d seconds"},
	"error.email_invalid":                {"邮箱格式不正确", "信箱格式不正確", "Invalid email address"},
	"error.email_exists":                 {"邮箱已被注册", "信箱已被註冊", "Email is already registered"},
	"error.email_recipient_not_found":    {"未配置收件人", "未設定收件者", "No recipient configured"},
	"error.email_service_not_configured": {"邮件服务未配置", "郵件服務未設定", "Email service is not configured"},
	"error.captcha_required":             {"请输入验证码", "請輸入驗證碼", "Captcha is required"},
	"error.captcha_invalid":              {"验证码错误", "驗證碼錯誤", "Invalid captcha"},
	"error.captcha_config_invalid":       {"验证码配置无效", "驗證碼設定無效", "Invalid captcha configuration"},
	"error.captcha_unavailable":          {"验证码服务不可用", "驗證碼服務不可用", "Captcha service unavailable"},
	"error.captcha_generate_failed":      {"生成验证码失败", "產生驗證碼失敗", "Failed to generate captcha"},
	"error.captcha_verify_failed":        {"验证码校验失败", "驗證碼校驗失敗", "Captcha verification failed"},
	"error.login_invalid":                {"邮箱或密码错误", "信箱或密碼錯誤", "Invalid email or password"},
	"error.login_failed":                 {"登录失败", "登入失敗", "Login failed"},
	"error.login_too_many":               {"登录尝试过多，请 %d 秒后再试", "登入嘗試過多，請 %d 秒後再試", "Too many login attempts, try again in %d seconds"},
	"error.user_disabled":                {"账号已被禁用", "帳號已被停用", "Account is disabled"},
	"error.register_failed":              {"注册失败", "註冊失敗", "Registration failed"},
	"error.user_not_found":               {"用户不存在", "使用者不存在", "User not found"},
	"error.user_id_invalid":              {"用户 ID 无效", "使用者 ID 無效", "Invalid user id"},
	"error.user_id_type_invalid":         {"用户 ID 类型错误", "使用者 ID 類型錯誤", "Invalid user id type"},
	"error.user_fetch_failed":            {"获取用户失败", "取得使用者失敗", "Failed to fetch user"},
	"error.role_invalid":                 {"角色无效", "角色無效", "Invalid role"},
	"error.audit_fetch_failed":           {"获取审计日志失败", "取得稽核日誌失敗", "Failed to fetch audit logs"},
	"error.password_weak":                {"密码强度不足", "密碼強度不足", "Password is too weak"},
	"error.password_old_invalid":         {"原密码错误", "原密碼錯誤", "Current password is incorrect"},
	"error.password_min_length":          {"密码长度至少 %d 位", "密碼長度至少 %d 位", "Password must be at least %d characters"},
	"error.password_require_upper":       {"密码需包含大写字母", "密碼需包含大寫字母", "Password must contain an uppercase letter"},
	"error.password_require_lower":       {"密码需包含小写字母", "密碼需包含小寫字母", "Password must contain a lowercase letter"},
	"error.password_require_number":      {"密码需包含数字", "密碼需包含數字", "Password must contain a number"},
	"error.password_require_special":     {"密码需包含特殊字符", "密碼需包含特殊字元", "Password must contain a special character"},
	"error.password_max_length":          {"密码不能超过 %d 字节", "密碼不能超過 %d 位元組", "Password must be at most %d bytes"},
	"error.password_contains_email":      {"密码不能包含邮箱用户名", "密碼不能包含信箱使用者名稱", "Password must not contain your email name"},
	"error.jwt_secret_missing":           {"认证服务未配置", "認證服務未設定", "Authentication is not configured"},
	"error.token_invalid":                {"登录状态无效或已过期", "登入狀態無效或已過期", "Token is invalid or expired"},
	"error.token_revoked":                {"登录状态已失效，请重新登录", "登入狀態已失效，請重新登入", "Token has been revoked, please sign in again"},
	"error.auth_header_missing":          {"缺少认证信息", "缺少認證資訊", "Missing Authorization header"},
	"error.auth_header_invalid":          {"认证信息格式错误", "認證資訊格式錯誤", "Malformed Authorization header"},
	"error.rate_limited":                 {"请求过于频繁，请 %d 秒后再试", "請求過於頻繁，請 %d 秒後再試", "Too many requests, try again in %d seconds"},
	"error.rate_limit_unavailable":       {"限流服务不可用", "限流服務不可用", "Rate limiter unavailable"},

	"validation.required":                {"不能为空", "不能為空", "is required"},
	"validation.length":                  {"长度需在 %d 到 %d 之间", "長度需在 %d 到 %d 之間", "must be between %d and %d characters"},
	"validation.email":                   {"邮箱格式不正确", "信箱格式不正確", "is not a valid email address"},
	"validation.slug_empty":              {"标题无法生成有效的链接", "標題無法產生有效的連結", "does not produce a usable slug"},
	"validation.slug_duplicate":          {"已存在相同链接的文章", "已存在相同連結的文章", "is already used by another post"},
	"validation.ready_status_invalid":    {"发布状态无效", "發布狀態無效", "is not a valid ready status"},
	"validation.moderation_type_invalid": {"审核类型无效", "審核類型無效", "is not a valid moderation type"},
}

var messages = buildMessages(catalog)

func buildMessages(source map[string]entry) map[string]map[string]string {
	out := map[string]map[string]string{
		LocaleZH: make(map[string]string, len(source)),
		LocaleTW: make(map[string]string, len(source)),
		LocaleEN: make(map[string]string, len(source)),
	}
	for key, item := range source {
		out[LocaleZH][key] = item.zh
		out[LocaleTW][key] = item.tw
		out[LocaleEN][key] = item.en
	}
	return out
}
