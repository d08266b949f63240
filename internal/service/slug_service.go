package service

import (
	"strings"
	"unicode"

	"github.com/inkwell-next/internal/repository"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugService 文章 slug 派生与唯一性检查
type SlugService struct {
	repo repository.PostRepository
}

// NewSlugService 创建 slug 服务
func NewSlugService(repo repository.PostRepository) *SlugService {
	return &SlugService{repo: repo}
}

// URLFriendly 将标题归一化为 URL 安全的 slug，无可用字符时返回空串
func (s *SlugService) URLFriendly(title string) string {
	return URLFriendly(title)
}

// IsUnique 精确检查 slug 是否未被占用
// 仅作预检，最终以数据库唯一约束为准
func (s *SlugService) IsUnique(slug string) (bool, error) {
	exists, err := s.repo.SlugExists(slug)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

var slugTransliterations = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ł': "l",
	'&': "and",
}

// URLFriendly 标题转 slug：小写、去除变音符号、非字母数字折叠为单个连字符、去掉首尾连字符
func URLFriendly(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(title),
	)
	if err != nil {
		folded = strings.ToLower(title)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if replacement, ok := slugTransliterations[r]; ok {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteString(replacement)
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
