package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleTW = "zh-TW"
	LocaleEN = "en-US"
)

// DefaultLocale 无法识别请求语言时使用
const DefaultLocale = LocaleZH

var supportedTags = []language.Tag{
	language.SimplifiedChinese,
	language.TraditionalChinese,
	language.AmericanEnglish,
}

var tagLocales = map[language.Tag]string{
	language.SimplifiedChinese:  LocaleZH,
	language.TraditionalChinese: LocaleTW,
	language.AmericanEnglish:    LocaleEN,
}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 解析请求语言：query lang > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if value, ok := c.Get("locale"); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	candidates := []string{c.Query("lang"), c.GetHeader("X-Locale")}
	for _, candidate := range candidates {
		if locale := NormalizeLocale(candidate); locale != "" {
			return locale
		}
	}
	if locale := MatchAcceptLanguage(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return DefaultLocale
}

// NormalizeLocale 将任意语言标签归一到支持的语言，无法识别时返回空
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	return matchTags([]language.Tag{tag})
}

// MatchAcceptLanguage 按 Accept-Language 头匹配支持的语言
func MatchAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return matchTags(tags)
}

func matchTags(tags []language.Tag) string {
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return tagLocales[supportedTags[index]]
}

// T 翻译消息 key，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	if len(args) == 0 {
		return T(locale, key)
	}
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否在默认语言中定义
func Has(key string) bool {
	_, ok := messages[DefaultLocale][key]
	return ok
}
