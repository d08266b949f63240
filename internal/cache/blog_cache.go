package cache

import (
	"context"
	"strings"
)

const tagCloudKey = "tags:cloud"

// PostDetailKey 文章详情缓存键
func PostDetailKey(slug string) string {
	return "post:slug:" + strings.ToLower(strings.TrimSpace(slug))
}

// TagCloudKey 标签云缓存键
func TagCloudKey() string {
	return tagCloudKey
}

// InvalidatePost 失效文章详情与标签云缓存
func InvalidatePost(ctx context.Context, slugs ...string) error {
	keys := []string{tagCloudKey}
	for _, slug := range slugs {
		if strings.TrimSpace(slug) == "" {
			continue
		}
		keys = append(keys, PostDetailKey(slug))
	}
	return Del(ctx, keys...)
}
