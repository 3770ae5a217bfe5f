package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成一个标准的 UUID (v4)
func GenerateUUID() string {
	return uuid.New().String()
}

// ValidRequestID 判断客户端传入的请求 ID 是否可以沿用（UUID 格式且不超长）
func ValidRequestID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 64 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// JoinURL 拼接 base 与 path，去掉多余的斜杠
func JoinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
