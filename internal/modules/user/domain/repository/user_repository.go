package repository

import (
	"context"

	"github.com/clerk/clerk-sdk-go/v2"
)

// UserRepository Clerk 用户读取接口
type UserRepository interface {
	// GetByID 按 Clerk 用户 ID 查询，失败原样返回错误
	GetByID(ctx context.Context, id string) (*clerk.User, error)
}
