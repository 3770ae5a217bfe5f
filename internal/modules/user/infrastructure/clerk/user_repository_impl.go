package clerkrepo

import (
	"context"
	"net/http"

	"ClerkMCP/internal/modules/user/domain/repository"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
)

// userRepositoryImpl 基于 Clerk Backend API
type userRepositoryImpl struct {
	client *user.Client
}

// NewUserRepository 使用服务端 secret key 创建 Clerk 客户端，apiURL 为空时使用官方地址
func NewUserRepository(secretKey, apiURL string, httpClient *http.Client) repository.UserRepository {
	config := &clerk.ClientConfig{}
	config.Key = clerk.String(secretKey)
	if apiURL != "" {
		config.URL = clerk.String(apiURL)
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return &userRepositoryImpl{client: user.NewClient(config)}
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*clerk.User, error) {
	return r.client.Get(ctx, id)
}
