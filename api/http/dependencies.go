package http

import (
	"net/http"
	"time"

	"ClerkMCP/internal/config"
	clerkrepo "ClerkMCP/internal/modules/user/infrastructure/clerk"
	"ClerkMCP/internal/observe"
	"ClerkMCP/pkg/clerkauth"
)

// NewAuthenticator 组合 Clerk 会话 JWT 与 OAuth access token 两种校验方式
func NewAuthenticator(conf *config.Config, httpClient *http.Client) (clerkauth.Authenticator, error) {
	frontendAPI, err := conf.FrontendAPI()
	if err != nil {
		return nil, err
	}
	keys := clerkauth.NewJWKSKeyProvider(clerkauth.JWKSConfig{
		SecretKey:  conf.ClerkConfig.SecretKey,
		APIURL:     conf.ClerkConfig.APIURL,
		HTTPClient: httpClient,
		CacheTTL:   time.Duration(conf.ClerkConfig.JWKSCacheTTLSeconds) * time.Second,
	})
	sessionAuth := clerkauth.NewSessionTokenAuthenticator(clerkauth.SessionTokenConfig{
		Issuer:            frontendAPI,
		AuthorizedParties: conf.ClerkConfig.AuthorizedParties,
	}, keys)
	accessAuth := clerkauth.NewAccessTokenAuthenticator(clerkauth.AccessTokenConfig{
		SecretKey:  conf.ClerkConfig.SecretKey,
		APIURL:     conf.ClerkConfig.APIURL,
		HTTPClient: httpClient,
	})
	return clerkauth.NewCompositeAuthenticator(sessionAuth, accessAuth), nil
}

// NewDependencies 按配置创建 Clerk 相关依赖，tel 可为 nil
func NewDependencies(conf *config.Config, tel *observe.Telemetry) (Dependencies, error) {
	authenticator, err := NewAuthenticator(conf, nil)
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{
		Authenticator: authenticator,
		Users:         clerkrepo.NewUserRepository(conf.ClerkConfig.SecretKey, conf.ClerkConfig.APIURL, nil),
		Telemetry:     tel,
	}, nil
}
