package clerkauth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"golang.org/x/sync/singleflight"
)

const (
	defaultJWKSCacheTTL       = time.Hour
	defaultMinRefreshInterval = 30 * time.Second
)

// KeyProvider 按 kid 返回 JWT 验签公钥
type KeyProvider interface {
	GetKey(ctx context.Context, keyID string) (any, error)
}

// JWKSConfig JWKS 公钥来源配置
type JWKSConfig struct {
	// SecretKey 调用 Backend API 的 sk_ 密钥
	SecretKey string

	// APIURL 为空时使用 https://api.clerk.com/v1
	APIURL string

	HTTPClient *http.Client

	// CacheTTL 默认 1 小时
	CacheTTL time.Duration

	// MinRefreshInterval 两次拉取之间的最短间隔，默认 30s；
	// 间隔内出现的未知 kid 不触发拉取，返回 ErrKeyNotFound
	MinRefreshInterval time.Duration
}

// JWKSKeyProvider 通过 Clerk Backend API 拉取实例的 JWKS 并缓存 RSA 公钥
type JWKSKeyProvider struct {
	config JWKSConfig
	client *jwks.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	attemptedAt time.Time
	lastErr     error
	sf          singleflight.Group
}

// NewJWKSKeyProvider 创建 JWKS 公钥提供者
func NewJWKSKeyProvider(config JWKSConfig) *JWKSKeyProvider {
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaultJWKSCacheTTL
	}
	if config.MinRefreshInterval <= 0 {
		config.MinRefreshInterval = defaultMinRefreshInterval
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	clientConfig := &clerk.ClientConfig{}
	clientConfig.Key = clerk.String(config.SecretKey)
	if config.APIURL != "" {
		clientConfig.URL = clerk.String(config.APIURL)
	}
	clientConfig.HTTPClient = config.HTTPClient

	return &JWKSKeyProvider{
		config: config,
		client: jwks.NewClient(clientConfig),
		keys:   make(map[string]*rsa.PublicKey),
	}
}

// GetKey 缓存过期或 kid 未知时刷新（Clerk 轮换密钥会新增 kid）。
// 刷新失败时沿用上一次成功拉取的 key 集合
func (p *JWKSKeyProvider) GetKey(ctx context.Context, keyID string) (any, error) {
	p.mu.RLock()
	key := lookupKey(p.keys, keyID)
	fresh := time.Since(p.fetchedAt) < p.config.CacheTTL
	throttled := p.throttledLocked()
	p.mu.RUnlock()

	if key != nil && (fresh || throttled) {
		return key, nil
	}

	// 间隔内 refresh 不发请求，只合并到正在进行的拉取
	_, err, _ := p.sf.Do("refresh", func() (any, error) {
		return nil, p.refresh(ctx)
	})

	p.mu.RLock()
	key = lookupKey(p.keys, keyID)
	p.mu.RUnlock()

	if key != nil {
		return key, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrKeyNotFound
}

// throttledLocked 调用方持有 p.mu
func (p *JWKSKeyProvider) throttledLocked() bool {
	return !p.attemptedAt.IsZero() && time.Since(p.attemptedAt) < p.config.MinRefreshInterval
}

// lookupKey keyID 为空且只有一把 key 时返回该 key。调用方持有 p.mu
func lookupKey(keys map[string]*rsa.PublicKey, keyID string) *rsa.PublicKey {
	if keyID == "" {
		if len(keys) != 1 {
			return nil
		}
		for _, key := range keys {
			return key
		}
	}
	return keys[keyID]
}

func (p *JWKSKeyProvider) refresh(ctx context.Context) error {
	p.mu.Lock()
	if p.throttledLocked() {
		err := p.lastErr
		p.mu.Unlock()
		return err
	}
	p.attemptedAt = time.Now()
	p.mu.Unlock()

	set, err := p.client.Get(ctx, &jwks.GetParams{})
	if err != nil {
		err = fmt.Errorf("%w: fetch JWKS: %v", ErrVerificationFailed, err)
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk == nil {
			continue
		}
		if pub, ok := jwk.Key.(*rsa.PublicKey); ok {
			keys[jwk.KeyID] = pub
		}
	}

	p.mu.Lock()
	p.keys = keys
	p.fetchedAt = time.Now()
	p.lastErr = nil
	p.mu.Unlock()

	return nil
}

var _ KeyProvider = (*JWKSKeyProvider)(nil)
