package clerkauth

import "context"

// CompositeAuthenticator 按顺序尝试支持该请求的 Authenticator，返回第一个成功结果
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator 组合多个 Authenticator
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	return &CompositeAuthenticator{authenticators: auths}
}

// Name 返回 "composite"
func (c *CompositeAuthenticator) Name() string {
	return "composite"
}

// Supports 任一 Authenticator 支持即可
func (c *CompositeAuthenticator) Supports(ctx context.Context, req *AuthRequest) bool {
	for _, a := range c.authenticators {
		if a.Supports(ctx, req) {
			return true
		}
	}
	return false
}

// Authenticate 遇到成功即返回，内部错误立即向上返回
func (c *CompositeAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	if _, ok := req.BearerToken(); !ok {
		return authFailure(ErrMissingCredentials, ""), nil
	}

	var last *AuthResult
	for _, a := range c.authenticators {
		if !a.Supports(ctx, req) {
			continue
		}
		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.Authenticated {
			return result, nil
		}
		last = result
	}

	if last != nil {
		return last, nil
	}
	return authFailure(ErrInvalidCredentials, ""), nil
}

var _ Authenticator = (*CompositeAuthenticator)(nil)
