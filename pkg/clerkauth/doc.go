// Package clerkauth 校验 Clerk 签发的 Bearer 凭证，并把 AuthInfo 放进请求 context。
//
// JWT（会话 token 与 JWT 格式的 OAuth access token）用实例 JWKS 在本地验签，
// JWKS 经 Backend API 拉取并缓存；不透明的 OAuth access token 交给 Backend API 校验。
// CompositeAuthenticator 把请求交给支持该凭证的 Authenticator。
package clerkauth
