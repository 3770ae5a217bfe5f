package metadata

import "strings"

// ProtectedResource RFC 9728 受保护资源元数据
type ProtectedResource struct {
	Resource                              string         `json:"resource"`
	AuthorizationServers                  []string       `json:"authorization_servers"`
	TokenTypesSupported                   []string       `json:"token_types_supported,omitempty"`
	ScopesSupported                       []string       `json:"scopes_supported,omitempty"`
	BearerMethodsSupported                []string       `json:"bearer_methods_supported"`
	JWKSURI                               string         `json:"jwks_uri,omitempty"`
	TokenIntrospectionEndpoint            string         `json:"token_introspection_endpoint,omitempty"`
	TokenIntrospectionEndpointAuthMethods []string       `json:"token_introspection_endpoint_auth_methods_supported,omitempty"`
	AuthorizationDataTypesSupported       []string       `json:"authorization_data_types_supported,omitempty"`
	AuthorizationDataLocationsSupported   []string       `json:"authorization_data_locations_supported,omitempty"`
	KeyChallengesSupported                []KeyChallenge `json:"key_challenges_supported,omitempty"`
	ResourceName                          string         `json:"resource_name,omitempty"`
	ResourceDocumentation                 string         `json:"resource_documentation,omitempty"`
	ServiceDocumentation                  string         `json:"service_documentation,omitempty"`
}

type KeyChallenge struct {
	ChallengeType string   `json:"challenge_type"`
	ChallengeAlgs []string `json:"challenge_algs"`
}

// AuthorizationServer RFC 8414 授权服务器元数据
type AuthorizationServer struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RevocationEndpoint                string   `json:"revocation_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint"`
	UserinfoEndpoint                  string   `json:"userinfo_endpoint"`
	IntrospectionEndpoint             string   `json:"introspection_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	ScopesSupported                   []string `json:"scopes_supported"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	ResponseModesSupported            []string `json:"response_modes_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported  []string `json:"id_token_signing_alg_values_supported"`
	ServiceDocumentation              string   `json:"service_documentation"`
}

const (
	ProtectedResourcePath   = "/.well-known/oauth-protected-resource"
	AuthorizationServerPath = "/.well-known/oauth-authorization-server"
	clerkDocs               = "https://clerk.com/docs"
)

// JWKSURL Clerk 实例的公钥地址
func JWKSURL(frontendAPI string) string {
	return strings.TrimRight(frontendAPI, "/") + "/.well-known/jwks.json"
}

// NewProtectedResource 构造资源元数据，scopes 为空时不输出 scopes_supported
func NewProtectedResource(resource, frontendAPI, resourceName string, scopes []string) ProtectedResource {
	fapi := strings.TrimRight(frontendAPI, "/")
	doc := ProtectedResource{
		Resource:                              resource,
		AuthorizationServers:                  []string{fapi},
		TokenTypesSupported:                   []string{"urn:ietf:params:oauth:token-type:access_token"},
		BearerMethodsSupported:                []string{"header"},
		JWKSURI:                               JWKSURL(fapi),
		TokenIntrospectionEndpoint:            fapi + "/oauth/token_info",
		TokenIntrospectionEndpointAuthMethods: []string{"client_secret_post", "client_secret_basic"},
		AuthorizationDataTypesSupported:       []string{"oauth_scope"},
		AuthorizationDataLocationsSupported:   []string{"header", "body"},
		KeyChallengesSupported: []KeyChallenge{{
			ChallengeType: "urn:ietf:params:oauth:pkce:code_challenge",
			ChallengeAlgs: []string{"S256"},
		}},
		ResourceName:          resourceName,
		ResourceDocumentation: clerkDocs,
		ServiceDocumentation:  clerkDocs,
	}
	if len(scopes) > 0 {
		doc.ScopesSupported = append([]string(nil), scopes...)
	}
	return doc
}

// NewAuthorizationServer 按 Clerk OAuth 端点约定构造授权服务器元数据
func NewAuthorizationServer(frontendAPI string) AuthorizationServer {
	fapi := strings.TrimRight(frontendAPI, "/")
	return AuthorizationServer{
		Issuer:                            fapi,
		AuthorizationEndpoint:             fapi + "/oauth/authorize",
		TokenEndpoint:                     fapi + "/oauth/token",
		RevocationEndpoint:                fapi + "/oauth/token/revoke",
		RegistrationEndpoint:              fapi + "/oauth/register",
		UserinfoEndpoint:                  fapi + "/oauth/userinfo",
		IntrospectionEndpoint:             fapi + "/oauth/token_info",
		JWKSURI:                           JWKSURL(fapi),
		ScopesSupported:                   []string{"openid", "profile", "email", "public_metadata", "private_metadata"},
		ResponseTypesSupported:            []string{"code"},
		ResponseModesSupported:            []string{"query", "form_post"},
		GrantTypesSupported:               []string{"authorization_code", "refresh_token"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_basic", "none", "client_secret_post"},
		CodeChallengeMethodsSupported:     []string{"S256"},
		SubjectTypesSupported:             []string{"public"},
		IDTokenSigningAlgValuesSupported:  []string{"RS256"},
		ServiceDocumentation:              clerkDocs,
	}
}
