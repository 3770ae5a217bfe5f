package service

import (
	"strings"

	"ClerkMCP/internal/modules/oauth/domain/metadata"
	"ClerkMCP/pkg/util"
)

// MetadataService OAuth 发现文档服务
type MetadataService interface {
	// ProtectedResource requestOrigin 仅在未配置 publicURL 时使用，resourcePath 为 "" 或 MCP 端点路径
	ProtectedResource(requestOrigin, resourcePath string, scopes []string) metadata.ProtectedResource
	AuthorizationServer() metadata.AuthorizationServer
	// ResourceMetadataURL 返回 resourcePath 对应的元数据地址，用于 WWW-Authenticate
	ResourceMetadataURL(requestOrigin, resourcePath string) string
}

type metadataServiceImpl struct {
	frontendAPI  string
	publicURL    string
	resourceName string
	authServer   metadata.AuthorizationServer
}

// NewMetadataService 启动时构造，frontendAPI 为 Clerk Frontend API 地址
func NewMetadataService(frontendAPI, publicURL, resourceName string) MetadataService {
	frontendAPI = strings.TrimRight(frontendAPI, "/")
	return &metadataServiceImpl{
		frontendAPI:  frontendAPI,
		publicURL:    strings.TrimRight(publicURL, "/"),
		resourceName: resourceName,
		authServer:   metadata.NewAuthorizationServer(frontendAPI),
	}
}

func (s *metadataServiceImpl) ProtectedResource(requestOrigin, resourcePath string, scopes []string) metadata.ProtectedResource {
	resource := util.JoinURL(s.base(requestOrigin), resourcePath)
	return metadata.NewProtectedResource(resource, s.frontendAPI, s.resourceName, scopes)
}

func (s *metadataServiceImpl) AuthorizationServer() metadata.AuthorizationServer {
	return s.authServer
}

func (s *metadataServiceImpl) ResourceMetadataURL(requestOrigin, resourcePath string) string {
	return util.JoinURL(util.JoinURL(s.base(requestOrigin), metadata.ProtectedResourcePath), resourcePath)
}

func (s *metadataServiceImpl) base(requestOrigin string) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	return requestOrigin
}
