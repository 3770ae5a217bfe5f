package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"ClerkMCP/pkg/clerkauth"
)

// DefaultConfigPath 默认配置文件路径，可通过 CLERK_MCP_CONFIG 覆盖
const DefaultConfigPath = "configs/config_local.toml"

type MainConfig struct {
	AppName                string `toml:"appName"`
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	PublicURL              string `toml:"publicURL"`
	ShutdownTimeoutSeconds int    `toml:"shutdownTimeoutSeconds"`
}

// ClerkConfig Clerk 凭据与接口地址
type ClerkConfig struct {
	SecretKey           string   `toml:"secretKey"`
	PublishableKey      string   `toml:"publishableKey"`
	APIURL              string   `toml:"apiURL"`
	FrontendAPIURL      string   `toml:"frontendAPIURL"`
	JWKSCacheTTLSeconds int      `toml:"jwksCacheTTLSeconds"`
	AuthorizedParties   []string `toml:"authorizedParties"`
}

type CorsConfig struct {
	AllowOrigins  []string `toml:"allowOrigins"`
	MaxAgeSeconds int      `toml:"maxAgeSeconds"`
}

type LogConfig struct {
	LogPath    string `toml:"logPath"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"maxSizeMB"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAgeDays int    `toml:"maxAgeDays"`
}

// MCPConfig MCP 服务配置
type MCPConfig struct {
	Name         string `toml:"name"`
	Version      string `toml:"version"`
	EndpointPath string `toml:"endpointPath"`
}

type TLSConfig struct {
	Enabled     bool   `toml:"enabled"`
	CertFile    string `toml:"certFile"`
	KeyFile     string `toml:"keyFile"`
	SSLRedirect bool   `toml:"sslRedirect"`
}

// TelemetryConfig 链路追踪与指标导出配置
type TelemetryConfig struct {
	ServiceName     string  `toml:"serviceName"`
	TracingExporter string  `toml:"tracingExporter"`
	MetricsExporter string  `toml:"metricsExporter"`
	SamplePct       float64 `toml:"samplePct"`
	MetricsPath     string  `toml:"metricsPath"`
}

type Config struct {
	MainConfig      `toml:"mainConfig"`
	ClerkConfig     `toml:"clerkConfig"`
	CorsConfig      `toml:"corsConfig"`
	LogConfig       `toml:"logConfig"`
	MCPConfig       `toml:"mcpConfig"`
	TLSConfig       `toml:"tlsConfig"`
	TelemetryConfig `toml:"telemetryConfig"`
}

var (
	config     *Config
	configOnce sync.Once
)

// Default 返回未加载任何文件时的默认配置
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName:                "ClerkMCP",
			Host:                   "0.0.0.0",
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
		},
		CorsConfig: CorsConfig{
			AllowOrigins:  []string{"*"},
			MaxAgeSeconds: 86400,
		},
		LogConfig: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
		},
		MCPConfig: MCPConfig{
			Name:         "clerk-mcp-server",
			Version:      "1.0.0",
			EndpointPath: "/mcp",
		},
		ClerkConfig: ClerkConfig{
			JWKSCacheTTLSeconds: 3600,
		},
		TelemetryConfig: TelemetryConfig{
			ServiceName:     "clerk-mcp-server",
			TracingExporter: "none",
			MetricsExporter: "prometheus",
			SamplePct:       100,
			MetricsPath:     "/metrics",
		},
	}
}

// Load 读取 path 指定的 TOML 文件并叠加环境变量。文件不存在时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig 加载全局配置
func LoadConfig() error {
	path := DefaultConfigPath
	if p, ok := os.LookupEnv("CLERK_MCP_CONFIG"); ok && p != "" {
		path = p
	}
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// GetConfig 返回全局配置，首次调用时加载
func GetConfig() *Config {
	configOnce.Do(func() {
		if config != nil {
			return
		}
		if err := LoadConfig(); err != nil {
			config = Default()
		}
	})
	return config
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CLERK_SECRET_KEY", &c.ClerkConfig.SecretKey)
	str("CLERK_PUBLISHABLE_KEY", &c.ClerkConfig.PublishableKey)
	str("CLERK_API_URL", &c.ClerkConfig.APIURL)
	str("CLERK_FRONTEND_API_URL", &c.ClerkConfig.FrontendAPIURL)
	str("HOST", &c.MainConfig.Host)
	str("PUBLIC_URL", &c.MainConfig.PublicURL)

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.MainConfig.Port = port
	}
	return nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	var missing []string
	if c.ClerkConfig.SecretKey == "" {
		missing = append(missing, "CLERK_SECRET_KEY")
	}
	if c.ClerkConfig.PublishableKey == "" {
		missing = append(missing, "CLERK_PUBLISHABLE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.ClerkConfig.FrontendAPIURL == "" {
		if _, err := clerkauth.FrontendAPIURL(c.ClerkConfig.PublishableKey); err != nil {
			return fmt.Errorf("CLERK_PUBLISHABLE_KEY: %w", err)
		}
	}
	if c.MainConfig.Port <= 0 || c.MainConfig.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.MainConfig.Port)
	}
	if c.TLSConfig.Enabled && (c.TLSConfig.CertFile == "" || c.TLSConfig.KeyFile == "") {
		return errors.New("tls enabled but certFile or keyFile is empty")
	}
	return nil
}

// FrontendAPI 返回 Clerk Frontend API 地址，优先使用显式配置
func (c *Config) FrontendAPI() (string, error) {
	if c.ClerkConfig.FrontendAPIURL != "" {
		return strings.TrimRight(c.ClerkConfig.FrontendAPIURL, "/"), nil
	}
	return clerkauth.FrontendAPIURL(c.ClerkConfig.PublishableKey)
}

// Addr 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.MainConfig.Host, c.MainConfig.Port)
}
