package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/iam-in-go/pkg/logging"
)

const (
	DefaultConfigPath = "/etc/iam/config"
	ConfigFileName    = "iam.yml"
)

// IAMConfig holds all IAM server configuration settings
type IAMConfig struct {
	// TokenSigningKey is the HMAC secret access and refresh tokens are signed with
	TokenSigningKey string `yaml:"token_signing_key" json:"-"`

	// AccessTokenTTL is the lifetime of access tokens in seconds
	AccessTokenTTL int `yaml:"access_token_ttl" json:"access_token_ttl"`

	// RefreshTokenTTL is the lifetime of refresh tokens in seconds
	RefreshTokenTTL int `yaml:"refresh_token_ttl" json:"refresh_token_ttl"`

	// PageSizeMax caps the pageSize of listing requests
	PageSizeMax int `yaml:"page_size_max" json:"page_size_max"`

	// RemoteCallTimeout bounds each remote call of the client, in seconds
	RemoteCallTimeout int `yaml:"remote_call_timeout" json:"remote_call_timeout"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// MetricsEnabled exposes /metrics
	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	// TrustedProxies is a list of CIDR ranges whose X-Forwarded-For is honored
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *IAMConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *IAMConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// Default returns the built-in configuration, without file or environment
// overrides
func Default() *IAMConfig {
	return newDefault()
}

func newDefault() *IAMConfig {
	return &IAMConfig{
		AccessTokenTTL:    480,
		RefreshTokenTTL:   86400,
		PageSizeMax:       1000,
		RemoteCallTimeout: 30,
		LogLevel:          "info",
		LogFormat:         "json",
		MetricsEnabled:    true,
		TrustedProxies:    []string{},
		sources:           make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*IAMConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("IAM_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig fileIAMConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

// fileIAMConfig mirrors IAMConfig with a pointer for booleans so that an
// explicit false in the file is not mistaken for absence
type fileIAMConfig struct {
	TokenSigningKey   string   `yaml:"token_signing_key"`
	AccessTokenTTL    int      `yaml:"access_token_ttl"`
	RefreshTokenTTL   int      `yaml:"refresh_token_ttl"`
	PageSizeMax       int      `yaml:"page_size_max"`
	RemoteCallTimeout int      `yaml:"remote_call_timeout"`
	LogLevel          string   `yaml:"log_level"`
	LogFormat         string   `yaml:"log_format"`
	MetricsEnabled    *bool    `yaml:"metrics_enabled"`
	TrustedProxies    []string `yaml:"trusted_proxies"`
}

func attributeNames() []string {
	return []string{
		"token_signing_key", "access_token_ttl", "refresh_token_ttl",
		"page_size_max", "remote_call_timeout", "log_level", "log_format",
		"metrics_enabled", "trusted_proxies",
	}
}

func (c *IAMConfig) applyFileConfig(file *fileIAMConfig) {
	if file.TokenSigningKey != "" {
		c.TokenSigningKey = file.TokenSigningKey
		c.sources["token_signing_key"] = "file"
	}
	if file.AccessTokenTTL != 0 {
		c.AccessTokenTTL = file.AccessTokenTTL
		c.sources["access_token_ttl"] = "file"
	}
	if file.RefreshTokenTTL != 0 {
		c.RefreshTokenTTL = file.RefreshTokenTTL
		c.sources["refresh_token_ttl"] = "file"
	}
	if file.PageSizeMax != 0 {
		c.PageSizeMax = file.PageSizeMax
		c.sources["page_size_max"] = "file"
	}
	if file.RemoteCallTimeout != 0 {
		c.RemoteCallTimeout = file.RemoteCallTimeout
		c.sources["remote_call_timeout"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
		c.sources["log_format"] = "file"
	}
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = *file.MetricsEnabled
		c.sources["metrics_enabled"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *IAMConfig) applyEnvConfig() {
	if val := os.Getenv("IAM_TOKEN_SIGNING_KEY"); val != "" {
		c.TokenSigningKey = val
		c.sources["token_signing_key"] = "environment"
	}
	if val := os.Getenv("IAM_ACCESS_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AccessTokenTTL = i
			c.sources["access_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("IAM_REFRESH_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RefreshTokenTTL = i
			c.sources["refresh_token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("IAM_PAGE_SIZE_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.PageSizeMax = i
			c.sources["page_size_max"] = "environment"
		}
	}
	if val := os.Getenv("IAM_REMOTE_CALL_TIMEOUT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.RemoteCallTimeout = i
			c.sources["remote_call_timeout"] = "environment"
		}
	}
	if val := os.Getenv("IAM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("IAM_LOG_FORMAT"); val != "" {
		c.LogFormat = val
		c.sources["log_format"] = "environment"
	}
	if val := os.Getenv("IAM_METRICS_ENABLED"); val != "" {
		c.MetricsEnabled = val == "true" || val == "1"
		c.sources["metrics_enabled"] = "environment"
	}
	if val := os.Getenv("IAM_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *IAMConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *IAMConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// AccessTTL returns the access token lifetime
func (c *IAMConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Second
}

// RefreshTTL returns the refresh token lifetime
func (c *IAMConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * time.Second
}

// RemoteTimeout returns the per call timeout of the remote client
func (c *IAMConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteCallTimeout) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *IAMConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *IAMConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive, got %d", c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return fmt.Errorf("refresh_token_ttl (%d) must not be shorter than access_token_ttl (%d)", c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	if c.PageSizeMax <= 0 {
		return fmt.Errorf("page_size_max must be positive, got %d", c.PageSizeMax)
	}
	if c.RemoteCallTimeout <= 0 {
		return fmt.Errorf("remote_call_timeout must be positive, got %d", c.RemoteCallTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. The signing key is masked.
func (c *IAMConfig) Attributes() []Attribute {
	signingKey := ""
	if c.TokenSigningKey != "" {
		signingKey = "(set)"
	}
	return []Attribute{
		{Name: "token_signing_key", Value: signingKey, Source: c.Source("token_signing_key")},
		{Name: "access_token_ttl", Value: strconv.Itoa(c.AccessTokenTTL), Source: c.Source("access_token_ttl")},
		{Name: "refresh_token_ttl", Value: strconv.Itoa(c.RefreshTokenTTL), Source: c.Source("refresh_token_ttl")},
		{Name: "page_size_max", Value: strconv.Itoa(c.PageSizeMax), Source: c.Source("page_size_max")},
		{Name: "remote_call_timeout", Value: strconv.Itoa(c.RemoteCallTimeout), Source: c.Source("remote_call_timeout")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.MetricsEnabled), Source: c.Source("metrics_enabled")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *IAMConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *IAMConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
