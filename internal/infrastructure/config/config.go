package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvHTTPPort HTTP 端口环境变量
	EnvHTTPPort = "TASKLIVE_HTTP_PORT"
	// EnvDBDriver 数据库驱动环境变量（sqlite / mysql）
	EnvDBDriver = "TASKLIVE_DB_DRIVER"
	// EnvDBDSN 数据库连接串环境变量（mysql 使用）
	EnvDBDSN = "TASKLIVE_DB_DSN"

	// ConfigFileName 数据目录下的可选配置文件
	ConfigFileName = "config.yaml"
	// DefaultDBFileName 默认 SQLite 数据库文件名
	DefaultDBFileName = "tasklive.db"
)

// 支持的数据库驱动
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Watch     WatchConfig     `yaml:"watch"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，同时用于单例锁
	// MCPEnabled 是否在 /mcp/sse 暴露 MCP 工具
	MCPEnabled bool `yaml:"mcp_enabled"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	// Path SQLite 数据库文件路径，留空表示 <数据目录>/tasklive.db
	Path string `yaml:"path"`
	// DSN mysql 连接串，例如 user:pass@tcp(127.0.0.1:3306)/tasklive
	DSN string `yaml:"dsn"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
	// SendQueueSize 每个连接待发送快照的缓冲数
	SendQueueSize int `yaml:"send_queue_size"`
}

// WatchConfig 数据库文件监听配置
type WatchConfig struct {
	Enabled       bool          `yaml:"enabled"`
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// DiscoveryConfig 局域网 mDNS 广播配置
type DiscoveryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	InstanceName string `yaml:"instance_name"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:   ":19970",
			MCPEnabled: true,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "", // 空表示使用数据目录
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendQueueSize:   16,
		},
		Watch: WatchConfig{
			Enabled:       true,
			DebounceDelay: 300 * time.Millisecond,
		},
		Discovery: DiscoveryConfig{
			Enabled:      false,
			InstanceName: "tasklive",
		},
	}
	cfg.applyEnv()
	return cfg
}

// applyEnv 环境变量优先级高于默认值与配置文件
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = port
	}
	if driver := os.Getenv(EnvDBDriver); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv(EnvDBDSN); dsn != "" {
		c.Database.DSN = dsn
	}
}

// Load 读取 YAML 配置文件并覆盖到默认配置上
// 文件不存在时返回默认配置
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverMySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverMySQL)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.HTTPPort == "" {
		return errors.New("server.http_port must not be empty")
	}
	return nil
}

// ProvideConfig 从数据目录加载配置
func ProvideConfig() (*Config, error) {
	return Load(filepath.Join(GetDataDir(), ConfigFileName))
}

// DBPath SQLite 数据库文件路径
func (d *DatabaseConfig) DBPath() string {
	if d.Path != "" {
		return d.Path
	}
	return filepath.Join(GetDataDir(), DefaultDBFileName)
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}

// NewWatchConfig 创建数据库文件监听配置
func NewWatchConfig(cfg *Config) *WatchConfig {
	return &cfg.Watch
}

// NewDiscoveryConfig 创建 mDNS 广播配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}
