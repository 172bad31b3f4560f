package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/livp123/logwatch/internal/utils/logger"
	errs "github.com/livp123/logwatch/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the validated, strongly-typed form of the agent configuration file.
// Config 是代理配置文件经过验证的强类型形式。
type Config struct {
	// LogFile: 本地模式下的日志文件路径
	LogFile string `yaml:"log_file"`
	// Remote: 远程模式目标，存在时优先于 LogFile
	Remote *RemoteConfig `yaml:"remote"`
	// TailLines: 每次运行读取的末尾行数
	TailLines int `yaml:"tail_lines"`
	// PostmortemsDir: 事件记录输出目录
	PostmortemsDir string `yaml:"postmortems_dir"`
	// UniqueNames: 为文件名追加 ULID 后缀，避免同一秒内的覆盖
	UniqueNames bool                 `yaml:"unique_names"`
	Patterns    []PatternConfig      `yaml:"patterns"`
	Metrics     MetricsConfig        `yaml:"metrics"`
	Logging     logger.LoggingConfig `yaml:"logging"`
}

// RemoteConfig describes a log file read over SSH.
// RemoteConfig 描述通过 SSH 读取的日志文件。
type RemoteConfig struct {
	User    string `yaml:"user"`
	Host    string `yaml:"host"`
	LogFile string `yaml:"log_file"`
	Port    int    `yaml:"port"`
	// KeyFile: SSH 私钥路径（native 传输必填）
	KeyFile string `yaml:"key_file"`
	// Transport: "exec"（系统 ssh 命令，默认）或 "native"（内置 SSH 客户端）
	Transport string `yaml:"transport"`
	// KnownHosts: native 传输使用的 known_hosts 文件，为空时不校验主机密钥
	KnownHosts string `yaml:"known_hosts"`
}

// PatternConfig is one named detection rule as written in the config file.
// PatternConfig 是配置文件中的一条命名检测规则。
type PatternConfig struct {
	Name  string `yaml:"name"`
	Match string `yaml:"match"`
	// When: 可选的 expr 布尔表达式，正则匹配后再次过滤
	When string `yaml:"when"`

	matchMissing bool
}

// UnmarshalYAML records whether the match key was present, so an explicit empty
// expression (which matches every line) can be told apart from a forgotten one.
// UnmarshalYAML 记录 match 键是否存在，以区分显式的空表达式（匹配所有行）与遗漏的键。
func (p *PatternConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain PatternConfig
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.matchMissing = true
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "match" {
			p.matchMissing = false
			break
		}
	}
	return nil
}

// MetricsConfig controls the optional node_exporter textfile output.
// MetricsConfig 控制可选的 node_exporter 文本文件输出。
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// IsRemote reports whether the configuration selects the remote source.
// IsRemote 报告配置是否选择远程日志源。
func (c *Config) IsRemote() bool {
	return c.Remote != nil
}

// SourceIdentity returns the human-readable origin of the log: a path or user@host:path.
// SourceIdentity 返回日志来源的可读描述：本地路径或 user@host:path。
func (c *Config) SourceIdentity() string {
	if c.Remote != nil {
		return fmt.Sprintf("%s@%s:%s", c.Remote.User, c.Remote.Host, c.Remote.LogFile)
	}
	return c.LogFile
}

// Default returns a configuration populated with default values and no log target.
// Default 返回填充了默认值但没有日志目标的配置。
func Default() Config {
	return Config{
		TailLines:      DefaultTailLines,
		PostmortemsDir: DefaultPostmortemsDir,
		Logging: logger.LoggingConfig{
			Level:      "info",
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			MaxAge:     30, // 30 days
			Compress:   true,
		},
	}
}

// Load reads, parses and validates the configuration file at path.
// Every failure wraps one of ErrConfigNotFound, ErrConfigSyntax or ErrConfigInvalid.
// Load 读取、解析并验证 path 处的配置文件。
func Load(path string) (*Config, error) {
	safePath := filepath.Clean(path)
	data, err := os.ReadFile(safePath) // #nosec G304 // path is sanitized with filepath.Clean
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewConfigNotFoundError(path)
		}
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrConfigInvalid, path, err)
	}
	return Parse(path, data)
}

// Parse decodes raw YAML on top of the defaults and validates the result.
// Parse 在默认值之上解码 YAML 并验证结果。
func Parse(path string, data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.NewSyntaxError(path, err)
	}

	if cfg.Remote != nil {
		if cfg.Remote.Port == 0 {
			cfg.Remote.Port = DefaultSSHPort
		}
		if cfg.Remote.Transport == "" {
			cfg.Remote.Transport = TransportExec
		}
	}

	if result := NewConfigValidator().Validate(&cfg); !result.Valid {
		return nil, result.Err()
	}
	return &cfg, nil
}
