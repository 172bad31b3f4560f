package config

const (
	// DefaultConfigPath is used when neither the --config flag nor AGENT_CONFIG is set.
	// DefaultConfigPath 在未设置 --config 标志和 AGENT_CONFIG 时使用。
	DefaultConfigPath = "agent/config.yaml"

	// ExampleConfigPath is the template operators copy to DefaultConfigPath.
	// ExampleConfigPath 是操作员复制到 DefaultConfigPath 的模板。
	ExampleConfigPath = "agent/config.example.yaml"

	// ConfigPathEnv names the environment variable that overrides the default config path.
	// ConfigPathEnv 是覆盖默认配置路径的环境变量名。
	ConfigPathEnv = "AGENT_CONFIG"

	DefaultTailLines      = 200
	DefaultPostmortemsDir = "docs/05_Postmortems"
	DefaultSSHPort        = 22

	TransportExec   = "exec"
	TransportNative = "native"
)
