package runtime

// ConfigPath stores the path to the configuration file provided via CLI flags.
// ConfigPath 存储通过 CLI 标志提供的配置文件路径。
var ConfigPath string

// OutputFormat selects how the run summary is printed: "text" (default) or "json".
// OutputFormat 选择运行摘要的输出格式："text"（默认）或 "json"。
var OutputFormat = "text"
