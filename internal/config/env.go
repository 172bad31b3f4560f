package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into the process
// environment without overriding variables that are already set. Missing files are ignored.
// LoadDotEnv 从指定文件（默认 ".env"）加载环境变量，不覆盖已设置的变量，文件不存在时忽略。
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ResolvePath picks the configuration path: explicit flag, then AGENT_CONFIG, then the default.
// ResolvePath 选择配置路径：显式标志优先，其次 AGENT_CONFIG，最后是默认值。
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		return env
	}
	return DefaultConfigPath
}
