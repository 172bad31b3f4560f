package commands

import (
	"fmt"

	"github.com/livp123/logwatch/internal/app"
	"github.com/livp123/logwatch/internal/config"
	"github.com/livp123/logwatch/internal/logengine"
	"github.com/livp123/logwatch/internal/runtime"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration without reading any log",
	// Short: 校验配置，不读取日志
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfgPath := config.ResolvePath(runtime.ConfigPath)

		cfg, err := config.Load(cfgPath)
		if err == nil {
			_, err = logengine.CompilePatterns(cfg.Patterns)
		}
		if err != nil {
			exitCode = app.ExitConfigError
			printConfigError(out, cfgPath, err)
			return nil
		}

		exitCode = app.ExitOK
		fmt.Fprintf(out, "Config OK: %s\n", cfgPath)
		fmt.Fprintf(out, "Source: %s\n", cfg.SourceIdentity())
		fmt.Fprintf(out, "Patterns: %d\n", len(cfg.Patterns))
		return nil
	},
}
