package commands

import (
	"fmt"
	"os"

	"github.com/livp123/logwatch/internal/app"
	"github.com/livp123/logwatch/internal/config"
	"github.com/livp123/logwatch/internal/runtime"
	"github.com/livp123/logwatch/internal/utils/logger"
	"github.com/spf13/cobra"
)

// exitCode is set by the command that ran and returned from Execute.
// exitCode 由实际运行的命令设置，并由 Execute 返回。
var exitCode = app.ExitOK

var RootCmd = &cobra.Command{
	Use:   "logwatch",
	Short: "Turn the tail of a log into an incident note",
	// Short: 将日志尾部转换为事件记录
	Long: `logwatch reads the last lines of a local or remote (SSH) log, matches them against
the configured patterns and writes a markdown incident note when anything matched.
logwatch 读取本地或远程（SSH）日志的最后若干行，按配置的模式进行匹配，
有命中时写入一份 markdown 事件记录。

Exit codes / 退出码:
  0  incident written, or nothing matched
  1  no log lines, remote fetch failed, or the note could not be written
  2  configuration error`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Console logging until the configuration is loaded
		// 在加载配置前使用控制台日志
		logger.Init(logger.LoggingConfig{Level: "info"})
		log := logger.Get(nil)

		if err := config.LoadDotEnv(); err != nil {
			log.Warnf("[CONFIG] Failed to load .env: %v", err)
		}

		switch runtime.OutputFormat {
		case "text", "json":
		default:
			return fmt.Errorf("unsupported output format %q (text|json)", runtime.OutputFormat)
		}

		// Inject logger into context
		// 将 Logger 注入 Context
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},
	Args: cobra.NoArgs,
	RunE: runIncident,
}

func init() {
	// Config file path
	// 配置文件路径
	RootCmd.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "",
		fmt.Sprintf("Path to configuration file (default: $%s or %s)", config.ConfigPathEnv, config.DefaultConfigPath))

	// Output format
	// 输出格式
	RootCmd.PersistentFlags().StringVarP(&runtime.OutputFormat, "output", "o", "text", "Output format: text or json")

	RootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the incident note instead of writing it")

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(versionCmd)

	RootCmd.CompletionOptions.DisableDescriptions = true
}

// Execute runs the CLI and returns the process exit code.
// Execute 运行命令行并返回进程退出码。
func Execute() int {
	defer func() { _ = logger.Sync() }()

	exitCode = app.ExitOK
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return app.ExitConfigError
	}
	return exitCode
}
