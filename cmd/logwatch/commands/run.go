package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/livp123/logwatch/internal/app"
	"github.com/livp123/logwatch/internal/config"
	"github.com/livp123/logwatch/internal/metrics"
	"github.com/livp123/logwatch/internal/runtime"
	"github.com/livp123/logwatch/internal/utils/logger"
	errs "github.com/livp123/logwatch/pkg/errors"
	"github.com/spf13/cobra"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, match and write an incident note (default command)",
	// Short: 读取、匹配并写入事件记录（默认命令）
	Args: cobra.NoArgs,
	RunE: runIncident,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the incident note instead of writing it")
}

// runIncident performs one run and records its exit code.
// runIncident 执行一次运行并记录退出码。
func runIncident(cmd *cobra.Command, _ []string) error {
	cfgPath := config.ResolvePath(runtime.ConfigPath)
	opts := app.Options{
		DryRun:  dryRun,
		Metrics: metrics.NewRecorder(),
		OnConfig: func(ctx context.Context, cfg *config.Config) context.Context {
			// Re-initialize logger from config
			// 根据配置重新初始化日志
			logger.Init(cfg.Logging)
			return logger.WithContext(ctx, logger.Get(nil))
		},
	}

	res := app.Execute(cmd.Context(), cfgPath, opts)
	exitCode = res.ExitCode()
	return report(cmd.OutOrStdout(), cfgPath, res)
}

// report prints the operator-facing outcome of a run.
// report 打印面向操作员的运行结果。
func report(w io.Writer, cfgPath string, res app.Result) error {
	if runtime.OutputFormat == "json" {
		data, err := json.MarshalIndent(res.Summary(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	switch res.Outcome {
	case app.OutcomeConfigError:
		printConfigError(w, cfgPath, res.Err)
	case app.OutcomeFetchFailed:
		fmt.Fprintf(w, "Failed to read log from: %s\n", res.Source)
		fmt.Fprintf(w, "Error: %v\n", res.Err)
	case app.OutcomeNoLines:
		fmt.Fprintf(w, "No log lines read from: %s\n", res.Source)
	case app.OutcomeNoHits:
		fmt.Fprintln(w, "No incident patterns matched.")
	case app.OutcomeIncidentRendered:
		_, err := w.Write(res.Document)
		return err
	case app.OutcomeIncidentWritten:
		fmt.Fprintf(w, "Wrote incident note: %s\n", res.IncidentPath)
	case app.OutcomeWriteFailed:
		fmt.Fprintf(w, "Failed to write incident note: %v\n", res.Err)
	}
	return nil
}

// printConfigError explains a configuration failure and how to recover from it.
// printConfigError 说明配置错误以及恢复方法。
func printConfigError(w io.Writer, cfgPath string, err error) {
	switch {
	case errors.Is(err, errs.ErrConfigNotFound):
		fmt.Fprintf(w, "Config not found: %s (copy %s -> %s)\n", cfgPath, config.ExampleConfigPath, config.DefaultConfigPath)
	case errors.Is(err, errs.ErrConfigSyntax):
		fmt.Fprintf(w, "Failed to parse config file: %s\n", cfgPath)
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintf(w, "Hint: Overwrite %s with %s and retry\n", config.DefaultConfigPath, config.ExampleConfigPath)
	default:
		fmt.Fprintf(w, "Invalid config: %s\n", cfgPath)
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
