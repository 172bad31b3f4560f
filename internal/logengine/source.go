package logengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/livp123/logwatch/internal/config"
	errs "github.com/livp123/logwatch/pkg/errors"
)

// LogSource fetches the most recent lines of a log, oldest retained line first.
// Implementations: LocalFileSource and RemoteCommandSource.
// LogSource 获取日志最近的若干行，最旧的行在前。实现：LocalFileSource 与 RemoteCommandSource。
type LogSource interface {
	// FetchTail returns at most limit lines; the count is min(limit, available lines).
	// FetchTail 最多返回 limit 行。
	FetchTail(ctx context.Context, limit int) ([]string, error)
	// Identity describes where the lines come from (path or user@host:path).
	// Identity 描述日志来源（路径或 user@host:path）。
	Identity() string
}

// FetchError reports a remote fetch that did not complete successfully.
// FetchError 表示远程读取未成功完成。
type FetchError struct {
	Identity string
	ExitCode int // -1 when the transport could not run the command at all
	Message  string
}

func (e *FetchError) Error() string {
	return e.Message
}

// Unwrap lets callers match FetchError with errors.Is(err, ErrTransport).
func (e *FetchError) Unwrap() error {
	return errs.ErrTransport
}

// newFetchError builds a FetchError from the transport's diagnostic text, falling back to a
// generic exit-code message when the text is blank.
// newFetchError 使用传输层的诊断文本构建 FetchError，文本为空时回退到通用的退出码信息。
func newFetchError(identity string, exitCode int, diagnostic string) *FetchError {
	msg := strings.TrimSpace(diagnostic)
	if msg == "" {
		msg = fmt.Sprintf("remote command exited with code %d", exitCode)
	}
	return &FetchError{Identity: identity, ExitCode: exitCode, Message: msg}
}

// NewSource selects the source variant once from validated configuration.
// A remote block wins over log_file.
// NewSource 根据已验证的配置一次性选择日志源，remote 优先于 log_file。
func NewSource(cfg *config.Config) (LogSource, error) {
	if cfg.IsRemote() {
		runner, err := NewCommandRunner(cfg.Remote)
		if err != nil {
			return nil, err
		}
		return NewRemoteCommandSource(cfg.Remote.User, cfg.Remote.Host, cfg.Remote.LogFile, runner), nil
	}
	if cfg.LogFile == "" {
		return nil, errs.ErrNoLogTarget
	}
	return NewLocalFileSource(cfg.LogFile), nil
}

// splitLines turns command output into lines, stripping one trailing terminator per line.
// splitLines 将命令输出拆分为行，并去除每行末尾的换行符。
func splitLines(out string) []string {
	if out == "" {
		return []string{}
	}
	out = strings.TrimSuffix(out, "\n")
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// lastN returns the final n elements of lines.
func lastN(lines []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}
