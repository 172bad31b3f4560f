package logengine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CommandOutput is what a transport hands back after running one remote command.
// CommandOutput 是传输层执行一条远程命令后返回的结果。
type CommandOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes a single read-only command on the remote host.
// A non-nil error means the command could not be run or its status is unknown.
// CommandRunner 在远程主机上执行单条只读命令。返回非 nil 错误表示命令无法执行或状态未知。
type CommandRunner interface {
	Run(ctx context.Context, command string) (CommandOutput, error)
}

// RemoteCommandSource reads the tail of a file on another host through a CommandRunner.
// RemoteCommandSource 通过 CommandRunner 读取另一台主机上文件的末尾。
type RemoteCommandSource struct {
	User   string
	Host   string
	Path   string
	Runner CommandRunner
}

// NewRemoteCommandSource creates a RemoteCommandSource.
func NewRemoteCommandSource(user, host, path string, runner CommandRunner) *RemoteCommandSource {
	return &RemoteCommandSource{
		User:   user,
		Host:   host,
		Path:   path,
		Runner: runner,
	}
}

// Identity returns user@host:path.
func (s *RemoteCommandSource) Identity() string {
	return fmt.Sprintf("%s@%s:%s", s.User, s.Host, s.Path)
}

// FetchTail runs the tail command once, without retry. A non-zero exit status becomes a
// FetchError carrying the transport's diagnostic text.
// FetchTail 执行一次 tail 命令，不重试。非零退出状态转换为携带诊断文本的 FetchError。
func (s *RemoteCommandSource) FetchTail(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	out, err := s.Runner.Run(ctx, BuildTailCommand(s.Path, limit))
	if err != nil {
		diagnostic := out.Stderr
		if strings.TrimSpace(diagnostic) == "" {
			diagnostic = err.Error()
		}
		return nil, newFetchError(s.Identity(), -1, diagnostic)
	}
	if out.ExitCode != 0 {
		return nil, newFetchError(s.Identity(), out.ExitCode, out.Stderr)
	}
	return lastN(splitLines(out.Stdout), limit), nil
}

// BuildTailCommand renders the remote command. Only the path and the line count are
// interpolated, and the path is single-quoted for the remote shell.
// BuildTailCommand 生成远程命令。只插入路径和行数，路径会为远程 shell 加单引号。
func BuildTailCommand(path string, limit int) string {
	return "tail -n " + strconv.Itoa(limit) + " -- " + shellQuote(path)
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
