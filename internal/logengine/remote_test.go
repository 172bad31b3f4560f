package logengine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/livp123/logwatch/internal/config"
	errs "github.com/livp123/logwatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records the command it was asked to run and returns a canned result
// fakeRunner 记录收到的命令并返回预设结果
type fakeRunner struct {
	out      CommandOutput
	err      error
	commands []string
}

func (f *fakeRunner) Run(_ context.Context, command string) (CommandOutput, error) {
	f.commands = append(f.commands, command)
	return f.out, f.err
}

// TestRemoteCommandSource_Success tests splitting stdout into ordered lines
// TestRemoteCommandSource_Success 测试将标准输出拆分为有序的行
func TestRemoteCommandSource_Success(t *testing.T) {
	runner := &fakeRunner{out: CommandOutput{Stdout: "one\n\nthree\r\n"}}
	src := NewRemoteCommandSource("deploy", "web-1", "/var/log/app.log", runner)

	got, err := src.FetchTail(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "", "three"}, got)
	assert.Equal(t, []string{"tail -n 50 -- '/var/log/app.log'"}, runner.commands)
	assert.Equal(t, "deploy@web-1:/var/log/app.log", src.Identity())
}

// TestRemoteCommandSource_CapsToLimit tests that extra output is trimmed from the front
// TestRemoteCommandSource_CapsToLimit 测试多余的输出会从前面截掉
func TestRemoteCommandSource_CapsToLimit(t *testing.T) {
	runner := &fakeRunner{out: CommandOutput{Stdout: "a\nb\nc\nd\n"}}
	src := NewRemoteCommandSource("u", "h", "/l", runner)

	got, err := src.FetchTail(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, got)
}

func TestRemoteCommandSource_EmptyOutput(t *testing.T) {
	src := NewRemoteCommandSource("u", "h", "/l", &fakeRunner{})

	got, err := src.FetchTail(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestRemoteCommandSource_NonZeroExit tests FetchError messages for non-zero exits
// TestRemoteCommandSource_NonZeroExit 测试非零退出时的 FetchError 信息
func TestRemoteCommandSource_NonZeroExit(t *testing.T) {
	tests := []struct {
		name    string
		out     CommandOutput
		wantMsg string
	}{
		{
			name:    "Diagnostic text is trimmed",
			out:     CommandOutput{Stderr: "  ssh: Could not resolve hostname nowhere: Name or service not known\n", ExitCode: 255},
			wantMsg: "ssh: Could not resolve hostname nowhere: Name or service not known",
		},
		{
			name:    "Blank diagnostic falls back",
			out:     CommandOutput{Stderr: " \n", ExitCode: 3},
			wantMsg: "remote command exited with code 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewRemoteCommandSource("u", "nowhere", "/l", &fakeRunner{out: tt.out})

			got, err := src.FetchTail(context.Background(), 10)
			assert.Nil(t, got)
			require.Error(t, err)

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.wantMsg, fetchErr.Message)
			assert.Equal(t, tt.out.ExitCode, fetchErr.ExitCode)
			assert.Equal(t, "u@nowhere:/l", fetchErr.Identity)
			assert.ErrorIs(t, err, errs.ErrTransport)
		})
	}
}

// TestRemoteCommandSource_MissingFile tests that a missing remote file is an error,
// unlike the local source which returns no lines.
// TestRemoteCommandSource_MissingFile 测试远程文件不存在时返回错误，与本地源不同。
func TestRemoteCommandSource_MissingFile(t *testing.T) {
	runner := &fakeRunner{out: CommandOutput{
		Stderr:   "tail: cannot open '/var/log/nope.log' for reading: No such file or directory\n",
		ExitCode: 1,
	}}
	src := NewRemoteCommandSource("u", "h", "/var/log/nope.log", runner)

	_, err := src.FetchTail(context.Background(), 10)
	assert.ErrorIs(t, err, errs.ErrTransport)
}

// TestRemoteCommandSource_RunnerError tests a transport that cannot run at all
// TestRemoteCommandSource_RunnerError 测试传输层完全无法执行的情况
func TestRemoteCommandSource_RunnerError(t *testing.T) {
	src := NewRemoteCommandSource("u", "h", "/l", &fakeRunner{err: errors.New("exec: \"ssh\": executable file not found in $PATH")})

	_, err := src.FetchTail(context.Background(), 10)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, -1, fetchErr.ExitCode)
	assert.Contains(t, fetchErr.Message, "executable file not found")
}

func TestBuildTailCommand(t *testing.T) {
	assert.Equal(t, "tail -n 200 -- '/var/log/app.log'", BuildTailCommand("/var/log/app.log", 200))
	assert.Equal(t, `tail -n 5 -- '/tmp/it'\''s; rm -rf ~'`, BuildTailCommand("/tmp/it's; rm -rf ~", 5))
}

// TestExecSSHRunner_Args tests the ssh argument vector
// TestExecSSHRunner_Args 测试 ssh 参数
func TestExecSSHRunner_Args(t *testing.T) {
	r := &ExecSSHRunner{User: "deploy", Host: "web-1", Port: 22}
	assert.Equal(t, []string{
		"-o", "BatchMode=yes", "-o", "LogLevel=ERROR",
		"--", "deploy@web-1", "tail -n 1 -- '/l'",
	}, r.Args("tail -n 1 -- '/l'"))

	r = &ExecSSHRunner{User: "deploy", Host: "web-1", Port: 2222, KeyFile: "/keys/id"}
	assert.Equal(t, []string{
		"-o", "BatchMode=yes", "-o", "LogLevel=ERROR",
		"-p", "2222", "-i", "/keys/id",
		"--", "deploy@web-1", "true",
	}, r.Args("true"))
}

// fakeSSH writes an executable shell script standing in for the ssh binary
// fakeSSH 写入一个替代 ssh 命令的可执行脚本
func fakeSSH(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ssh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	return path
}

// TestExecSSHRunner_Run tests exit status and output capture through a fake ssh
// TestExecSSHRunner_Run 测试通过伪 ssh 捕获退出状态与输出
func TestExecSSHRunner_Run(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := &ExecSSHRunner{User: "u", Host: "h", Binary: fakeSSH(t, "printf 'x\\ny\\n'\n")}
		out, err := r.Run(context.Background(), "tail -n 2 -- '/l'")
		require.NoError(t, err)
		assert.Equal(t, 0, out.ExitCode)
		assert.Equal(t, "x\ny\n", out.Stdout)
	})

	t.Run("Unreachable host", func(t *testing.T) {
		r := &ExecSSHRunner{User: "u", Host: "h", Binary: fakeSSH(t, "echo 'ssh: connect to host h port 22: Connection refused' >&2\nexit 255\n")}
		out, err := r.Run(context.Background(), "tail -n 2 -- '/l'")
		require.NoError(t, err)
		assert.Equal(t, 255, out.ExitCode)
		assert.Contains(t, out.Stderr, "Connection refused")
	})

	t.Run("Missing binary", func(t *testing.T) {
		r := &ExecSSHRunner{User: "u", Host: "h", Binary: filepath.Join(t.TempDir(), "no-ssh")}
		_, err := r.Run(context.Background(), "true")
		assert.Error(t, err)
	})
}

// TestNewCommandRunner tests transport selection
// TestNewCommandRunner 测试传输方式选择
func TestNewCommandRunner(t *testing.T) {
	r, err := NewCommandRunner(&config.RemoteConfig{User: "u", Host: "h", Transport: config.TransportExec})
	require.NoError(t, err)
	assert.IsType(t, &ExecSSHRunner{}, r)

	r, err = NewCommandRunner(&config.RemoteConfig{User: "u", Host: "h", Transport: config.TransportNative, KeyFile: "/k"})
	require.NoError(t, err)
	assert.IsType(t, &NativeSSHRunner{}, r)

	_, err = NewCommandRunner(&config.RemoteConfig{Transport: "telnet"})
	assert.ErrorIs(t, err, errs.ErrConfigInvalid)
	assert.Contains(t, err.Error(), "field=remote.transport value=telnet")
}

// TestExecSSHRunner_OptionLikeUser tests that a user starting with "-" stays the destination
// TestExecSSHRunner_OptionLikeUser 测试以 "-" 开头的用户名仍作为目标地址
func TestExecSSHRunner_OptionLikeUser(t *testing.T) {
	r := &ExecSSHRunner{User: "-oProxyCommand=touch /tmp/x", Host: "h"}
	args := r.Args("true")

	require.GreaterOrEqual(t, len(args), 3)
	assert.Equal(t, []string{"--", "-oProxyCommand=touch /tmp/x@h", "true"}, args[len(args)-3:])
}

// TestNativeSSHRunner_BadKey tests that an unreadable key fails before dialing
// TestNativeSSHRunner_BadKey 测试私钥无法读取时在连接前失败
func TestNativeSSHRunner_BadKey(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a key"), 0600))

	r := &NativeSSHRunner{User: "u", Host: "127.0.0.1", Port: 1, KeyFile: keyPath}
	_, err := r.Run(context.Background(), "true")
	assert.ErrorContains(t, err, "failed to parse key file")

	r.KeyFile = filepath.Join(dir, "absent")
	_, err = r.Run(context.Background(), "true")
	assert.ErrorContains(t, err, "failed to read key file")
}

// TestNewSource tests variant selection from configuration
// TestNewSource 测试根据配置选择日志源
func TestNewSource(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = "/var/log/app.log"
	src, err := NewSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalFileSource{}, src)

	cfg.Remote = &config.RemoteConfig{User: "u", Host: "h", LogFile: "/r.log", Port: 22, Transport: config.TransportExec}
	src, err = NewSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &RemoteCommandSource{}, src)
	assert.Equal(t, "u@h:/r.log", src.Identity())

	_, err = NewSource(&config.Config{})
	assert.ErrorIs(t, err, errs.ErrNoLogTarget)
}
