package logengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"

	"github.com/livp123/logwatch/internal/config"
	"github.com/livp123/logwatch/internal/utils/fileutil"
	errs "github.com/livp123/logwatch/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// NewCommandRunner builds the transport named by the remote configuration.
// NewCommandRunner 根据远程配置构建对应的传输实现。
func NewCommandRunner(cfg *config.RemoteConfig) (CommandRunner, error) {
	switch cfg.Transport {
	case "", config.TransportExec:
		return &ExecSSHRunner{
			User:    cfg.User,
			Host:    cfg.Host,
			Port:    cfg.Port,
			KeyFile: fileutil.ExpandHome(cfg.KeyFile),
		}, nil
	case config.TransportNative:
		return &NativeSSHRunner{
			User:       cfg.User,
			Host:       cfg.Host,
			Port:       cfg.Port,
			KeyFile:    fileutil.ExpandHome(cfg.KeyFile),
			KnownHosts: fileutil.ExpandHome(cfg.KnownHosts),
		}, nil
	default:
		return nil, errs.NewConfigError("remote.transport", cfg.Transport)
	}
}

// ExecSSHRunner runs the command through the system ssh binary, so the operator's
// ssh_config, agent and known_hosts apply unchanged.
// ExecSSHRunner 通过系统 ssh 命令执行，沿用操作员的 ssh_config、agent 与 known_hosts。
type ExecSSHRunner struct {
	User    string
	Host    string
	Port    int
	KeyFile string
	Binary  string // defaults to "ssh"
}

// Args returns the ssh argument vector for command.
// Args 返回执行 command 所用的 ssh 参数。
func (r *ExecSSHRunner) Args(command string) []string {
	args := []string{
		"-o", "BatchMode=yes", // No password prompts
		"-o", "LogLevel=ERROR",
	}
	if r.Port != 0 && r.Port != config.DefaultSSHPort {
		args = append(args, "-p", strconv.Itoa(r.Port))
	}
	if r.KeyFile != "" {
		args = append(args, "-i", r.KeyFile)
	}
	// "--" keeps a destination starting with "-" from being read as an option
	return append(args, "--", fmt.Sprintf("%s@%s", r.User, r.Host), command)
}

// Run executes ssh and reports its exit status. Only a failure to start ssh is an error.
// Run 执行 ssh 并报告其退出状态。只有 ssh 无法启动时才返回错误。
func (r *ExecSSHRunner) Run(ctx context.Context, command string) (CommandOutput, error) {
	bin := r.Binary
	if bin == "" {
		bin = "ssh"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, r.Args(command)...) // #nosec G204 // arguments are built from validated config
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := CommandOutput{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("ssh command failed: %w", err)
	}
	return out, nil
}

// NativeSSHRunner runs the command with the in-process SSH client using public key auth.
// An empty KnownHosts disables host key verification.
// NativeSSHRunner 使用进程内 SSH 客户端和公钥认证执行命令。KnownHosts 为空时不校验主机密钥。
type NativeSSHRunner struct {
	User       string
	Host       string
	Port       int
	KeyFile    string
	KnownHosts string
}

func (r *NativeSSHRunner) clientConfig() (*ssh.ClientConfig, error) {
	key, err := os.ReadFile(r.KeyFile) // #nosec G304 // key path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %s: %w", r.KeyFile, err)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() // #nosec G106 // opt-in when known_hosts is unset
	if r.KnownHosts != "" {
		hostKeyCallback, err = knownhosts.New(r.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
	}, nil
}

// Run dials the host, runs command in a new session and reports its exit status.
// Run 连接主机，在新会话中执行命令并报告退出状态。
func (r *NativeSSHRunner) Run(ctx context.Context, command string) (CommandOutput, error) {
	clientCfg, err := r.clientConfig()
	if err != nil {
		return CommandOutput{}, err
	}

	port := r.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}
	addr := net.JoinHostPort(r.Host, strconv.Itoa(port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return CommandOutput{}, err
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		conn.Close()
		return CommandOutput{}, err
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandOutput{}, err
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	err = session.Run(command)
	out := CommandOutput{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitStatus()
			return out, nil
		}
		return out, err
	}
	return out, nil
}
