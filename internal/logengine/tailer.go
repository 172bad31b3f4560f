package logengine

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/nxadm/tail"
)

// LocalFileSource reads the tail of a file on the local filesystem.
// A missing file yields no lines rather than an error, unlike RemoteCommandSource.
// LocalFileSource 读取本地文件的末尾。文件不存在时返回空结果而非错误，与 RemoteCommandSource 不同。
type LocalFileSource struct {
	Path string
}

// NewLocalFileSource creates a LocalFileSource for path.
func NewLocalFileSource(path string) *LocalFileSource {
	return &LocalFileSource{Path: path}
}

// Identity returns the configured path.
func (s *LocalFileSource) Identity() string {
	return s.Path
}

// FetchTail reads the file once from the start without following it and keeps the last
// limit lines in a ring.
// FetchTail 从头读取文件一次（不跟随），并用环形缓冲保留最后 limit 行。
func (s *LocalFileSource) FetchTail(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := tail.TailFile(s.Path, tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	defer t.Cleanup()

	// Lines must be drained until the tailer closes it at EOF.
	// 必须持续读取 Lines，直到 tailer 在 EOF 时关闭它。
	var readErr error
	ring := newLineRing(limit)
	for line := range t.Lines {
		if line.Err != nil {
			if readErr == nil {
				readErr = line.Err
			}
			continue
		}
		ring.push(strings.ToValidUTF8(strings.TrimSuffix(line.Text, "\r"), "�"))
	}
	if err := t.Wait(); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}
	return ring.slice(), nil
}

// lineRing keeps the most recent cap lines pushed into it.
// lineRing 保留最近推入的 cap 行。
type lineRing struct {
	buf   []string
	start int
	full  bool
}

func newLineRing(capacity int) *lineRing {
	return &lineRing{buf: make([]string, 0, capacity)}
}

func (r *lineRing) push(line string) {
	if !r.full {
		r.buf = append(r.buf, line)
		r.full = len(r.buf) == cap(r.buf)
		return
	}
	r.buf[r.start] = line
	r.start = (r.start + 1) % len(r.buf)
}

// slice returns the retained lines oldest first.
func (r *lineRing) slice() []string {
	out := make([]string, 0, len(r.buf))
	out = append(out, r.buf[r.start:]...)
	out = append(out, r.buf[:r.start]...)
	return out
}
