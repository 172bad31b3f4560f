package incident

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/livp123/logwatch/internal/logengine"
	errs "github.com/livp123/logwatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func hit(t *testing.T, name, match, line string) logengine.Hit {
	t.Helper()
	p, err := logengine.NewPattern(name, match, "")
	require.NoError(t, err)
	return logengine.Hit{Pattern: p, Line: line}
}

// TestRender tests the full document layout
// TestRender 测试完整的文档布局
func TestRender(t *testing.T) {
	rec := Record{
		Title:          "DiskFull",
		Timestamp:      fixedTime,
		SourceIdentity: "/var/log/app.log",
		Hits:           []logengine.Hit{hit(t, "DiskFull", "ERROR disk full", "2024 ERROR disk full")},
		Context:        []string{"2024 OK", "", "2024 ERROR disk full"},
	}

	want := strings.Join([]string{
		"# Incident: DiskFull",
		"",
		"- Time: 2024-03-09T14:05:07Z",
		"- Log: `/var/log/app.log`",
		"",
		"## Detected signals",
		"- **DiskFull**: `2024 ERROR disk full`",
		"",
		"## Context (tail)",
		"```log",
		"2024 OK",
		"",
		"2024 ERROR disk full",
		"```",
		"",
		"## Next steps",
		"- Add runbook steps you took in `docs/04_Runbook.md`.",
		"- If this repeats, add a new detection pattern in `agent/config.yaml`.",
	}, "\n") + "\n"

	assert.Equal(t, want, string(Render(rec)))
}

// TestRender_NoHits tests the placeholder for an empty hit list
// TestRender_NoHits 测试命中列表为空时的占位符
func TestRender_NoHits(t *testing.T) {
	out := string(Render(Record{Title: "Manual", Timestamp: fixedTime, SourceIdentity: "x"}))
	assert.Contains(t, out, "## Detected signals\n- (none)\n\n")
	assert.Contains(t, out, "```log\n```\n")
	assert.True(t, strings.HasSuffix(out, "`agent/config.yaml`.\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

// TestRender_Deterministic tests that equal records render to equal bytes
// TestRender_Deterministic 测试相同记录渲染出相同字节
func TestRender_Deterministic(t *testing.T) {
	rec := Record{
		Title:          "Same",
		Timestamp:      fixedTime,
		SourceIdentity: "deploy@web-1:/var/log/app.log",
		Hits:           []logengine.Hit{hit(t, "Same", "x", "x1"), hit(t, "Other", "x", "x2")},
		Context:        []string{"x1", "x2"},
	}
	assert.Equal(t, Render(rec), Render(rec))
}

// TestRender_Literal tests that markdown-significant text is not escaped
// TestRender_Literal 测试 markdown 特殊字符不会被转义
func TestRender_Literal(t *testing.T) {
	rec := Record{
		Title:          "A *b* `c`",
		Timestamp:      fixedTime,
		SourceIdentity: "p",
		Hits:           []logengine.Hit{hit(t, "**x**", "x", "a `x` b")},
		Context:        []string{"a `x` b"},
	}
	out := string(Render(rec))
	assert.Contains(t, out, "# Incident: A *b* `c`\n")
	assert.Contains(t, out, "- ****x****: `a `x` b`\n")
}

// TestWriter_Write tests file name, directory creation and content
// TestWriter_Write 测试文件名、目录创建及内容
func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "05_Postmortems")
	w := &Writer{Dir: dir, Now: fixedClock}

	path, err := w.Write(context.Background(), "Disk Full", "/var/log/app.log",
		[]string{"ok", "ERROR disk full"},
		[]logengine.Hit{hit(t, "Disk Full", "disk full", "ERROR disk full")})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2024-03-09_14-05-07_Disk_Full.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Incident: Disk Full\n")
	assert.Contains(t, string(data), "- **Disk Full**: `ERROR disk full`\n")
	assert.Contains(t, string(data), "ok\nERROR disk full\n```")
}

// TestWriter_SameSecondCollision tests that the later note replaces the earlier one
// TestWriter_SameSecondCollision 测试同一秒内后写入的记录覆盖先前的记录
func TestWriter_SameSecondCollision(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Now: fixedClock}

	first, err := w.Write(context.Background(), "Dup", "src", []string{"first"}, nil)
	require.NoError(t, err)
	second, err := w.Write(context.Background(), "Dup", "src", []string{"second"}, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "first")
}

// TestWriter_UniqueNames tests the opt-in ULID suffix
// TestWriter_UniqueNames 测试可选的 ULID 后缀
func TestWriter_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Now: fixedClock, UniqueNames: true}

	first, err := w.Write(context.Background(), "Dup", "src", nil, nil)
	require.NoError(t, err)
	second, err := w.Write(context.Background(), "Dup", "src", nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	pattern := regexp.MustCompile(`^2024-03-09_14-05-07_Dup_[0-9A-HJKMNP-TV-Z]{26}\.md$`)
	assert.Regexp(t, pattern, filepath.Base(first))
	assert.Regexp(t, pattern, filepath.Base(second))
}

// TestWriter_TitleWithSeparator tests that a slash in the title cannot escape the directory
// TestWriter_TitleWithSeparator 测试标题中的斜杠不会逃出输出目录
func TestWriter_TitleWithSeparator(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, Now: fixedClock}

	path, err := w.Write(context.Background(), "../etc/passwd", "src", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "2024-03-09_14-05-07_.._etc_passwd.md", filepath.Base(path))
}

// TestWriter_TitleWithBackslash tests that backslashes are replaced on every platform
// TestWriter_TitleWithBackslash 测试反斜杠在所有平台上都会被替换
func TestWriter_TitleWithBackslash(t *testing.T) {
	w := &Writer{Dir: t.TempDir(), Now: fixedClock}

	rec := w.NewRecord(`..\win dows\x`, "src", nil, nil)
	assert.Equal(t, "2024-03-09_14-05-07_.._win_dows_x.md", w.Filename(rec))
}

// TestWriter_WriteError tests that an unwritable directory surfaces ErrWriteFailed
// TestWriter_WriteError 测试目录不可写时返回 ErrWriteFailed
func TestWriter_WriteError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0500))
	t.Cleanup(func() { os.Chmod(parent, 0755) })

	w := &Writer{Dir: filepath.Join(parent, "child"), Now: fixedClock}
	_, err := w.Write(context.Background(), "X", "src", nil, nil)
	assert.ErrorIs(t, err, errs.ErrWriteFailed)
}

func TestNewRecord_TruncatesToSecond(t *testing.T) {
	w := &Writer{Now: func() time.Time { return fixedTime.Add(750 * time.Millisecond) }}
	rec := w.NewRecord("T", "src", nil, nil)
	assert.Equal(t, fixedTime, rec.Timestamp)
}
