package incident

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/livp123/logwatch/internal/logengine"
	"github.com/livp123/logwatch/internal/utils/fileutil"
	"github.com/livp123/logwatch/internal/utils/logger"
	errs "github.com/livp123/logwatch/pkg/errors"
	"github.com/oklog/ulid/v2"
)

// Writer persists incident notes into Dir.
// Two notes with the same title in the same second share a file name and the later one wins,
// unless UniqueNames is set.
// Writer 将事件记录写入 Dir。同一秒内同名的记录会共享文件名，后写入者覆盖，除非设置了 UniqueNames。
type Writer struct {
	Dir         string
	UniqueNames bool
	Now         func() time.Time
}

// NewWriter creates a Writer for dir using the wall clock.
func NewWriter(dir string, uniqueNames bool) *Writer {
	return &Writer{
		Dir:         dir,
		UniqueNames: uniqueNames,
		Now:         time.Now,
	}
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// NewRecord stamps a Record with the writer's clock at second resolution.
// NewRecord 使用写入器的时钟（秒级精度）构建 Record。
func (w *Writer) NewRecord(title, sourceIdentity string, contextLines []string, hits []logengine.Hit) Record {
	return Record{
		Title:          title,
		Timestamp:      w.now().Truncate(time.Second),
		SourceIdentity: sourceIdentity,
		Hits:           hits,
		Context:        contextLines,
	}
}

// Write renders and persists a note, returning its full path. The directory is created on
// demand and the file is replaced atomically, so a partial note is never visible.
// Write 渲染并保存事件记录，返回完整路径。目录按需创建，文件以原子方式替换，不会出现不完整的记录。
func (w *Writer) Write(ctx context.Context, title, sourceIdentity string, contextLines []string, hits []logengine.Hit) (string, error) {
	return w.WriteRecord(ctx, w.NewRecord(title, sourceIdentity, contextLines, hits))
}

// WriteRecord persists an already-built Record.
// WriteRecord 保存已构建的 Record。
func (w *Writer) WriteRecord(ctx context.Context, rec Record) (string, error) {
	if err := fileutil.EnsureDir(w.Dir); err != nil {
		return "", errs.NewWriteError(w.Dir, err)
	}

	path := filepath.Join(w.Dir, w.Filename(rec))
	if err := fileutil.AtomicWriteFile(path, Render(rec), 0644); err != nil {
		return "", errs.NewWriteError(path, err)
	}

	logger.Get(ctx).Debugf("[INCIDENT] Wrote %d hits and %d context lines to %s", len(rec.Hits), len(rec.Context), path)
	return path, nil
}

// Filename derives <timestamp>_<title>.md, with spaces and path separators in the title
// replaced by underscores.
// Filename 生成 <时间戳>_<标题>.md，标题中的空格与路径分隔符替换为下划线。
func (w *Writer) Filename(rec Record) string {
	name := rec.Timestamp.Format(FilenameTimeFormat) + "_" + sanitizeTitle(rec.Title)
	if w.UniqueNames {
		name += "_" + ulid.Make().String()
	}
	return name + ".md"
}

func sanitizeTitle(title string) string {
	return strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(title)
}
