package incident

import (
	"time"

	"github.com/livp123/logwatch/internal/logengine"
)

// Record is everything one incident note contains. It is built once and never mutated.
// Record 包含一份事件记录的全部内容，构建后不再修改。
type Record struct {
	Title          string
	Timestamp      time.Time
	SourceIdentity string
	Hits           []logengine.Hit
	Context        []string
}

const (
	// FilenameTimeFormat is the timestamp prefix of incident file names.
	// FilenameTimeFormat 是事件文件名的时间戳前缀格式。
	FilenameTimeFormat = "2006-01-02_15-04-05"

	// DocumentTimeFormat is the ISO-8601 timestamp written into the document.
	// DocumentTimeFormat 是写入文档的 ISO-8601 时间格式。
	DocumentTimeFormat = time.RFC3339
)

// NextSteps are the fixed guidance bullets closing every note.
// NextSteps 是每份记录末尾的固定指引。
var NextSteps = []string{
	"Add runbook steps you took in `docs/04_Runbook.md`.",
	"If this repeats, add a new detection pattern in `agent/config.yaml`.",
}
