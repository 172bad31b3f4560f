package incident

import (
	"bytes"
	"fmt"
)

// Render produces the markdown document for rec. Text is inserted literally and the output
// ends with exactly one newline. Identical records render to identical bytes.
// Render 生成 rec 的 markdown 文档。文本按原样插入，输出以单个换行结尾。相同的记录渲染结果相同。
func Render(rec Record) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Incident: %s\n", rec.Title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Time: %s\n", rec.Timestamp.Format(DocumentTimeFormat))
	fmt.Fprintf(&b, "- Log: `%s`\n", rec.SourceIdentity)
	b.WriteString("\n")

	b.WriteString("## Detected signals\n")
	if len(rec.Hits) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, h := range rec.Hits {
		fmt.Fprintf(&b, "- **%s**: `%s`\n", h.Pattern.Name, h.Line)
	}
	b.WriteString("\n")

	b.WriteString("## Context (tail)\n")
	b.WriteString("```log\n")
	for _, line := range rec.Context {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	b.WriteString("\n")

	b.WriteString("## Next steps\n")
	for _, step := range NextSteps {
		fmt.Fprintf(&b, "- %s\n", step)
	}

	return b.Bytes()
}
