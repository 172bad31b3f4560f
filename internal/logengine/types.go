package logengine

// Hit pairs a pattern with one line it matched. Hits live for a single run.
// Hit 将模式与其匹配到的一行日志配对，仅在单次运行中存在。
type Hit struct {
	Pattern Pattern
	Line    string
}
