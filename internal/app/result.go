package app

import (
	"github.com/livp123/logwatch/internal/logengine"
)

// Outcome is the terminal state of one run.
// Outcome 是单次运行的终止状态。
type Outcome string

const (
	OutcomeConfigError      Outcome = "config_error"
	OutcomeFetchFailed      Outcome = "fetch_failed"
	OutcomeNoLines          Outcome = "no_lines"
	OutcomeNoHits           Outcome = "no_hits"
	OutcomeIncidentWritten  Outcome = "incident_written"
	OutcomeIncidentRendered Outcome = "incident_rendered" // dry run
	OutcomeWriteFailed      Outcome = "write_failed"
)

// Process exit codes.
// 进程退出码。
const (
	ExitOK          = 0
	ExitNothingDone = 1
	ExitConfigError = 2
)

// ExitCode maps an outcome to the process exit status. It is the only place that does so.
// ExitCode 将结果映射为进程退出码，这是唯一进行此映射的地方。
func ExitCode(o Outcome) int {
	switch o {
	case OutcomeNoHits, OutcomeIncidentWritten, OutcomeIncidentRendered:
		return ExitOK
	case OutcomeConfigError:
		return ExitConfigError
	default:
		return ExitNothingDone
	}
}

// Result describes what a run did.
// Result 描述一次运行的结果。
type Result struct {
	Outcome Outcome
	Source  string
	Lines   int
	// TotalHits counts every hit; Hits holds at most MaxIncidentHits of them.
	// TotalHits 统计全部命中；Hits 最多保留 MaxIncidentHits 个。
	TotalHits    int
	Hits         []logengine.Hit
	Title        string
	IncidentPath string
	Document     []byte // rendered note, set on dry runs
	Err          error
}

// ExitCode returns the exit status for the result's outcome.
func (r Result) ExitCode() int {
	return ExitCode(r.Outcome)
}

// Summary is the JSON view of a Result.
// Summary 是 Result 的 JSON 视图。
type Summary struct {
	Outcome      Outcome      `json:"outcome"`
	ExitCode     int          `json:"exit_code"`
	Source       string       `json:"source,omitempty"`
	Lines        int          `json:"lines"`
	TotalHits    int          `json:"total_hits"`
	Title        string       `json:"title,omitempty"`
	Hits         []SummaryHit `json:"hits"`
	IncidentPath string       `json:"incident_path,omitempty"`
	Document     string       `json:"document,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// SummaryHit is one hit in a Summary.
type SummaryHit struct {
	Pattern string `json:"pattern"`
	Line    string `json:"line"`
}

// Summary flattens the result for machine-readable output.
// Summary 将结果展平为机器可读的形式。
func (r Result) Summary() Summary {
	s := Summary{
		Outcome:      r.Outcome,
		ExitCode:     r.ExitCode(),
		Source:       r.Source,
		Lines:        r.Lines,
		TotalHits:    r.TotalHits,
		Title:        r.Title,
		Hits:         make([]SummaryHit, 0, len(r.Hits)),
		IncidentPath: r.IncidentPath,
		Document:     string(r.Document),
	}
	for _, h := range r.Hits {
		s.Hits = append(s.Hits, SummaryHit{Pattern: h.Pattern.Name, Line: h.Line})
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}
