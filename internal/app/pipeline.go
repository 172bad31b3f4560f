package app

import (
	"context"
	"time"

	"github.com/livp123/logwatch/internal/config"
	"github.com/livp123/logwatch/internal/incident"
	"github.com/livp123/logwatch/internal/logengine"
	"github.com/livp123/logwatch/internal/metrics"
	"github.com/livp123/logwatch/internal/utils/logger"
)

// MaxIncidentHits bounds how many hits a single note lists.
// MaxIncidentHits 限制单份记录列出的命中数量。
const MaxIncidentHits = 10

// Options tune a run without changing the configuration file.
// Options 在不修改配置文件的情况下调整运行行为。
type Options struct {
	DryRun  bool
	Metrics *metrics.Recorder
	Now     func() time.Time
	// OnConfig runs once the configuration has loaded, before the source is built. The returned
	// context is used for the rest of the run.
	// OnConfig 在配置加载完成、日志源构建之前调用，返回的 context 用于后续运行。
	OnConfig func(ctx context.Context, cfg *config.Config) context.Context
}

// Pipeline wires LogSource -> Matcher -> IncidentWriter for one run.
// Pipeline 为单次运行连接 LogSource -> Matcher -> IncidentWriter。
type Pipeline struct {
	Source    logengine.LogSource
	Patterns  *logengine.PatternSet
	Writer    *incident.Writer
	Metrics   *metrics.Recorder
	TailLines int
	DryRun    bool
}

// New builds a Pipeline from validated configuration. Pattern compilation and source selection
// happen here, once; any failure is a configuration error.
// New 根据已验证的配置构建 Pipeline。模式编译与日志源选择只在此处进行一次；任何失败都属于配置错误。
func New(cfg *config.Config, opts Options) (*Pipeline, error) {
	patterns, err := logengine.CompilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	source, err := logengine.NewSource(cfg)
	if err != nil {
		return nil, err
	}

	writer := incident.NewWriter(cfg.PostmortemsDir, cfg.UniqueNames)
	if opts.Now != nil {
		writer.Now = opts.Now
	}

	return &Pipeline{
		Source:    source,
		Patterns:  patterns,
		Writer:    writer,
		Metrics:   opts.Metrics,
		TailLines: cfg.TailLines,
		DryRun:    opts.DryRun,
	}, nil
}

// Run fetches, matches and, when something matched, writes one incident note.
// Run 读取、匹配，并在有命中时写入一份事件记录。
func (p *Pipeline) Run(ctx context.Context) Result {
	log := logger.Get(ctx)
	res := Result{Source: p.Source.Identity()}

	lines, err := p.Source.FetchTail(ctx, p.TailLines)
	if err != nil {
		log.Errorf("[FETCH] Failed to read %s: %v", res.Source, err)
		res.Outcome = OutcomeFetchFailed
		res.Err = err
		return res
	}
	res.Lines = len(lines)
	p.Metrics.ObserveLines(len(lines))
	log.Debugf("[FETCH] Read %d lines (limit %d) from %s", len(lines), p.TailLines, res.Source)

	if len(lines) == 0 {
		res.Outcome = OutcomeNoLines
		return res
	}

	hits := logengine.FindMatches(lines, p.Patterns)
	res.TotalHits = len(hits)
	for _, h := range hits {
		p.Metrics.ObserveHit(h.Pattern.Name)
	}
	log.Debugf("[MATCH] %d hits from %d patterns", len(hits), p.Patterns.Len())

	if len(hits) == 0 {
		res.Outcome = OutcomeNoHits
		return res
	}

	if len(hits) > MaxIncidentHits {
		hits = hits[:MaxIncidentHits]
	}
	res.Hits = hits
	res.Title = hits[0].Pattern.Name

	rec := p.Writer.NewRecord(res.Title, res.Source, lines, hits)
	if p.DryRun {
		res.Document = incident.Render(rec)
		res.Outcome = OutcomeIncidentRendered
		return res
	}

	path, err := p.Writer.WriteRecord(ctx, rec)
	if err != nil {
		log.Errorf("[INCIDENT] %v", err)
		res.Outcome = OutcomeWriteFailed
		res.Err = err
		return res
	}
	res.IncidentPath = path
	res.Outcome = OutcomeIncidentWritten
	log.Infof("[INCIDENT] %q: %d of %d hits written to %s", res.Title, len(hits), res.TotalHits, path)
	return res
}

// Execute runs the whole state machine starting from a configuration path:
// load, select source, fetch, match and write.
// Execute 从配置路径开始运行完整的状态机：加载、选择日志源、读取、匹配与写入。
func Execute(ctx context.Context, cfgPath string, opts Options) Result {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return ConfigFailure(ctx, opts, err)
	}
	if opts.OnConfig != nil {
		ctx = opts.OnConfig(ctx, cfg)
	}
	return ExecuteConfig(ctx, cfg, opts)
}

// ExecuteConfig runs everything after the configuration has been loaded.
// ExecuteConfig 在配置加载完成后执行其余步骤。
func ExecuteConfig(ctx context.Context, cfg *config.Config, opts Options) Result {
	p, err := New(cfg, opts)
	if err != nil {
		res := ConfigFailure(ctx, opts, err)
		res.Source = cfg.SourceIdentity()
		return res
	}

	res := finish(opts, p.Run(ctx))
	if err := opts.Metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Get(ctx).Warnf("[METRICS] Failed to write %s: %v", cfg.Metrics.Textfile, err)
	}
	return res
}

// ConfigFailure is the result of a run that stopped before any fetch.
// ConfigFailure 表示在读取日志之前就停止的运行结果。
func ConfigFailure(ctx context.Context, opts Options, err error) Result {
	logger.Get(ctx).Debugf("[CONFIG] %v", err)
	return finish(opts, Result{Outcome: OutcomeConfigError, Err: err})
}

func finish(opts Options, res Result) Result {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	opts.Metrics.ObserveOutcome(string(res.Outcome), now())
	return res
}
