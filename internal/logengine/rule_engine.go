package logengine

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	json "github.com/goccy/go-json"
	"github.com/livp123/logwatch/internal/config"
	errs "github.com/livp123/logwatch/pkg/errors"
)

// Pattern is a compiled detection rule. Names are labels only and may repeat.
// Pattern 是编译后的检测规则。名称仅作标签，可以重复。
type Pattern struct {
	Name  string
	Match string
	When  string

	re    *regexp.Regexp
	guard *vm.Program
}

// PatternSet is an ordered list of compiled patterns. Declaration order is preserved.
// PatternSet 是有序的已编译模式列表，保留声明顺序。
type PatternSet struct {
	patterns []Pattern
}

// Env is the environment a "when" guard is evaluated against.
// Env 是 "when" 守卫表达式的求值环境。
type Env struct {
	Line string // The raw log line
	Name string // Name of the pattern being evaluated

	fields       []string
	fieldsParsed bool
}

// Fields returns the whitespace-separated fields of the line.
func (e *Env) Fields() []string {
	if !e.fieldsParsed {
		e.fields = bytes2strings(bytes.Fields([]byte(e.Line)))
		e.fieldsParsed = true
	}
	return e.fields
}

// Get returns the value following "key=" or "key:" in the line, unquoting double-quoted values.
// Get 返回行中 "key=" 或 "key:" 之后的值，并去除双引号。
func (e *Env) Get(key string) string {
	line := []byte(e.Line)
	idx := bytes.Index(line, []byte(key+"="))
	if idx == -1 {
		idx = bytes.Index(line, []byte(key+":"))
		if idx == -1 {
			return ""
		}
	}
	rest := bytes.TrimLeft(line[idx+len(key)+1:], " ")
	if len(rest) == 0 {
		return ""
	}

	if rest[0] == '"' {
		end := bytes.IndexByte(rest[1:], '"')
		if end == -1 {
			return string(rest[1:])
		}
		return string(rest[1 : end+1])
	}

	end := bytes.IndexByte(rest, ' ')
	if end == -1 {
		return string(rest)
	}
	return string(rest[:end])
}

// JSON parses the line as a JSON object, returning nil when it is not one.
// JSON 将日志行解析为 JSON 对象，解析失败时返回 nil。
func (e *Env) JSON() map[string]interface{} {
	var res map[string]interface{}
	if err := json.Unmarshal([]byte(e.Line), &res); err != nil {
		return nil
	}
	return res
}

func bytes2strings(parts [][]byte) []string {
	res := make([]string, len(parts))
	for i, part := range parts {
		res[i] = string(part)
	}
	return res
}

// CompilePatterns builds a PatternSet from configuration entries.
// The first entry that fails to compile rejects the whole set.
// CompilePatterns 从配置条目构建 PatternSet，任意条目编译失败都会拒绝整个集合。
func CompilePatterns(cfgs []config.PatternConfig) (*PatternSet, error) {
	patterns := make([]Pattern, 0, len(cfgs))
	for i, cfg := range cfgs {
		p, err := NewPattern(cfg.Name, cfg.Match, cfg.When)
		if err != nil {
			return nil, errs.NewPatternError(i, cfg.Name, err)
		}
		patterns = append(patterns, p)
	}
	return &PatternSet{patterns: patterns}, nil
}

// NewPattern compiles a single pattern. An empty when means the regex alone decides.
// NewPattern 编译单个模式。when 为空时仅由正则决定。
func NewPattern(name, match, when string) (Pattern, error) {
	if name == "" {
		return Pattern{}, fmt.Errorf("name is required")
	}
	re, err := regexp.Compile(match)
	if err != nil {
		return Pattern{}, err
	}

	p := Pattern{Name: name, Match: match, When: when, re: re}
	if when != "" {
		program, err := expr.Compile(when, expr.Env(&Env{}), expr.AsBool())
		if err != nil {
			return Pattern{}, fmt.Errorf("failed to compile guard: %v (expr: %s)", err, when)
		}
		p.guard = program
	}
	return p, nil
}

// Matches reports whether the pattern's regex finds a match anywhere in line and the
// optional guard accepts it. A guard that errors at runtime counts as no match.
// Matches 报告正则是否在行中任意位置匹配，且可选守卫表达式接受该行。运行时出错视为不匹配。
func (p Pattern) Matches(line string) bool {
	if p.re == nil || !p.re.MatchString(line) {
		return false
	}
	if p.guard == nil {
		return true
	}
	output, err := expr.Run(p.guard, &Env{Line: line, Name: p.Name})
	if err != nil {
		return false
	}
	matched, ok := output.(bool)
	return ok && matched
}

// Len returns the number of patterns in the set.
func (s *PatternSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Patterns returns the patterns in declaration order.
// Patterns 按声明顺序返回模式。
func (s *PatternSet) Patterns() []Pattern {
	if s == nil {
		return nil
	}
	return s.patterns
}
