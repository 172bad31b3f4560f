package config

import (
	"fmt"
	"regexp"
	"strings"

	errs "github.com/livp123/logwatch/pkg/errors"
)

// ValidationError represents a single validation error.
// ValidationError 表示单个验证错误。
type ValidationError struct {
	Field   string `json:"field"`   // Field path (e.g., "remote.host")
	Message string `json:"message"` // Error message
	Value   any    `json:"value"`   // The invalid value (optional)
}

func (e ValidationError) String() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationResult contains all validation errors.
// ValidationResult 包含所有验证错误。
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// AddError adds a validation error.
// AddError 添加验证错误。
func (r *ValidationResult) AddError(field, message string, value any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
	r.Valid = false
}

// Err folds all collected errors into one error wrapping ErrConfigInvalid, or nil when valid.
// Err 将所有错误合并为一个包装 ErrConfigInvalid 的错误，有效时返回 nil。
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", errs.ErrConfigInvalid, strings.Join(msgs, "; "))
}

// ConfigValidator checks a decoded Config before any log is fetched.
// ConfigValidator 在读取任何日志之前检查解码后的配置。
type ConfigValidator struct {
	MaxPort int
}

// NewConfigValidator creates a new ConfigValidator with default limits.
// NewConfigValidator 创建具有默认限制的新 ConfigValidator。
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		MaxPort: 65535,
	}
}

// Validate validates the entire configuration.
// Validate 验证整个配置。
func (v *ConfigValidator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{Valid: true, Errors: []ValidationError{}}

	v.validateTarget(cfg, result)
	v.validatePatterns(cfg.Patterns, result)

	if cfg.TailLines <= 0 {
		result.AddError("tail_lines", "Tail line count must be positive", cfg.TailLines)
	}
	if strings.TrimSpace(cfg.PostmortemsDir) == "" {
		result.AddError("postmortems_dir", "Incident directory is required", nil)
	}

	return result
}

// validateTarget checks that exactly one usable log target is configured.
// validateTarget 检查是否配置了可用的日志目标。
func (v *ConfigValidator) validateTarget(cfg *Config, result *ValidationResult) {
	if cfg.Remote == nil {
		if strings.TrimSpace(cfg.LogFile) == "" {
			result.AddError("log_file", errs.ErrNoLogTarget.Error(), nil)
		}
		return
	}

	r := cfg.Remote
	if r.User == "" {
		result.AddError("remote.user", "Remote user is required", nil)
	}
	if r.Host == "" {
		result.AddError("remote.host", "Remote host is required", nil)
	}
	if r.LogFile == "" {
		result.AddError("remote.log_file", "Remote log path is required", nil)
	}
	if r.Port < 1 || r.Port > v.MaxPort {
		result.AddError("remote.port",
			fmt.Sprintf("Port must be between 1 and %d", v.MaxPort), r.Port)
	}

	switch r.Transport {
	case TransportExec:
	case TransportNative:
		if r.KeyFile == "" {
			result.AddError("remote.key_file", "Native transport requires a private key file", nil)
		}
	default:
		result.AddError("remote.transport",
			fmt.Sprintf("Transport must be one of: %s, %s", TransportExec, TransportNative), r.Transport)
	}
}

// validatePatterns checks every pattern entry; one bad entry rejects the whole configuration.
// validatePatterns 检查每个模式条目；任意条目无效都会拒绝整个配置。
func (v *ConfigValidator) validatePatterns(patterns []PatternConfig, result *ValidationResult) {
	for i, p := range patterns {
		fieldPrefix := fmt.Sprintf("patterns[%d]", i)

		if strings.TrimSpace(p.Name) == "" {
			result.AddError(fieldPrefix+".name", "Pattern name is required", nil)
		}

		if p.matchMissing {
			result.AddError(fieldPrefix+".match", "Pattern match expression is required", nil)
		} else if _, err := regexp.Compile(p.Match); err != nil {
			result.AddError(fieldPrefix+".match",
				fmt.Sprintf("Invalid regex: %v", err), p.Match)
		}
	}
}
