package store

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/five82/pulsar/internal/entity"
)

// Env is the environment filter expressions are evaluated against, e.g.
// `level == "error" && label contains "auth"` or `is_task && status >= 500`.
type Env struct {
	Level      string `expr:"level"`
	Severity   int    `expr:"severity"`
	Label      string `expr:"label"`
	Text       string `expr:"text"`
	Pinned     bool   `expr:"pinned"`
	IsTask     bool   `expr:"is_task"`
	Method     string `expr:"method"`
	URL        string `expr:"url"`
	Host       string `expr:"host"`
	Status     int    `expr:"status"`
	State      string `expr:"state"`
	ErrorCode  int    `expr:"error_code"`
	DurationMS int64  `expr:"duration_ms"`
}

// EnvOf flattens an entity into a filter environment.
func EnvOf(e entity.Entity) Env {
	env := Env{
		Level:    e.Level.String(),
		Severity: int(e.Level),
		Label:    e.Label,
		Text:     e.Text,
		Pinned:   e.Pinned,
		IsTask:   e.IsTask(),
	}
	if t := e.Task; t != nil {
		env.Method = t.Method
		env.URL = t.URL
		env.Host = t.Host()
		env.Status = t.StatusCode
		env.State = t.State.String()
		env.ErrorCode = t.ErrorCode
		env.DurationMS = t.Duration.Milliseconds()
	}
	return env
}

// Filter is a compiled filter expression. A nil Filter matches everything.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a boolean expression over Env. A blank source
// yields a nil Filter.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidFilter, source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter for e. Evaluation errors count as no match.
func (f *Filter) Match(e entity.Entity) bool {
	if f == nil {
		return true
	}
	out, err := expr.Run(f.program, EnvOf(e))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
