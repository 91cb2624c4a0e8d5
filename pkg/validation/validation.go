package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Data exposes the values under validation by dotted path.
type Data interface {
	Get(path string) (any, bool)
}

// MapData adapts a flat map to Data.
type MapData map[string]any

// Get implements Data.
func (m MapData) Get(path string) (any, bool) {
	v, ok := m[path]
	return v, ok
}

// Request bundles everything a validator needs for a single pass.
type Request struct {
	Rules      map[string][]string
	Messages   map[string]string
	Attributes map[string]string
}

// Validator evaluates rules against data. It returns a *Failure when at least
// one rule fails and a plain error for misconfiguration (unknown rules).
type Validator interface {
	Validate(ctx context.Context, data Data, req Request) error
}

// Failure is returned when validation fails. It carries the rendered messages
// and the rule names that failed for every field.
type Failure struct {
	errors *ErrorBag
	failed map[string][]string
}

// NewFailure builds a failure from an error bag and the failed rules keyed by
// field.
func NewFailure(errors *ErrorBag, failed map[string][]string) *Failure {
	if errors == nil {
		errors = NewErrorBag()
	}
	cloned := make(map[string][]string, len(failed))
	for k, v := range failed {
		cloned[k] = append([]string(nil), v...)
	}
	return &Failure{errors: errors, failed: cloned}
}

// Error implements error.
func (f *Failure) Error() string {
	keys := f.errors.Keys()
	if len(keys) == 0 {
		return "validation: failed"
	}
	first := f.errors.First(keys[0])
	if len(keys) == 1 {
		return fmt.Sprintf("validation: %s", first)
	}
	return fmt.Sprintf("validation: %s (and %d more fields)", first, len(keys)-1)
}

// Errors returns the rendered messages.
func (f *Failure) Errors() *ErrorBag { return f.errors }

// Failed returns the failed rule names keyed by field.
func (f *Failure) Failed() map[string][]string {
	out := make(map[string][]string, len(f.failed))
	for k, v := range f.failed {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// HasFailed reports whether key has at least one failed rule.
func (f *Failure) HasFailed(key string) bool {
	_, ok := f.failed[key]
	return ok
}

// FailedFields returns the sorted keys of fields that failed.
func (f *Failure) FailedFields() []string {
	out := make([]string, 0, len(f.failed))
	for k := range f.failed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Rekey returns a copy of the failure with every key passed through fn.
func (f *Failure) Rekey(fn func(string) string) *Failure {
	failed := make(map[string][]string, len(f.failed))
	for k, v := range f.failed {
		key := fn(k)
		failed[key] = append(failed[key], v...)
	}
	return &Failure{errors: f.errors.Rekey(fn), failed: failed}
}

// SplitRules normalises a pipe-delimited rule string into a list.
func SplitRules(rules string) []string {
	parts := strings.Split(rules, "|")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FilterRules returns the rules whose key satisfies keep.
func FilterRules(rules map[string][]string, keep func(key string) bool) map[string][]string {
	out := make(map[string][]string)
	for key, constraints := range rules {
		if keep(key) {
			out[key] = append([]string(nil), constraints...)
		}
	}
	return out
}
