package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formwire/internal/labels"
)

// File is the view of an upload that file rules inspect.
type File interface {
	Size() int64
	MimeType() string
	Extension() string
}

// FileRule reports whether file satisfies the rule with the given parameter.
type FileRule func(file File, param string) bool

// Option configures an Engine.
type Option func(*Engine)

// WithValidate reuses an existing go-playground validator instance.
func WithValidate(v *validator.Validate) Option {
	return func(e *Engine) {
		if v != nil {
			e.validate = v
		}
	}
}

// WithMessages overrides message templates keyed by rule name (optionally
// suffixed with ".string", ".numeric" or ".file").
func WithMessages(messages map[string]string) Option {
	return func(e *Engine) {
		for k, v := range messages {
			e.messages[k] = v
		}
	}
}

// WithFileRule registers a rule applied when the value under validation is a
// File.
func WithFileRule(name string, rule FileRule) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" && rule != nil {
			e.fileRules[name] = rule
		}
	}
}

// Engine evaluates rule lists with go-playground/validator. Rules use the
// validator tag syntax ("max=255"); "max:255" is accepted as well. Values that
// implement File are checked against file rules instead, where size limits are
// expressed in kilobytes.
//
// Empty values only run when the field is "required"; a failed "required"
// stops evaluation of the remaining rules for that field.
type Engine struct {
	validate  *validator.Validate
	fileRules map[string]FileRule
	messages  map[string]string
}

var _ Validator = (*Engine)(nil)

// New returns an Engine with the built-in file rules and messages.
func New(options ...Option) *Engine {
	e := &Engine{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		fileRules: defaultFileRules(),
		messages:  defaultMessages(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// RegisterRule adds a custom scalar rule to the underlying validator.
func (e *Engine) RegisterRule(name string, fn validator.Func) error {
	if err := e.validate.RegisterValidation(name, fn); err != nil {
		return fmt.Errorf("validation: register rule %q: %w", name, err)
	}
	return nil
}

// Validate implements Validator.
func (e *Engine) Validate(ctx context.Context, data Data, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if data == nil {
		data = MapData{}
	}

	keys := make([]string, 0, len(req.Rules))
	for key := range req.Rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bag := NewErrorBag()
	failed := make(map[string][]string)

	for _, key := range keys {
		value, present := data.Get(key)
		rules := normaliseRules(req.Rules[key])
		if hasRule(rules, "sometimes") && !present {
			continue
		}
		empty := isEmpty(value)
		if empty && !hasRule(rules, "required") {
			continue
		}

		for _, raw := range rules {
			name, param := splitRule(raw)
			switch name {
			case "", "nullable", "sometimes", "bail":
				continue
			}

			ok, err := e.check(value, empty, name, param)
			if err != nil {
				return fmt.Errorf("validation: field %q: %w", key, err)
			}
			if ok {
				continue
			}

			failed[key] = append(failed[key], name)
			bag.Add(key, e.message(key, name, param, value, req))
			if name == "required" || hasRule(rules, "bail") {
				break
			}
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return NewFailure(bag, failed)
}

func (e *Engine) check(value any, empty bool, name, param string) (ok bool, err error) {
	if name == "required" {
		return !empty, nil
	}

	if file, isFile := value.(File); isFile {
		rule, known := e.fileRules[name]
		if !known {
			return false, fmt.Errorf("rule %q cannot be applied to files", name)
		}
		return rule(file, param), nil
	}
	if name == "file" || name == "image" || name == "mimes" || name == "mimetypes" {
		return false, nil
	}

	tag := name
	if param != "" {
		tag += "=" + param
	}

	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("rule %q: %v", tag, r)
		}
	}()

	if verr := e.validate.Var(value, tag); verr != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(verr, &fieldErrs) {
			return false, nil
		}
		return false, fmt.Errorf("rule %q: %w", tag, verr)
	}
	return true, nil
}

func (e *Engine) message(key, rule, param string, value any, req Request) string {
	template := ""
	candidates := []string{key + "." + rule, rule}
	for _, c := range candidates {
		if msg, ok := req.Messages[c]; ok {
			template = msg
			break
		}
	}
	if template == "" {
		template = e.messages[rule+"."+valueKind(value)]
	}
	if template == "" {
		template = e.messages[rule]
	}
	if template == "" {
		template = e.messages["default"]
	}

	attribute := req.Attributes[key]
	if attribute == "" {
		attribute = labels.Default(key)
	}
	return strings.NewReplacer(":attribute", attribute, ":param", strings.ReplaceAll(param, " ", ", ")).Replace(template)
}

func valueKind(value any) string {
	if _, ok := value.(File); ok {
		return "file"
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "numeric"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "array"
	default:
		return ""
	}
}

func normaliseRules(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, SplitRules(r)...)
	}
	return out
}

func splitRule(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "="); idx >= 0 {
		return raw[:idx], raw[idx+1:]
	}
	if idx := strings.Index(raw, ":"); idx >= 0 {
		return raw[:idx], raw[idx+1:]
	}
	return raw, ""
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if n, _ := splitRule(r); n == name {
			return true
		}
	}
	return false
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

func defaultFileRules() map[string]FileRule {
	kilobytes := func(param string) (int64, bool) {
		n, err := strconv.ParseFloat(strings.TrimSpace(param), 64)
		if err != nil {
			return 0, false
		}
		return int64(n * 1024), true
	}
	return map[string]FileRule{
		"file": func(File, string) bool { return true },
		"image": func(f File, _ string) bool {
			return strings.HasPrefix(f.MimeType(), "image/")
		},
		"mimes": func(f File, param string) bool {
			return listContains(param, f.Extension())
		},
		"mimetypes": func(f File, param string) bool {
			return listContains(param, f.MimeType())
		},
		"max": func(f File, param string) bool {
			limit, ok := kilobytes(param)
			return ok && f.Size() <= limit
		},
		"min": func(f File, param string) bool {
			limit, ok := kilobytes(param)
			return ok && f.Size() >= limit
		},
	}
}

func listContains(list, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, item := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' }) {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == value || (strings.HasSuffix(item, "/*") && strings.HasPrefix(value, strings.TrimSuffix(item, "*"))) {
			return true
		}
	}
	return false
}

func defaultMessages() map[string]string {
	return map[string]string{
		"default":        "The :attribute is invalid.",
		"required":       "The :attribute field is required.",
		"email":          "The :attribute must be a valid email address.",
		"url":            "The :attribute must be a valid URL.",
		"uuid":           "The :attribute must be a valid UUID.",
		"numeric":        "The :attribute must be a number.",
		"boolean":        "The :attribute field must be true or false.",
		"alpha":          "The :attribute may only contain letters.",
		"alphanum":       "The :attribute may only contain letters and numbers.",
		"oneof":          "The selected :attribute is invalid.",
		"min.string":     "The :attribute must be at least :param characters.",
		"min.numeric":    "The :attribute must be at least :param.",
		"min.array":      "The :attribute must have at least :param items.",
		"min.file":       "The :attribute must be at least :param kilobytes.",
		"max.string":     "The :attribute must not be greater than :param characters.",
		"max.numeric":    "The :attribute must not be greater than :param.",
		"max.array":      "The :attribute must not have more than :param items.",
		"max.file":       "The :attribute must not be greater than :param kilobytes.",
		"len.string":     "The :attribute must be :param characters.",
		"file":           "The :attribute must be a file.",
		"image":          "The :attribute must be an image.",
		"mimes":          "The :attribute must be a file of type: :param.",
		"mimetypes":      "The :attribute must be a file of type: :param.",
		"gte":            "The :attribute must be greater than or equal to :param.",
		"lte":            "The :attribute must be less than or equal to :param.",
		"startswith":     "The :attribute must start with :param.",
		"endswith":       "The :attribute must end with :param.",
		"contains":       "The :attribute must contain :param.",
		"excludes":       "The :attribute must not contain :param.",
		"datetime":       "The :attribute does not match the format :param.",
		"e164":           "The :attribute must be a valid phone number.",
		"hexcolor":       "The :attribute must be a valid hex colour.",
		"ip":             "The :attribute must be a valid IP address.",
		"lowercase":      "The :attribute must be lowercase.",
		"uppercase":      "The :attribute must be uppercase.",
		"ascii":          "The :attribute must only contain ASCII characters.",
	}
}
