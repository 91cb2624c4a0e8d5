package field

import "strings"

// Kind identifies the role a field plays inside a tree.
type Kind string

const (
	KindInput   Kind = "input"
	KindFile    Kind = "file"
	KindTabs    Kind = "tabs"
	KindTab     Kind = "tab"
	KindSection Kind = "section"
)

// Visibility controls how a file field is persisted on its disk.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Field describes a single node of a form tree. Leaf fields (inputs and files)
// are addressed by Name; containers (tabs, tab, section) are addressed by ID.
// Struct tags allow trees to be declared in JSON or YAML files.
type Field struct {
	ID          string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Kind        Kind       `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type        string     `json:"type,omitempty" yaml:"type,omitempty"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string     `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     any        `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Rules       []string   `json:"rules,omitempty" yaml:"rules,omitempty"`
	Disk        string     `json:"disk,omitempty" yaml:"disk,omitempty"`
	Directory   string     `json:"directory,omitempty" yaml:"directory,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Children    []Field    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Key returns the identifier used to address the field inside its tree.
func (f Field) Key() string {
	if f.IsContainer() {
		if id := strings.TrimSpace(f.ID); id != "" {
			return id
		}
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		return name
	}
	return strings.TrimSpace(f.ID)
}

// IsContainer reports whether the field only groups descendants.
func (f Field) IsContainer() bool {
	switch f.Kind {
	case KindTabs, KindTab, KindSection:
		return true
	default:
		return false
	}
}

// IsInput reports whether the field holds a value that can be validated.
// File fields are input-capable.
func (f Field) IsInput() bool {
	return f.Kind == KindInput || f.Kind == KindFile
}

// IsFile reports whether the field accepts uploads.
func (f Field) IsFile() bool { return f.Kind == KindFile }

// IsTab reports whether the field is a single tab inside a tabs container.
func (f Field) IsTab() bool { return f.Kind == KindTab }

// HasDefault reports whether the field declares a default value.
func (f Field) HasDefault() bool { return f.Default != nil }

// IsPublic reports whether uploads for the field are stored publicly.
func (f Field) IsPublic() bool { return f.Visibility == VisibilityPublic }

// Input declares a plain input field.
func Input(name string) Field {
	return Field{Name: name, Kind: KindInput, Type: "text"}
}

// Email declares an email input field.
func Email(name string) Field {
	return Field{Name: name, Kind: KindInput, Type: "email"}
}

// Password declares a password input field.
func Password(name string) Field {
	return Field{Name: name, Kind: KindInput, Type: "password"}
}

// Checkbox declares a boolean input field.
func Checkbox(name string) Field {
	return Field{Name: name, Kind: KindInput, Type: "checkbox"}
}

// Select declares an input constrained to the supplied options.
func Select(name string, options ...string) Field {
	return Field{Name: name, Kind: KindInput, Type: "select", Options: options}
}

// File declares an upload field stored privately on the default disk.
func File(name string) Field {
	return Field{Name: name, Kind: KindFile, Type: "file", Visibility: VisibilityPrivate}
}

// Tabs declares a container whose children are Tab fields.
func Tabs(id string, tabs ...Field) Field {
	return Field{ID: id, Kind: KindTabs, Children: tabs}
}

// Tab declares a single tab holding the supplied children.
func Tab(id, label string, children ...Field) Field {
	return Field{ID: id, Kind: KindTab, Label: label, Children: children}
}

// Section declares a non-tab grouping container.
func Section(id, label string, children ...Field) Field {
	return Field{ID: id, Kind: KindSection, Label: label, Children: children}
}

// WithLabel sets the human label.
func (f Field) WithLabel(label string) Field {
	f.Label = label
	return f
}

// WithHelp sets the help text shown beneath the control.
func (f Field) WithHelp(help string) Field {
	f.Help = help
	return f
}

// WithPlaceholder sets the placeholder text.
func (f Field) WithPlaceholder(placeholder string) Field {
	f.Placeholder = placeholder
	return f
}

// WithDefault declares the default value used when the form is reset.
func (f Field) WithDefault(value any) Field {
	f.Default = value
	return f
}

// WithRules appends validation constraints.
func (f Field) WithRules(rules ...string) Field {
	f.Rules = append(append([]string(nil), f.Rules...), rules...)
	return f
}

// WithType overrides the input type hint.
func (f Field) WithType(inputType string) Field {
	f.Type = inputType
	return f
}

// OnDisk selects the disk uploads are persisted to.
func (f Field) OnDisk(disk string) Field {
	f.Disk = disk
	return f
}

// InDirectory selects the directory uploads are persisted to.
func (f Field) InDirectory(directory string) Field {
	f.Directory = directory
	return f
}

// WithVisibility selects how uploads are persisted.
func (f Field) WithVisibility(visibility Visibility) Field {
	f.Visibility = visibility
	return f
}

// Public is shorthand for WithVisibility(VisibilityPublic).
func (f Field) Public() Field {
	return f.WithVisibility(VisibilityPublic)
}
