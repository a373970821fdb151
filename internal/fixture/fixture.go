// Package fixture loads gradual.yaml files: a class hierarchy with method
// signatures plus a list of queries against the type lattice.
//
// A fixture looks like:
//
//	version: v0.3.0
//	strict: false
//	classes:
//	  - name: Animal
//	    methods:
//	      - name: speak
//	        params:
//	          - {name: loud, type: true | false, optional: true}
//	        returns: String
//	  - name: Dog
//	    superclass: Animal
//	    include: [Comparable]
//	queries:
//	  - kind: subtype
//	    args: [Dog, Animal]
//	    expect: true
//	  - kind: call
//	    receiver: Dog | Integer
//	    method: speak
//	    errors: [D001]
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/source"
)

// Fixture is the top-level gradual.yaml document.
type Fixture struct {
	// Version is the gradual version the fixture was written for. Fixtures
	// from a newer version are rejected. Defaults to the running version.
	Version string `yaml:"version,omitempty"`

	// Strict turns on strict mode: calls on dynamic receivers are reported.
	Strict bool `yaml:"strict,omitempty"`

	// Workers bounds how many queries are evaluated concurrently.
	Workers int `yaml:"workers,omitempty"`

	Classes []ClassDecl `yaml:"classes,omitempty"`
	Queries []Query     `yaml:"queries"`

	// Path is the file the fixture was read from, for locations.
	Path string `yaml:"-"`
}

// ClassDecl declares a class or module, or reopens an existing one
// (built-ins included) to add mixins and methods.
type ClassDecl struct {
	Name string `yaml:"name"`

	// Module declares a module instead of a class.
	Module bool `yaml:"module,omitempty"`

	// Superclass defaults to Object for new classes. Must be empty for
	// modules.
	Superclass string `yaml:"superclass,omitempty"`

	// Include lists modules mixed in, in include order.
	Include []string `yaml:"include,omitempty"`

	Methods          []MethodDecl `yaml:"methods,omitempty"`
	SingletonMethods []MethodDecl `yaml:"singleton_methods,omitempty"`

	Line int `yaml:"-"`
}

type MethodDecl struct {
	Name   string      `yaml:"name"`
	Params []ParamDecl `yaml:"params,omitempty"`

	// Returns is a type expression; defaults to dynamic.
	Returns string `yaml:"returns,omitempty"`
}

type ParamDecl struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional,omitempty"`
	Repeated bool   `yaml:"repeated,omitempty"`
}

// QueryKind selects the lattice operation a query runs.
type QueryKind string

const (
	KindSubtype QueryKind = "subtype"
	KindLub     QueryKind = "lub"
	KindGlb     QueryKind = "glb"
	KindEquiv   QueryKind = "equiv"
	KindCall    QueryKind = "call"
	KindArgType QueryKind = "argtype"
)

// Arity is the number of type arguments the kind takes, or -1 for any.
func (k QueryKind) Arity() int {
	switch k {
	case KindSubtype, KindLub, KindGlb, KindEquiv:
		return 2
	case KindCall:
		return -1
	case KindArgType:
		return 0
	}
	return -2
}

// HasBoolResult reports whether the kind answers yes or no rather than a
// type.
func (k QueryKind) HasBoolResult() bool {
	return k == KindSubtype || k == KindEquiv
}

// Query is one operation to evaluate.
type Query struct {
	Name string    `yaml:"name,omitempty"`
	Kind QueryKind `yaml:"kind"`

	// Args are type expressions: the two operands of lattice queries, the
	// actual argument types of calls.
	Args []string `yaml:"args,omitempty"`

	Receiver string `yaml:"receiver,omitempty"`
	Method   string `yaml:"method,omitempty"`
	Index    int    `yaml:"index,omitempty"`

	// Expect is "true"/"false" for subtype and equiv, a type expression
	// compared with Equiv otherwise. Empty means the result is only
	// reported.
	Expect string `yaml:"expect,omitempty"`

	// Errors lists the diagnostic codes a call is expected to produce, in
	// any order. Only checked when set.
	Errors []string `yaml:"errors,omitempty"`

	Line       int   `yaml:"-"`
	Column     int   `yaml:"-"`
	ArgLines   []int `yaml:"-"`
	ArgColumns []int `yaml:"-"`
}

// UnmarshalYAML records where the query and each of its arguments start so
// diagnostics can point back into the fixture.
func (q *Query) UnmarshalYAML(node *yaml.Node) error {
	type plain Query
	if err := node.Decode((*plain)(q)); err != nil {
		return err
	}
	q.Line, q.Column = node.Line, node.Column
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "args" {
			continue
		}
		for _, item := range node.Content[i+1].Content {
			q.ArgLines = append(q.ArgLines, item.Line)
			q.ArgColumns = append(q.ArgColumns, item.Column)
		}
	}
	return nil
}

func (c *ClassDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain ClassDecl
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Line = node.Line
	return nil
}

// QueryLoc is where query i starts in the fixture file.
func (f *Fixture) QueryLoc(i int) source.Loc {
	q := f.Queries[i]
	return source.NewLoc(f.Path, q.Line, q.Column, len(q.Kind))
}

// ArgLoc is where argument arg of query i is written.
func (f *Fixture) ArgLoc(i, arg int) source.Loc {
	q := f.Queries[i]
	if arg < len(q.ArgLines) {
		return source.NewLoc(f.Path, q.ArgLines[arg], q.ArgColumns[arg], len(q.Args[arg]))
	}
	return f.QueryLoc(i)
}

// LoadFixture reads and parses a gradual.yaml file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	return ParseFixture(data, path)
}

// ParseFixture parses fixture content from bytes.
// The path argument is used for error messages and diagnostic locations.
func ParseFixture(data []byte, path string) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	if err := f.validate(path); err != nil {
		return nil, err
	}
	f.setDefaults()
	return &f, nil
}

// FindFixture searches for gradual.yaml starting from dir and walking up
// to parent directories. Returns "" and a nil error when there is none.
func FindFixture(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	base := strings.TrimSuffix(config.FixtureFileName, filepath.Ext(config.FixtureFileName))
	for {
		for _, ext := range config.FixtureFileExtensions {
			candidate := filepath.Join(dir, base+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// validate checks the fixture for errors that don't need a symbol table.
// Unknown class names and malformed type expressions surface in Build.
func (f *Fixture) validate(path string) error {
	if f.Version != "" {
		if !semver.IsValid(f.Version) {
			return fmt.Errorf("%s: version %q is not a semantic version (want e.g. %s)", path, f.Version, config.Version)
		}
		if semver.Compare(f.Version, config.Version) > 0 {
			return fmt.Errorf("%s: fixture needs gradual %s, this is %s", path, f.Version, config.Version)
		}
	}
	if f.Workers < 0 {
		return fmt.Errorf("%s: workers must not be negative", path)
	}

	seen := make(map[string]int) // name -> index of first declaration
	for i, c := range f.Classes {
		if c.Name == "" {
			return fmt.Errorf("%s:%d: classes[%d]: name is required", path, c.Line, i)
		}
		if prev, ok := seen[c.Name]; ok {
			return fmt.Errorf("%s:%d: classes[%d]: %s is already declared at classes[%d]", path, c.Line, i, c.Name, prev)
		}
		seen[c.Name] = i
		if c.Module && c.Superclass != "" {
			return fmt.Errorf("%s:%d: classes[%d] (%s): modules cannot have a superclass", path, c.Line, i, c.Name)
		}
		if err := validateMethods(c.Methods); err != nil {
			return fmt.Errorf("%s:%d: classes[%d] (%s): %w", path, c.Line, i, c.Name, err)
		}
		if err := validateMethods(c.SingletonMethods); err != nil {
			return fmt.Errorf("%s:%d: classes[%d] (%s) singleton: %w", path, c.Line, i, c.Name, err)
		}
	}

	if len(f.Queries) == 0 {
		return fmt.Errorf("%s: no queries defined", path)
	}
	for i, q := range f.Queries {
		if err := q.validate(); err != nil {
			return fmt.Errorf("%s:%d: queries[%d]: %w", path, q.Line, i, err)
		}
	}
	return nil
}

func validateMethods(methods []MethodDecl) error {
	seen := make(map[string]bool)
	for j, m := range methods {
		if m.Name == "" {
			return fmt.Errorf("methods[%d]: name is required", j)
		}
		if seen[m.Name] {
			return fmt.Errorf("method %s is declared twice", m.Name)
		}
		seen[m.Name] = true
		repeated := 0
		for k, p := range m.Params {
			if p.Type == "" {
				return fmt.Errorf("%s: params[%d]: type is required", m.Name, k)
			}
			if p.Optional && p.Repeated {
				return fmt.Errorf("%s: params[%d]: optional and repeated are mutually exclusive", m.Name, k)
			}
			if p.Repeated {
				repeated++
			}
		}
		if repeated > 1 {
			return fmt.Errorf("%s: at most one repeated parameter", m.Name)
		}
	}
	return nil
}

func (q *Query) validate() error {
	arity := q.Kind.Arity()
	switch {
	case q.Kind == "":
		return fmt.Errorf("kind is required")
	case arity == -2:
		return fmt.Errorf("unknown kind %q", q.Kind)
	case arity >= 0 && len(q.Args) != arity:
		return fmt.Errorf("%s takes %d args, got %d", q.Kind, arity, len(q.Args))
	}
	if q.Kind == KindCall || q.Kind == KindArgType {
		if q.Receiver == "" {
			return fmt.Errorf("%s: receiver is required", q.Kind)
		}
		if q.Method == "" {
			return fmt.Errorf("%s: method is required", q.Kind)
		}
	} else if q.Receiver != "" || q.Method != "" {
		return fmt.Errorf("%s: receiver and method are only valid with call and argtype", q.Kind)
	}
	if q.Kind == KindArgType && q.Index < 0 {
		return fmt.Errorf("argtype: index must not be negative")
	}
	if q.Kind != KindArgType && q.Index != 0 {
		return fmt.Errorf("%s: index is only valid with argtype", q.Kind)
	}
	if q.Kind.HasBoolResult() && q.Expect != "" && q.Expect != "true" && q.Expect != "false" {
		return fmt.Errorf("%s: expect must be true or false, got %q", q.Kind, q.Expect)
	}
	if len(q.Errors) > 0 && q.Kind != KindCall {
		return fmt.Errorf("%s: errors is only valid with call", q.Kind)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (f *Fixture) setDefaults() {
	if f.Version == "" {
		f.Version = config.Version
	}
	if f.Workers == 0 {
		f.Workers = config.DefaultWorkers
	}
	for i := range f.Classes {
		c := &f.Classes[i]
		for j := range c.Methods {
			if c.Methods[j].Returns == "" {
				c.Methods[j].Returns = config.DynamicKeyword
			}
		}
		for j := range c.SingletonMethods {
			if c.SingletonMethods[j].Returns == "" {
				c.SingletonMethods[j].Returns = config.DynamicKeyword
			}
		}
	}
	for i := range f.Queries {
		q := &f.Queries[i]
		if q.Name == "" {
			q.Name = fmt.Sprintf("%s#%d", q.Kind, i+1)
		}
	}
}
