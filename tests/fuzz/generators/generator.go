package generators

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. Once the data runs
// out every choice is 0, so generation always terminates.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}

// Generator produces random class hierarchies and type expressions over
// them. Every expression it emits parses against the table it built.
type Generator struct {
	src     RandomSource
	depth   int
	classes []string
	methods []string
}

const (
	MaxDepth   = 4
	MaxClasses = 6
	MaxParams  = 3
)

var (
	builtinNames = []string{
		config.ObjectClassName, config.IntegerClassName, config.FloatClassName,
		config.NumericClassName, config.StringClassName, config.SymbolClassName,
		config.ArrayClassName, config.HashClassName, config.ComparableModuleName,
		config.KernelModuleName, config.NilClassName,
	}
	classStems  = []string{"Animal", "Shape", "Vehicle", "Walk", "Swim", "Node"}
	methodNames = []string{"size", "call", "fetch", "merge"}
	symbolNames = []string{"a", "b", "ok"}
	floatTexts  = []string{"0.5", "1.5", "-2.25"}
	hashKeys    = []string{"a: ", "b: ", "id: ", "1 => ", ":c => "}
)

func New(seed int64) *Generator {
	return &Generator{
		src:     &RandSource{rand.New(rand.NewSource(seed))},
		classes: append([]string(nil), builtinNames...),
	}
}

func NewFromData(data []byte) *Generator {
	return &Generator{
		src:     &ByteSource{data: data},
		classes: append([]string(nil), builtinNames...),
	}
}

// Intn exposes the random source's Intn method for embedded structs.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

// Src returns the random source of the generator.
func (g *Generator) Src() RandomSource {
	return g.src
}

// Classes lists every class and module name expressions may mention.
func (g *Generator) Classes() []string {
	return append([]string(nil), g.classes...)
}

// Methods lists the method names GenerateHierarchy declared.
func (g *Generator) Methods() []string {
	return append([]string(nil), g.methods...)
}

// GenerateHierarchy builds and freezes a table holding the built-ins plus a
// handful of random classes, modules, inclusions and methods.
func (g *Generator) GenerateHierarchy() *symbols.Table {
	st := symbols.NewTable()
	st.SetStrictMode(g.src.Intn(4) == 0)

	var defined, modules []string
	count := g.src.Intn(MaxClasses) + 1
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s%d", classStems[g.src.Intn(len(classStems))], i)
		if g.src.Intn(4) == 0 {
			if _, err := st.DefineModule(name); err == nil {
				modules = append(modules, name)
				g.classes = append(g.classes, name)
			}
			continue
		}
		super := config.ObjectClassName
		if len(defined) > 0 && g.src.Intn(2) == 0 {
			super = defined[g.src.Intn(len(defined))]
		}
		if _, err := st.DefineClass(name, super); err == nil {
			defined = append(defined, name)
			g.classes = append(g.classes, name)
		}
	}

	if len(modules) > 0 {
		for _, c := range defined {
			if g.src.Intn(3) == 0 {
				// A rejected include only thins the hierarchy.
				_ = st.Include(c, modules[g.src.Intn(len(modules))])
			}
		}
	}

	methodCount := g.src.Intn(len(methodNames)) + 1
	for i := 0; i < methodCount; i++ {
		owner, _ := st.Lookup(g.classes[g.src.Intn(len(g.classes))])
		m := typesystem.Method{
			Name:   methodNames[i],
			Result: g.parse(st, g.GenerateAtom()),
		}
		params := g.src.Intn(MaxParams + 1)
		for j := 0; j < params; j++ {
			p := typesystem.Param{Name: fmt.Sprintf("p%d", j), Type: g.parse(st, g.GenerateAtom())}
			if j == params-1 {
				switch g.src.Intn(3) {
				case 0:
					p.Optional = true
				case 1:
					p.Repeated = true
				}
			}
			m.Params = append(m.Params, p)
		}
		if err := st.DefineMethod(owner, m); err == nil {
			g.methods = append(g.methods, m.Name)
		}
	}

	st.Freeze()
	return st
}

func (g *Generator) parse(st *symbols.Table, src string) typesystem.Type {
	t, err := typeexpr.Parse(st, src)
	if err != nil {
		return typesystem.Dynamic()
	}
	return t
}

// GenerateType returns a random type expression that may nest unions,
// intersections, tuples and records.
func (g *Generator) GenerateType() string {
	if g.depth >= MaxDepth {
		return g.GenerateAtom()
	}
	g.depth++
	defer func() { g.depth-- }()

	choice := g.src.Intn(10)
	switch {
	case choice < 5:
		return g.GenerateAtom()
	case choice < 6:
		return "(" + g.GenerateType() + " | " + g.GenerateType() + ")"
	case choice < 7:
		return "(" + g.GenerateType() + " & " + g.GenerateType() + ")"
	case choice < 8:
		return g.generateArray()
	case choice < 9:
		return g.generateHash()
	default:
		// Unparenthesized, so precedence decides the shape.
		return g.GenerateType() + " | " + g.GenerateAtom() + " & " + g.GenerateAtom()
	}
}

// GenerateAtom returns a class, literal or keyword type.
func (g *Generator) GenerateAtom() string {
	switch g.src.Intn(10) {
	case 0, 1, 2, 3:
		return g.className()
	case 4:
		return g.className() + "." + config.SingletonWord
	case 5:
		return fmt.Sprintf("%d", g.src.Intn(7)-3)
	case 6:
		if g.src.Intn(2) == 0 {
			return floatTexts[g.src.Intn(len(floatTexts))]
		}
		return ":" + symbolNames[g.src.Intn(len(symbolNames))]
	case 7:
		if g.src.Intn(2) == 0 {
			return config.TrueKeyword
		}
		return config.FalseKeyword
	case 8:
		return []string{config.NilKeyword, config.TopKeyword, config.BottomKeyword}[g.src.Intn(3)]
	default:
		return config.DynamicKeyword
	}
}

func (g *Generator) className() string {
	return g.classes[g.src.Intn(len(g.classes))]
}

func (g *Generator) generateArray() string {
	n := g.src.Intn(4)
	elems := make([]string, n)
	for i := range elems {
		elems[i] = g.GenerateType()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (g *Generator) generateHash() string {
	n := g.src.Intn(3)
	start := g.src.Intn(len(hashKeys))
	entries := make([]string, n)
	for i := range entries {
		entries[i] = hashKeys[(start+i)%len(hashKeys)] + g.GenerateType()
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// GenerateCall returns a method name and argument expressions. The name is
// occasionally one nothing declares.
func (g *Generator) GenerateCall() (string, []string) {
	name := "missing"
	if len(g.methods) > 0 && g.src.Intn(5) != 0 {
		name = g.methods[g.src.Intn(len(g.methods))]
	}
	args := make([]string, g.src.Intn(MaxParams+1))
	for i := range args {
		args[i] = g.GenerateType()
	}
	return name, args
}
