package typesystem

import "github.com/funvibe/gradual/internal/source"

// testContext is a minimal hand-built hierarchy:
//
//	BasicObject <- Object <- Numeric <- Integer (includes Comparable)
//	                       <- Numeric <- Float
//	                       <- String (includes Comparable)
//	                       <- Symbol, NilClass, Array, Hash, TrueClass, FalseClass
type testContext struct {
	names   map[SymbolRef]string
	parents map[SymbolRef][]SymbolRef
	methods map[SymbolRef]map[string]*Method
	nilRef  SymbolRef
	strict  bool
}

const (
	refBasicObject SymbolRef = iota + 1
	refObject
	refComparable
	refNumeric
	refInteger
	refFloat
	refString
	refSymbol
	refNilClass
	refArray
	refHash
	refTrueClass
	refFalseClass
)

func newTestContext() *testContext {
	ctx := &testContext{
		names: map[SymbolRef]string{
			refBasicObject: "BasicObject",
			refObject:      "Object",
			refComparable:  "Comparable",
			refNumeric:     "Numeric",
			refInteger:     "Integer",
			refFloat:       "Float",
			refString:      "String",
			refSymbol:      "Symbol",
			refNilClass:    "NilClass",
			refArray:       "Array",
			refHash:        "Hash",
			refTrueClass:   "TrueClass",
			refFalseClass:  "FalseClass",
		},
		parents: map[SymbolRef][]SymbolRef{
			refObject:     {refBasicObject},
			refNumeric:    {refObject},
			refInteger:    {refComparable, refNumeric},
			refFloat:      {refNumeric},
			refString:     {refComparable, refObject},
			refSymbol:     {refObject},
			refNilClass:   {refObject},
			refArray:      {refObject},
			refHash:       {refObject},
			refTrueClass:  {refObject},
			refFalseClass: {refObject},
		},
		methods: map[SymbolRef]map[string]*Method{},
		nilRef:  refNilClass,
	}
	return ctx
}

func (c *testContext) ClassName(ref SymbolRef) string { return c.names[ref] }

func (c *testContext) DerivesFrom(sub, super SymbolRef) bool {
	if sub == super {
		return true
	}
	for _, p := range c.parents[sub] {
		if c.DerivesFrom(p, super) {
			return true
		}
	}
	return false
}

func (c *testContext) LookupMethod(owner SymbolRef, name string) (*Method, bool) {
	if m, ok := c.methods[owner][name]; ok {
		return m, true
	}
	for _, p := range c.parents[owner] {
		if m, ok := c.LookupMethod(p, name); ok {
			return m, true
		}
	}
	return nil, false
}

func (c *testContext) NilClass() (SymbolRef, bool) { return c.nilRef, c.nilRef != NoSymbol }
func (c *testContext) IsStrictMode() bool           { return c.strict }

func (c *testContext) define(owner SymbolRef, name string, result Type, params ...Param) {
	if c.methods[owner] == nil {
		c.methods[owner] = map[string]*Method{}
	}
	c.methods[owner][name] = &Method{Owner: owner, Name: name, Params: params, Result: result}
}

var (
	tInteger    = NewClassType(refInteger)
	tFloat      = NewClassType(refFloat)
	tNumeric    = NewClassType(refNumeric)
	tString     = NewClassType(refString)
	tSymbol     = NewClassType(refSymbol)
	tObject     = NewClassType(refObject)
	tComparable = NewClassType(refComparable)
	tArray      = NewClassType(refArray)
	tHash       = NewClassType(refHash)
	tTrue       = NewClassType(refTrueClass)
)

func intLit(v int64) *Literal  { return NewIntegerLiteral(tInteger, v) }
func symLit(s string) *Literal { return NewSymbolLiteral(tSymbol, s) }

func tuple(elems ...Type) *ArrayType { return NewArrayType(tArray, elems) }

func at(line, col int) source.Loc { return source.NewLoc("test.rb", line, col, 1) }
