package symbols

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/source"
	"github.com/funvibe/gradual/internal/typesystem"
)

func mustLookup(t *testing.T, st *Table, name string) typesystem.SymbolRef {
	t.Helper()
	ref, ok := st.Lookup(name)
	require.True(t, ok, "%s should be defined", name)
	return ref
}

func names(st *Table, refs []typesystem.SymbolRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = st.ClassName(r)
	}
	return out
}

func TestBuiltinHierarchy(t *testing.T) {
	st := NewTable()
	integer := mustLookup(t, st, config.IntegerClassName)

	assert.Equal(t,
		[]string{"Integer", "Numeric", "Comparable", "Object", "Kernel", "BasicObject"},
		names(st, st.Ancestors(integer)))

	for _, name := range []string{"Numeric", "Comparable", "Object", "Kernel", "BasicObject"} {
		assert.True(t, st.DerivesFrom(integer, mustLookup(t, st, name)), "Integer <: %s", name)
	}
	assert.False(t, st.DerivesFrom(integer, mustLookup(t, st, config.StringClassName)))
	assert.False(t, st.DerivesFrom(mustLookup(t, st, config.ObjectClassName), integer))

	nilRef, ok := st.NilClass()
	require.True(t, ok)
	assert.Equal(t, config.NilClassName, st.ClassName(nilRef))
}

func TestAncestorsLastIncludedFirst(t *testing.T) {
	st := NewTable()
	_, err := st.DefineModule("Walk")
	require.NoError(t, err)
	_, err = st.DefineModule("Swim")
	require.NoError(t, err)
	_, err = st.DefineModule("Legs")
	require.NoError(t, err)
	require.NoError(t, st.Include("Walk", "Legs"))
	duck, err := st.DefineClass("Duck", config.ObjectClassName)
	require.NoError(t, err)
	require.NoError(t, st.Include("Duck", "Walk"))
	require.NoError(t, st.Include("Duck", "Swim"))
	require.NoError(t, st.Include("Duck", "Walk"), "including twice is a no-op")

	assert.Equal(t,
		[]string{"Duck", "Swim", "Walk", "Legs", "Object", "Kernel", "BasicObject"},
		names(st, st.Ancestors(duck)))
}

func TestAncestorsSkipModuleInheritedFromSuperclass(t *testing.T) {
	st := NewTable()
	greet, err := st.DefineModule("Greet")
	require.NoError(t, err)
	base, err := st.DefineClass("Base", config.ObjectClassName)
	require.NoError(t, err)
	require.NoError(t, st.Include("Base", "Greet"))
	child, err := st.DefineClass("Child", "Base")
	require.NoError(t, err)
	require.NoError(t, st.Include("Child", "Greet"))

	str := st.MustClassType(config.StringClassName)
	require.NoError(t, st.DefineMethod(greet, typesystem.Method{Name: "hello", Result: str}))
	require.NoError(t, st.DefineMethod(base, typesystem.Method{Name: "hello", Result: str}))

	want := []string{"Child", "Base", "Greet", "Object", "Kernel", "BasicObject"}
	assert.Equal(t, want, names(st, st.Ancestors(child)))

	m, ok := st.LookupMethod(child, "hello")
	require.True(t, ok)
	assert.Equal(t, base, m.Owner, "override in the superclass wins over the re-included module")

	st.Freeze()
	assert.Equal(t, want, names(st, st.Ancestors(child)))
}

func TestMethodsSortedByName(t *testing.T) {
	st := NewTable()
	integer := mustLookup(t, st, config.IntegerClassName)
	for _, name := range []string{"succ", "abs", "clamp", "pred"} {
		require.NoError(t, st.DefineMethod(integer, typesystem.Method{Name: name, Result: typesystem.Dynamic()}))
	}
	var got []string
	for _, m := range st.Methods(integer) {
		got = append(got, m.Name)
	}
	assert.Equal(t, []string{"abs", "clamp", "pred", "succ"}, got)
	assert.Empty(t, st.Methods(mustLookup(t, st, config.NumericClassName)))
}

func TestDefineErrors(t *testing.T) {
	st := NewTable()
	_, err := st.DefineClass("Integer", "Object")
	assert.Error(t, err, "duplicate")
	_, err = st.DefineClass("Foo", "Missing")
	assert.Error(t, err, "unknown superclass")
	_, err = st.DefineClass("Foo", config.KernelModuleName)
	assert.Error(t, err, "module as superclass")
	assert.Error(t, st.Include("Integer", "String"), "class as mixin")
	assert.Error(t, st.Include("Nope", "Kernel"))

	_, err = st.DefineModule("A")
	require.NoError(t, err)
	_, err = st.DefineModule("B")
	require.NoError(t, err)
	require.NoError(t, st.Include("A", "B"))
	assert.Error(t, st.Include("B", "A"), "mixin cycle")
}

func TestMethodLookupFollowsAncestors(t *testing.T) {
	st := NewTable()
	integer := mustLookup(t, st, config.IntegerClassName)
	comparable := mustLookup(t, st, config.ComparableModuleName)
	numeric := mustLookup(t, st, config.NumericClassName)
	boolean := typesystem.NewOr(st.MustClassType(config.TrueClassName), st.MustClassType(config.FalseClassName))

	require.NoError(t, st.DefineMethod(comparable, typesystem.Method{
		Name:   "between?",
		Params: []typesystem.Param{{Name: "lo", Type: typesystem.Top()}, {Name: "hi", Type: typesystem.Top()}},
		Result: boolean,
	}))
	require.NoError(t, st.DefineMethod(numeric, typesystem.Method{Name: "abs", Result: st.MustClassType("Numeric")}))
	require.NoError(t, st.DefineMethod(integer, typesystem.Method{Name: "abs", Result: st.MustClassType("Integer")}))

	m, ok := st.LookupMethod(integer, "abs")
	require.True(t, ok)
	assert.Equal(t, integer, m.Owner, "nearest definition wins")

	m, ok = st.LookupMethod(integer, "between?")
	require.True(t, ok)
	assert.Equal(t, comparable, m.Owner)
	assert.Equal(t, 2, m.RequiredCount())

	_, ok = st.LookupMethod(integer, "upcase")
	assert.False(t, ok)
}

func TestDefineMethodValidation(t *testing.T) {
	st := NewTable()
	str := mustLookup(t, st, config.StringClassName)
	assert.Error(t, st.DefineMethod(str, typesystem.Method{Name: "x"}), "missing result")
	assert.Error(t, st.DefineMethod(str, typesystem.Method{
		Name:   "x",
		Params: []typesystem.Param{{Name: "a"}},
		Result: typesystem.Top(),
	}), "missing param type")
	assert.Error(t, st.DefineMethod(str, typesystem.Method{
		Name: "x",
		Params: []typesystem.Param{
			{Name: "a", Type: typesystem.Top(), Repeated: true},
			{Name: "b", Type: typesystem.Top(), Repeated: true},
		},
		Result: typesystem.Top(),
	}), "two splats")
	assert.Error(t, st.DefineMethod(typesystem.SymbolRef(9999), typesystem.Method{Name: "x", Result: typesystem.Top()}))
}

func TestSingletonClasses(t *testing.T) {
	st := NewTable()
	integer := mustLookup(t, st, config.IntegerClassName)
	numeric := mustLookup(t, st, config.NumericClassName)
	class := mustLookup(t, st, config.ClassClassName)

	require.NoError(t, st.DefineSingletonMethod(numeric, typesystem.Method{Name: "zero", Result: st.MustClassType("Integer")}))

	intMeta := st.SingletonOf(integer)
	assert.Equal(t, "Integer.singleton", st.ClassName(intMeta))
	assert.Equal(t, intMeta, st.SingletonOf(intMeta))
	assert.Equal(t, st.SingletonOf(numeric), st.Superclass(intMeta))
	assert.True(t, st.DerivesFrom(intMeta, class), "singleton chain ends in Class")

	k, _ := st.Kind(intMeta)
	assert.Equal(t, SingletonSymbol, k)

	m, ok := st.LookupMethod(intMeta, "zero")
	require.True(t, ok, "class methods are inherited")
	assert.Equal(t, st.SingletonOf(numeric), m.Owner)

	_, ok = st.LookupMethod(integer, "zero")
	assert.False(t, ok, "class methods are not instance methods")

	_, ok = st.Lookup("Integer.singleton")
	assert.False(t, ok, "singleton classes are not looked up by name")
}

func TestModuleSingletonDerivesFromModule(t *testing.T) {
	st := NewTable()
	kernel := mustLookup(t, st, config.KernelModuleName)
	module := mustLookup(t, st, config.ModuleClassName)
	assert.True(t, st.DerivesFrom(st.SingletonOf(kernel), module))
}

func TestFreeze(t *testing.T) {
	st := NewTable()
	st.SetStrictMode(true)
	before := st.Len()
	st.Freeze()
	assert.True(t, st.IsFrozen())
	assert.True(t, st.IsStrictMode())
	assert.Greater(t, st.Len(), before, "freeze creates the remaining singleton classes")

	integer := mustLookup(t, st, config.IntegerClassName)
	assert.NotEqual(t, typesystem.NoSymbol, st.SingletonOf(integer))

	assert.PanicsWithValue(t, ErrFrozen, func() { _, _ = st.DefineClass("Late", "") })
	assert.PanicsWithValue(t, ErrFrozen, func() { st.SetStrictMode(false) })
	assert.PanicsWithValue(t, ErrFrozen, func() {
		_ = st.DefineMethod(integer, typesystem.Method{Name: "late", Result: typesystem.Top()})
	})

	// Ancestors hands out copies.
	a := st.Ancestors(integer)
	a[0] = typesystem.NoSymbol
	assert.Equal(t, integer, st.Ancestors(integer)[0])
}

func TestFrozenTableConcurrentReads(t *testing.T) {
	st := NewTable()
	str := mustLookup(t, st, config.StringClassName)
	require.NoError(t, st.DefineMethod(str, typesystem.Method{Name: "upcase", Result: st.MustClassType("String")}))
	st.Freeze()
	cache := typesystem.NewLatticeCache(st)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lit := st.IntegerLiteral(int64(i))
			res := typesystem.DispatchCall(st, typesystem.NewOr(st.MustClassType("String"), lit), "upcase", sourceLoc(i), nil, nil)
			assert.Len(t, res.Errors, 1)
			assert.True(t, cache.IsSubType(lit, st.MustClassType("Comparable")))
		}(i)
	}
	wg.Wait()
}

func TestLiteralHelpers(t *testing.T) {
	st := NewTable()
	assert.Equal(t, "Integer(3)", st.IntegerLiteral(3).Show(st, 0))
	assert.True(t, typesystem.IsSubType(st, st.FloatLiteral(1.5), st.MustClassType("Numeric")))
	assert.True(t, typesystem.IsSubType(st, st.SymbolLiteral("a"), st.MustClassType("Symbol")))
	assert.True(t, typesystem.IsSubType(st, st.BoolLiteral(true), st.MustClassType("TrueClass")))
	assert.False(t, typesystem.IsSubType(st, st.BoolLiteral(false), st.MustClassType("TrueClass")))

	rec := st.Hash([]*typesystem.Literal{st.SymbolLiteral("a")}, []typesystem.Type{st.IntegerLiteral(1)})
	assert.True(t, typesystem.IsSubType(st, rec, st.MustClassType("Hash")))
	tup := st.Array([]typesystem.Type{st.MustClassType("String")})
	assert.True(t, typesystem.IsSubType(st, tup, st.MustClassType("Object")))

	_, ok := st.ClassType("Nope")
	assert.False(t, ok)
	assert.Panics(t, func() { st.MustClassType("Nope") })
}

func sourceLoc(i int) source.Loc { return source.NewLoc("t.rb", i+1, 1, 1) }
