package symbols

import "github.com/funvibe/gradual/internal/config"

// NewTable creates a table holding the built-in hierarchy. It is not frozen,
// so callers can keep adding their own classes.
func NewTable() *Table {
	st := NewEmptyTable()
	st.InitBuiltins()
	return st
}

type builtinClass struct {
	name       string
	superclass string
	module     bool
	include    []string
}

var builtinClasses = []builtinClass{
	{name: config.BasicObjectClassName},
	{name: config.KernelModuleName, module: true},
	{name: config.ComparableModuleName, module: true},
	{name: config.ObjectClassName, superclass: config.BasicObjectClassName, include: []string{config.KernelModuleName}},
	{name: config.ModuleClassName, superclass: config.ObjectClassName},
	{name: config.ClassClassName, superclass: config.ModuleClassName},
	{name: config.NilClassName, superclass: config.ObjectClassName},
	{name: config.TrueClassName, superclass: config.ObjectClassName},
	{name: config.FalseClassName, superclass: config.ObjectClassName},
	{name: config.NumericClassName, superclass: config.ObjectClassName, include: []string{config.ComparableModuleName}},
	{name: config.IntegerClassName, superclass: config.NumericClassName},
	{name: config.FloatClassName, superclass: config.NumericClassName},
	{name: config.StringClassName, superclass: config.ObjectClassName, include: []string{config.ComparableModuleName}},
	{name: config.SymbolClassName, superclass: config.ObjectClassName},
	{name: config.ArrayClassName, superclass: config.ObjectClassName},
	{name: config.HashClassName, superclass: config.ObjectClassName},
}

// InitBuiltins defines the built-in classes and modules. Panics if any of
// them already exists, which only happens when called twice.
func (st *Table) InitBuiltins() {
	for _, b := range builtinClasses {
		var err error
		if b.module {
			_, err = st.DefineModule(b.name)
		} else {
			_, err = st.DefineClass(b.name, b.superclass)
		}
		if err != nil {
			panic("symbols: defining builtin " + b.name + ": " + err.Error())
		}
		for _, m := range b.include {
			if err := st.Include(b.name, m); err != nil {
				panic("symbols: builtin mixin " + m + ": " + err.Error())
			}
		}
	}
}
