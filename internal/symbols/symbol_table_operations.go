package symbols

import (
	"fmt"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/typesystem"
)

func (st *Table) mustBeMutable() {
	if st.frozen {
		panic(ErrFrozen)
	}
}

func (st *Table) add(s *symbol) typesystem.SymbolRef {
	s.ref = typesystem.SymbolRef(len(st.symbols))
	st.symbols = append(st.symbols, s)
	if s.kind != SingletonSymbol {
		st.byName[s.name] = s.ref
	}
	return s.ref
}

// DefineClass creates a class. An empty superclass makes a root class;
// otherwise the superclass must be an existing class.
func (st *Table) DefineClass(name, superclass string) (typesystem.SymbolRef, error) {
	st.mustBeMutable()
	if name == "" {
		return typesystem.NoSymbol, fmt.Errorf("class name is empty")
	}
	if _, exists := st.byName[name]; exists {
		return typesystem.NoSymbol, fmt.Errorf("%s is already defined", name)
	}
	super := typesystem.NoSymbol
	if superclass != "" {
		ref, ok := st.byName[superclass]
		if !ok {
			return typesystem.NoSymbol, fmt.Errorf("superclass %s of %s is not defined", superclass, name)
		}
		if st.symbols[ref].kind != ClassSymbol {
			return typesystem.NoSymbol, fmt.Errorf("superclass %s of %s is a module", superclass, name)
		}
		super = ref
	}
	return st.add(&symbol{
		name:       name,
		kind:       ClassSymbol,
		superclass: super,
		methods:    make(map[string]*typesystem.Method),
	}), nil
}

func (st *Table) DefineModule(name string) (typesystem.SymbolRef, error) {
	st.mustBeMutable()
	if name == "" {
		return typesystem.NoSymbol, fmt.Errorf("module name is empty")
	}
	if _, exists := st.byName[name]; exists {
		return typesystem.NoSymbol, fmt.Errorf("%s is already defined", name)
	}
	return st.add(&symbol{
		name:    name,
		kind:    ModuleSymbol,
		methods: make(map[string]*typesystem.Method),
	}), nil
}

// Include mixes module into class. Including a module twice is a no-op.
func (st *Table) Include(class, module string) error {
	st.mustBeMutable()
	cref, ok := st.byName[class]
	if !ok {
		return fmt.Errorf("%s is not defined", class)
	}
	mref, ok := st.byName[module]
	if !ok {
		return fmt.Errorf("module %s is not defined", module)
	}
	m := st.symbols[mref]
	if m.kind != ModuleSymbol {
		return fmt.Errorf("%s is a class, only modules can be included", module)
	}
	if cref == mref || st.derivesFrom(mref, cref) {
		return fmt.Errorf("including %s into %s would make a cycle", module, class)
	}
	c := st.symbols[cref]
	for _, existing := range c.mixins {
		if existing == mref {
			return nil
		}
	}
	c.mixins = append(c.mixins, mref)
	return nil
}

// DefineMethod adds an instance method to owner. Redefinition replaces the
// previous signature. The method's Owner field is set to owner.
func (st *Table) DefineMethod(owner typesystem.SymbolRef, m typesystem.Method) error {
	st.mustBeMutable()
	s := st.get(owner)
	if s == nil {
		return fmt.Errorf("unknown owner #%d for method %s", owner, m.Name)
	}
	if m.Name == "" {
		return fmt.Errorf("method name is empty on %s", s.name)
	}
	if m.Result == nil {
		return fmt.Errorf("method %s#%s has no result type", st.ClassName(owner), m.Name)
	}
	seenRepeated := false
	for i, p := range m.Params {
		if p.Type == nil {
			return fmt.Errorf("parameter %d of %s#%s has no type", i, st.ClassName(owner), m.Name)
		}
		if p.Repeated {
			if seenRepeated {
				return fmt.Errorf("%s#%s has more than one repeated parameter", st.ClassName(owner), m.Name)
			}
			seenRepeated = true
		}
	}
	m.Owner = owner
	m.Params = append([]typesystem.Param(nil), m.Params...)
	s.methods[m.Name] = &m
	return nil
}

// DefineSingletonMethod adds a class-level method to owner.
func (st *Table) DefineSingletonMethod(owner typesystem.SymbolRef, m typesystem.Method) error {
	st.mustBeMutable()
	if st.get(owner) == nil {
		return fmt.Errorf("unknown owner #%d for singleton method %s", owner, m.Name)
	}
	return st.DefineMethod(st.SingletonOf(owner), m)
}

// SingletonOf returns the singleton class of ref, creating it on an unfrozen
// table. A frozen table already holds every singleton class. The singleton of
// a singleton class is itself.
func (st *Table) SingletonOf(ref typesystem.SymbolRef) typesystem.SymbolRef {
	s := st.get(ref)
	if s == nil {
		return typesystem.NoSymbol
	}
	if s.kind == SingletonSymbol {
		return ref
	}
	if s.singleton != typesystem.NoSymbol {
		return s.singleton
	}
	st.mustBeMutable()
	singleton := &symbol{
		name:     s.name + config.SingletonSuffix,
		kind:     SingletonSymbol,
		attached: ref,
		methods:  make(map[string]*typesystem.Method),
	}
	switch {
	case s.kind == ModuleSymbol:
		singleton.superclass, _ = st.byName[config.ModuleClassName]
	case s.superclass != typesystem.NoSymbol:
		singleton.superclass = st.SingletonOf(s.superclass)
	default:
		singleton.superclass, _ = st.byName[config.ClassClassName]
	}
	sref := st.add(singleton)
	s.singleton = sref
	return sref
}

// SetStrictMode toggles strict dispatch on dynamic receivers.
func (st *Table) SetStrictMode(strict bool) {
	st.mustBeMutable()
	st.strict = strict
}

// Freeze creates every missing singleton class, precomputes ancestry and
// makes the table read-only.
func (st *Table) Freeze() {
	if st.frozen {
		return
	}
	n := len(st.symbols)
	for ref := 1; ref < n; ref++ {
		st.SingletonOf(typesystem.SymbolRef(ref))
	}
	st.ancestors = make(map[typesystem.SymbolRef][]typesystem.SymbolRef, len(st.symbols))
	for ref := 1; ref < len(st.symbols); ref++ {
		r := typesystem.SymbolRef(ref)
		st.ancestors[r] = st.linearize(r)
	}
	st.frozen = true
}
