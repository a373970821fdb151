package symbols

import (
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/typesystem"
)

var _ typesystem.Context = (*Table)(nil)

// Ancestors returns ref followed by its ancestors in method resolution
// order: included modules (last included first, with their own mixins),
// then the superclass chain. A module the superclass chain already holds
// keeps its place there.
func (st *Table) Ancestors(ref typesystem.SymbolRef) []typesystem.SymbolRef {
	if st.frozen {
		return append([]typesystem.SymbolRef(nil), st.ancestors[ref]...)
	}
	return st.linearize(ref)
}

func (st *Table) linearize(ref typesystem.SymbolRef) []typesystem.SymbolRef {
	s := st.get(ref)
	if s == nil {
		return nil
	}
	var chain []typesystem.SymbolRef
	if s.superclass != typesystem.NoSymbol {
		chain = st.linearize(s.superclass)
	}
	inherited := set.From(chain)

	seen := set.New[typesystem.SymbolRef](len(chain) + len(s.mixins) + 1)
	seen.Insert(ref)
	out := []typesystem.SymbolRef{ref}
	for i := len(s.mixins) - 1; i >= 0; i-- {
		for _, m := range st.linearize(s.mixins[i]) {
			if !inherited.Contains(m) && seen.Insert(m) {
				out = append(out, m)
			}
		}
	}
	for _, a := range chain {
		if seen.Insert(a) {
			out = append(out, a)
		}
	}
	return out
}

func (st *Table) derivesFrom(sub, super typesystem.SymbolRef) bool {
	if sub == super {
		return st.get(sub) != nil
	}
	for _, a := range st.Ancestors(sub) {
		if a == super {
			return true
		}
	}
	return false
}

// ClassName implements typesystem.Context. Singleton classes render as
// "Name.singleton".
func (st *Table) ClassName(ref typesystem.SymbolRef) string {
	if s := st.get(ref); s != nil {
		return s.name
	}
	return "Class(#" + strconv.FormatUint(uint64(ref), 10) + ")"
}

// DerivesFrom implements typesystem.Context.
func (st *Table) DerivesFrom(sub, super typesystem.SymbolRef) bool {
	return st.derivesFrom(sub, super)
}

// LookupMethod implements typesystem.Context: the first ancestor defining
// name wins.
func (st *Table) LookupMethod(owner typesystem.SymbolRef, name string) (*typesystem.Method, bool) {
	var order []typesystem.SymbolRef
	if st.frozen {
		order = st.ancestors[owner]
	} else {
		order = st.linearize(owner)
	}
	for _, ref := range order {
		if m, ok := st.symbols[ref].methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// NilClass implements typesystem.Context.
func (st *Table) NilClass() (typesystem.SymbolRef, bool) {
	ref, ok := st.byName[config.NilClassName]
	return ref, ok
}

func (st *Table) IsStrictMode() bool { return st.strict }

// Methods lists the instance methods defined directly on ref, by name.
func (st *Table) Methods(ref typesystem.SymbolRef) []*typesystem.Method {
	s := st.get(ref)
	if s == nil {
		return nil
	}
	out := make([]*typesystem.Method, 0, len(s.methods))
	for _, m := range s.methods {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *typesystem.Method) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
