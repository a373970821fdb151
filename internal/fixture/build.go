package fixture

import (
	"fmt"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typeexpr"
	"github.com/funvibe/gradual/internal/typesystem"
)

// Build creates a frozen symbol table holding the built-ins plus every class
// the fixture declares. Classes may be listed before their superclass.
func (f *Fixture) Build() (*symbols.Table, error) {
	st := symbols.NewTable()
	st.SetStrictMode(f.Strict)

	if err := f.defineClasses(st); err != nil {
		return nil, err
	}
	for _, c := range f.Classes {
		for _, m := range c.Include {
			if err := st.Include(c.Name, m); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Path, c.Line, err)
			}
		}
	}
	for _, c := range f.Classes {
		ref, _ := st.Lookup(c.Name)
		for _, md := range c.Methods {
			m, err := resolveMethod(st, md)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %s#%s: %w", f.Path, c.Line, c.Name, md.Name, err)
			}
			if err := st.DefineMethod(ref, m); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Path, c.Line, err)
			}
		}
		for _, md := range c.SingletonMethods {
			m, err := resolveMethod(st, md)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %s.%s: %w", f.Path, c.Line, c.Name, md.Name, err)
			}
			if err := st.DefineSingletonMethod(ref, m); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", f.Path, c.Line, err)
			}
		}
	}

	st.Freeze()
	return st, nil
}

// defineClasses defines in dependency order, repeating passes until every
// superclass is known.
func (f *Fixture) defineClasses(st *symbols.Table) error {
	pending := make([]ClassDecl, 0, len(f.Classes))
	for _, c := range f.Classes {
		ref, exists := st.Lookup(c.Name)
		if !exists {
			pending = append(pending, c)
			continue
		}
		// Reopening an existing class or module.
		kind, _ := st.Kind(ref)
		if c.Module != (kind == symbols.ModuleSymbol) {
			return fmt.Errorf("%s:%d: %s is a %s", f.Path, c.Line, c.Name, kind)
		}
		if c.Superclass != "" && st.ClassName(st.Superclass(ref)) != c.Superclass {
			return fmt.Errorf("%s:%d: superclass mismatch for %s", f.Path, c.Line, c.Name)
		}
	}

	for len(pending) > 0 {
		var next []ClassDecl
		for _, c := range pending {
			if c.Module {
				if _, err := st.DefineModule(c.Name); err != nil {
					return fmt.Errorf("%s:%d: %w", f.Path, c.Line, err)
				}
				continue
			}
			super := c.Superclass
			if super == "" {
				super = config.ObjectClassName
			}
			if _, ok := st.Lookup(super); !ok {
				next = append(next, c)
				continue
			}
			if _, err := st.DefineClass(c.Name, super); err != nil {
				return fmt.Errorf("%s:%d: %w", f.Path, c.Line, err)
			}
		}
		if len(next) == len(pending) {
			c := next[0]
			return fmt.Errorf("%s:%d: superclass %s of %s is not defined", f.Path, c.Line, c.Superclass, c.Name)
		}
		pending = next
	}
	return nil
}

func resolveMethod(st *symbols.Table, md MethodDecl) (typesystem.Method, error) {
	result, err := typeexpr.Parse(st, md.Returns)
	if err != nil {
		return typesystem.Method{}, fmt.Errorf("returns: %w", err)
	}
	m := typesystem.Method{Name: md.Name, Result: result}
	for _, pd := range md.Params {
		t, err := typeexpr.Parse(st, pd.Type)
		if err != nil {
			return typesystem.Method{}, fmt.Errorf("param %s: %w", pd.Name, err)
		}
		m.Params = append(m.Params, typesystem.Param{
			Name:     pd.Name,
			Type:     t,
			Optional: pd.Optional,
			Repeated: pd.Repeated,
		})
	}
	return m, nil
}
