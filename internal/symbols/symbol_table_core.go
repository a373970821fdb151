package symbols

import (
	"errors"
	"fmt"

	"github.com/funvibe/gradual/internal/typesystem"
)

type SymbolKind int

const (
	ClassSymbol SymbolKind = iota
	ModuleSymbol
	SingletonSymbol // The singleton class holding class-level methods
)

func (k SymbolKind) String() string {
	switch k {
	case ClassSymbol:
		return "class"
	case ModuleSymbol:
		return "module"
	case SingletonSymbol:
		return "singleton class"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(k))
}

// ErrFrozen is the panic value of every mutating call on a frozen table.
var ErrFrozen = errors.New("symbol table is frozen")

type symbol struct {
	ref        typesystem.SymbolRef
	name       string
	kind       SymbolKind
	superclass typesystem.SymbolRef
	mixins     []typesystem.SymbolRef // in include order
	methods    map[string]*typesystem.Method
	singleton  typesystem.SymbolRef // singleton class, once created
	attached   typesystem.SymbolRef // for singleton classes: the class they belong to
}

// Table owns class and module identities, their ancestry and method tables.
type Table struct {
	symbols []*symbol // indexed by SymbolRef; slot 0 is unused
	byName  map[string]typesystem.SymbolRef
	strict  bool
	frozen  bool

	ancestors map[typesystem.SymbolRef][]typesystem.SymbolRef // filled by Freeze
}

// NewEmptyTable creates a table without any built-in classes.
func NewEmptyTable() *Table {
	return &Table{
		symbols: []*symbol{nil},
		byName:  make(map[string]typesystem.SymbolRef),
	}
}

func (t *Table) get(ref typesystem.SymbolRef) *symbol {
	if int(ref) <= 0 || int(ref) >= len(t.symbols) {
		return nil
	}
	return t.symbols[ref]
}

// Lookup finds a class or module by name.
func (t *Table) Lookup(name string) (typesystem.SymbolRef, bool) {
	ref, ok := t.byName[name]
	return ref, ok
}

func (t *Table) Kind(ref typesystem.SymbolRef) (SymbolKind, bool) {
	s := t.get(ref)
	if s == nil {
		return 0, false
	}
	return s.kind, true
}

// Superclass returns the direct superclass of ref, or NoSymbol for roots
// and modules.
func (t *Table) Superclass(ref typesystem.SymbolRef) typesystem.SymbolRef {
	if s := t.get(ref); s != nil {
		return s.superclass
	}
	return typesystem.NoSymbol
}

// Mixins returns the modules ref includes, in include order.
func (t *Table) Mixins(ref typesystem.SymbolRef) []typesystem.SymbolRef {
	if s := t.get(ref); s != nil {
		return append([]typesystem.SymbolRef(nil), s.mixins...)
	}
	return nil
}

// Len is the number of symbols, singleton classes included.
func (t *Table) Len() int { return len(t.symbols) - 1 }

func (t *Table) IsFrozen() bool { return t.frozen }
