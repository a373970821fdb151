package mutator

import (
	"math/rand"

	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typesystem"
)

// TypeMutator applies random, meaning-aware rewrites to types.
type TypeMutator struct {
	rnd   *rand.Rand
	table *symbols.Table
}

// NewTypeMutator creates a new TypeMutator with the given seed. Rebuilt
// tuples and records use table's Array and Hash classes.
func NewTypeMutator(seed int64, table *symbols.Table) *TypeMutator {
	return &TypeMutator{
		rnd:   rand.New(rand.NewSource(seed)),
		table: table,
	}
}

// Widen replaces one leaf of t with one of its supertypes, so the result is
// always a supertype of t.
func (m *TypeMutator) Widen(t typesystem.Type) typesystem.Type {
	target := m.rnd.Intn(countLeaves(t))
	return m.rewriteLeaf(t, &target)
}

// Commute swaps the arms of one union or intersection in t. The result is
// equivalent to t. Types without such a node come back unchanged.
func (m *TypeMutator) Commute(t typesystem.Type) typesystem.Type {
	n := countJoins(t)
	if n == 0 {
		return t
	}
	target := m.rnd.Intn(n)
	return m.swapJoin(t, &target)
}

func (m *TypeMutator) rewriteLeaf(t typesystem.Type, idx *int) typesystem.Type {
	switch n := t.(type) {
	case *typesystem.OrType:
		l := m.rewriteLeaf(n.Left(), idx)
		r := m.rewriteLeaf(n.Right(), idx)
		return typesystem.NewOr(l, r)
	case *typesystem.AndType:
		l := m.rewriteLeaf(n.Left(), idx)
		r := m.rewriteLeaf(n.Right(), idx)
		return typesystem.NewAnd(l, r)
	case *typesystem.ArrayType:
		if n.Len() > 0 {
			elems := n.Elems()
			for i := range elems {
				elems[i] = m.rewriteLeaf(elems[i], idx)
			}
			return m.table.Array(elems)
		}
	case *typesystem.HashType:
		if n.Len() > 0 {
			values := n.Values()
			for i := range values {
				values[i] = m.rewriteLeaf(values[i], idx)
			}
			return m.table.Hash(n.Keys(), values)
		}
	}

	hit := *idx == 0
	*idx--
	if !hit {
		return t
	}
	return m.widenLeaf(t)
}

func (m *TypeMutator) widenLeaf(t typesystem.Type) typesystem.Type {
	switch n := t.(type) {
	case *typesystem.ClassType:
		if mixins := m.table.Mixins(n.Symbol()); len(mixins) > 0 && m.rnd.Intn(2) == 0 {
			return typesystem.NewClassType(mixins[m.rnd.Intn(len(mixins))])
		}
		if super := m.table.Superclass(n.Symbol()); super != typesystem.NoSymbol {
			return typesystem.NewClassType(super)
		}
		return typesystem.Top()
	case typesystem.ProxyType:
		return n.Underlying()
	case *typesystem.NilType:
		if ref, ok := m.table.NilClass(); ok {
			return typesystem.NewClassType(ref)
		}
		return typesystem.Top()
	case *typesystem.BottomType:
		return typesystem.Top()
	}
	// top and dynamic have nothing above them worth naming.
	return t
}

func (m *TypeMutator) swapJoin(t typesystem.Type, idx *int) typesystem.Type {
	switch n := t.(type) {
	case *typesystem.OrType:
		if *idx == 0 {
			*idx--
			return typesystem.NewOr(n.Right(), n.Left())
		}
		*idx--
		return typesystem.NewOr(m.swapJoin(n.Left(), idx), m.swapJoin(n.Right(), idx))
	case *typesystem.AndType:
		if *idx == 0 {
			*idx--
			return typesystem.NewAnd(n.Right(), n.Left())
		}
		*idx--
		return typesystem.NewAnd(m.swapJoin(n.Left(), idx), m.swapJoin(n.Right(), idx))
	case *typesystem.ArrayType:
		elems := n.Elems()
		for i := range elems {
			elems[i] = m.swapJoin(elems[i], idx)
		}
		return m.table.Array(elems)
	case *typesystem.HashType:
		values := n.Values()
		for i := range values {
			values[i] = m.swapJoin(values[i], idx)
		}
		return m.table.Hash(n.Keys(), values)
	}
	return t
}

func countLeaves(t typesystem.Type) int {
	switch n := t.(type) {
	case *typesystem.OrType:
		return countLeaves(n.Left()) + countLeaves(n.Right())
	case *typesystem.AndType:
		return countLeaves(n.Left()) + countLeaves(n.Right())
	case *typesystem.ArrayType:
		if n.Len() > 0 {
			total := 0
			for _, e := range n.Elems() {
				total += countLeaves(e)
			}
			return total
		}
	case *typesystem.HashType:
		if n.Len() > 0 {
			total := 0
			for _, v := range n.Values() {
				total += countLeaves(v)
			}
			return total
		}
	}
	return 1
}

func countJoins(t typesystem.Type) int {
	switch n := t.(type) {
	case *typesystem.OrType:
		return 1 + countJoins(n.Left()) + countJoins(n.Right())
	case *typesystem.AndType:
		return 1 + countJoins(n.Left()) + countJoins(n.Right())
	case *typesystem.ArrayType:
		total := 0
		for _, e := range n.Elems() {
			total += countJoins(e)
		}
		return total
	case *typesystem.HashType:
		total := 0
		for _, v := range n.Values() {
			total += countJoins(v)
		}
		return total
	}
	return 0
}
