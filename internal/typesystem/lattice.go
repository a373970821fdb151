package typesystem

import "github.com/hashicorp/go-set/v3"

// Lub is the least upper bound of t1 and t2.
func Lub(ctx Context, t1, t2 Type) Type {
	mustBeType(t1, "lub operand")
	mustBeType(t2, "lub operand")

	if t1.IsDynamic() || t2.IsDynamic() {
		return Dynamic()
	}
	if IsSubType(ctx, t1, t2) {
		return t2
	}
	if IsSubType(ctx, t2, t1) {
		return t1
	}
	if t1.Tag() == TagOr || t2.Tag() == TagOr {
		return foldArms(ctx, TagOr, t1, t2)
	}
	return NewOr(t1, t2)
}

// Glb is the greatest lower bound of t1 and t2. Dynamic contributes
// nothing to a meet.
func Glb(ctx Context, t1, t2 Type) Type {
	mustBeType(t1, "glb operand")
	mustBeType(t2, "glb operand")

	if t1.IsDynamic() {
		return t2
	}
	if t2.IsDynamic() {
		return t1
	}
	if IsSubType(ctx, t1, t2) {
		return t1
	}
	if IsSubType(ctx, t2, t1) {
		return t2
	}
	if t1.Tag() == TagAnd || t2.Tag() == TagAnd {
		return foldArms(ctx, TagAnd, t1, t2)
	}
	return NewAnd(t1, t2)
}

// Equiv reports mutual subtyping.
func Equiv(ctx Context, t1, t2 Type) bool {
	return IsSubType(ctx, t1, t2) && IsSubType(ctx, t2, t1)
}

// foldArms merges the arms of two unions (or conjuncts of two
// intersections) into one canonical right-nested node. Duplicate arms are
// dropped, as are arms made redundant by another arm: for a union the
// narrower arm goes, for an intersection the wider one.
func foldArms(ctx Context, tag Tag, t1, t2 Type) Type {
	var arms []Type
	arms = flatten(tag, t1, arms)
	arms = flatten(tag, t2, arms)

	redundant := func(a, b Type) bool {
		if tag == TagOr {
			return IsSubType(ctx, a, b)
		}
		return IsSubType(ctx, b, a)
	}

	seen := set.New[string](len(arms))
	kept := make([]Type, 0, len(arms))
	for _, arm := range arms {
		if !seen.Insert(arm.key()) {
			continue
		}
		covered := false
		for _, k := range kept {
			if redundant(arm, k) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		next := kept[:0]
		for _, k := range kept {
			if !redundant(k, arm) {
				next = append(next, k)
			}
		}
		kept = append(next, arm)
	}

	result := kept[len(kept)-1]
	for i := len(kept) - 2; i >= 0; i-- {
		if tag == TagOr {
			result = NewOr(kept[i], result)
		} else {
			result = NewAnd(kept[i], result)
		}
	}
	return result
}

func flatten(tag Tag, t Type, into []Type) []Type {
	switch n := t.(type) {
	case *OrType:
		if tag == TagOr {
			return flatten(tag, n.right, flatten(tag, n.left, into))
		}
	case *AndType:
		if tag == TagAnd {
			return flatten(tag, n.right, flatten(tag, n.left, into))
		}
	}
	return append(into, t)
}
