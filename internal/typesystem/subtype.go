package typesystem

// IsSubType reports whether every value described by t1 is also described
// by t2. Rules apply in a fixed precedence; dynamic short-circuits first.
func IsSubType(ctx Context, t1, t2 Type) bool {
	mustBeType(t1, "subtype operand")
	mustBeType(t2, "supertype operand")

	if t1.IsDynamic() || t2.IsDynamic() {
		return true
	}
	if t1.Tag() == TagBottom || t2.Tag() == TagTop {
		return true
	}

	if or, ok := t1.(*OrType); ok {
		return IsSubType(ctx, or.left, t2) && IsSubType(ctx, or.right, t2)
	}
	if and, ok := t2.(*AndType); ok {
		return IsSubType(ctx, t1, and.left) && IsSubType(ctx, t1, and.right)
	}
	if and, ok := t1.(*AndType); ok {
		if IsSubType(ctx, and.left, t2) || IsSubType(ctx, and.right, t2) {
			return true
		}
		// A & B <: (A & B) | C holds through the arm, not through either
		// conjunct alone.
		if or, ok := t2.(*OrType); ok {
			return IsSubType(ctx, t1, or.left) || IsSubType(ctx, t1, or.right)
		}
		return false
	}
	if or, ok := t2.(*OrType); ok {
		return IsSubType(ctx, t1, or.left) || IsSubType(ctx, t1, or.right)
	}

	// A refinement is a subtype of anything its underlying type is a
	// subtype of, never the reverse.
	if p1, ok := t1.(ProxyType); ok {
		if _, ok := t2.(ProxyType); !ok {
			return IsSubType(ctx, p1.Underlying(), t2)
		}
	}

	switch a := t1.(type) {
	case *ClassType:
		switch b := t2.(type) {
		case *ClassType:
			return derivesFrom(ctx, a.symbol, b.symbol)
		case *NilType:
			ref, ok := nilClass(ctx)
			return ok && derivesFrom(ctx, a.symbol, ref)
		}
		return false
	case *NilType:
		switch b := t2.(type) {
		case *NilType:
			return true
		case *ClassType:
			ref, ok := nilClass(ctx)
			return ok && derivesFrom(ctx, ref, b.symbol)
		}
		return false
	case *Literal:
		b, ok := t2.(*Literal)
		return ok && a.SamePayload(b)
	case *HashType:
		b, ok := t2.(*HashType)
		if !ok || len(a.keys) != len(b.keys) {
			return false
		}
		for i := range a.keys {
			if !a.keys[i].SamePayload(b.keys[i]) || !IsSubType(ctx, a.values[i], b.values[i]) {
				return false
			}
		}
		return true
	case *ArrayType:
		b, ok := t2.(*ArrayType)
		if !ok || len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !IsSubType(ctx, a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case *TopType:
		return false
	}
	return false
}

func derivesFrom(ctx Context, sub, super SymbolRef) bool {
	if sub == super {
		return true
	}
	if ctx == nil {
		return false
	}
	return ctx.DerivesFrom(sub, super)
}

func nilClass(ctx Context) (SymbolRef, bool) {
	if ctx == nil {
		return NoSymbol, false
	}
	return ctx.NilClass()
}
