package typesystem

import "testing"

func TestIsSubType(t *testing.T) {
	ctx := newTestContext()
	hashA := NewHashType(tHash, []*Literal{symLit("a")}, []Type{intLit(1)})
	hashAWide := NewHashType(tHash, []*Literal{symLit("a")}, []Type{tInteger})
	hashB := NewHashType(tHash, []*Literal{symLit("b")}, []Type{tInteger})

	tests := []struct {
		name string
		t1   Type
		t2   Type
		want bool
	}{
		{"class reflexive", tInteger, tInteger, true},
		{"subclass", tInteger, tNumeric, true},
		{"transitive superclass", tInteger, tObject, true},
		{"mixin", tInteger, tComparable, true},
		{"superclass not subclass", tNumeric, tInteger, false},
		{"unrelated", tInteger, tString, false},
		{"module not class", tComparable, tInteger, false},

		{"union left", NewOr(tInteger, tFloat), tNumeric, true},
		{"union one arm fails", NewOr(tInteger, tString), tNumeric, false},
		{"into union", tInteger, NewOr(tString, tInteger), true},
		{"into union neither", tSymbol, NewOr(tString, tInteger), false},
		{"into intersection", tInteger, NewAnd(tNumeric, tComparable), true},
		{"into intersection one fails", tFloat, NewAnd(tNumeric, tComparable), false},
		{"intersection either conjunct", NewAnd(tComparable, tInteger), tNumeric, true},
		{"intersection neither", NewAnd(tComparable, tFloat), tString, false},
		{"intersection into union arm", NewAnd(tNumeric, tComparable), NewOr(NewAnd(tNumeric, tComparable), tString), true},
		{"intersection into union no arm", NewAnd(tNumeric, tComparable), NewOr(tFloat, tString), false},
		{"union reflexive through intersection", NewOr(NewAnd(tNumeric, tComparable), tString), NewOr(NewAnd(tNumeric, tComparable), tString), true},

		{"literal to class", intLit(5), tInteger, true},
		{"literal to superclass", intLit(5), tComparable, true},
		{"class to literal", tInteger, intLit(5), false},
		{"literal different payload", intLit(5), intLit(6), false},
		{"literal same payload", intLit(5), intLit(5), true},
		{"literal vs symbol literal", intLit(1), symLit("1"), false},
		{"literal to wrong class", intLit(5), tString, false},
		{"literal into union", intLit(5), NewOr(tString, tNumeric), true},

		{"tuple covariant", tuple(intLit(1), tString), tuple(tInteger, tString), true},
		{"tuple not contravariant", tuple(tInteger), tuple(intLit(1)), false},
		{"tuple length", tuple(tInteger), tuple(tInteger, tInteger), false},
		{"tuple to Array", tuple(tInteger), tArray, true},
		{"Array to tuple", tArray, tuple(tInteger), false},
		{"record covariant", hashA, hashAWide, true},
		{"record not contravariant", hashAWide, hashA, false},
		{"record keys differ", hashAWide, hashB, false},
		{"record to Hash", hashA, tHash, true},
		{"record vs tuple", hashA, tuple(tInteger), false},

		{"nil reflexive", Nil(), Nil(), true},
		{"nil to Object", Nil(), tObject, true},
		{"nil to Integer", Nil(), tInteger, false},
		{"nilable", Nil(), NewOr(tInteger, Nil()), true},
		{"Integer to nil", tInteger, Nil(), false},

		{"bottom to anything", Bottom(), tInteger, true},
		{"anything to top", NewOr(tInteger, tString), Top(), true},
		{"top to class", Top(), tObject, false},
		{"class to bottom", tInteger, Bottom(), false},
		{"top to top", Top(), Top(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubType(ctx, tt.t1, tt.t2); got != tt.want {
				t.Errorf("IsSubType(%s, %s) = %v, want %v", Describe(ctx, tt.t1), Describe(ctx, tt.t2), got, tt.want)
			}
		})
	}
}

func TestDynamicIsTopAndBottom(t *testing.T) {
	ctx := newTestContext()
	for _, x := range []Type{tInteger, intLit(3), NewOr(tInteger, tString), Top(), Bottom(), Nil(), tuple()} {
		if !IsSubType(ctx, Dynamic(), x) {
			t.Errorf("dynamic <: %s should hold", Describe(ctx, x))
		}
		if !IsSubType(ctx, x, Dynamic()) {
			t.Errorf("%s <: dynamic should hold", Describe(ctx, x))
		}
	}
}

func TestLiteralsConstructedSeparately(t *testing.T) {
	ctx := newTestContext()
	a, b := intLit(5), intLit(5)
	if a == b {
		t.Fatal("test needs two distinct literal values")
	}
	if !Equiv(ctx, a, b) {
		t.Errorf("equal payloads must be equivalent")
	}
	f1, f2 := NewFloatLiteral(tFloat, 0.5), NewFloatLiteral(tFloat, 0.5)
	if !Equiv(ctx, f1, f2) {
		t.Errorf("float literals with the same payload must be equivalent")
	}
	if Equiv(ctx, NewBoolLiteral(tTrue, true), NewBoolLiteral(tTrue, false)) {
		t.Errorf("true and false literals must differ")
	}
}

func TestSubTypeWithoutContext(t *testing.T) {
	if !IsSubType(nil, tInteger, tInteger) {
		t.Errorf("a class is a subtype of itself even without a symbol table")
	}
	if IsSubType(nil, tInteger, tNumeric) {
		t.Errorf("ancestry needs a symbol table")
	}
}
