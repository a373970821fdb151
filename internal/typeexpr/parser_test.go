package typeexpr

import (
	"errors"
	"testing"

	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typesystem"
)

func newTable(t *testing.T) *symbols.Table {
	t.Helper()
	st := symbols.NewTable()
	if _, err := st.DefineModule("Enumerable"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.DefineClass("Net::HTTP", "Object"); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestParseRoundTrip(t *testing.T) {
	st := newTable(t)
	tests := []string{
		"Integer",
		"Net::HTTP",
		"Integer | String",
		"Integer | String | Symbol",
		"Comparable & Enumerable",
		"(Integer | String) & Comparable",
		"Integer | String & Comparable",
		"5",
		"-12",
		"1.5",
		"2.0",
		":name",
		":empty?",
		"true",
		"false",
		"nil",
		"dynamic",
		"top",
		"bottom",
		"[]",
		"[Integer, :a, [String]]",
		"{}",
		"{a: Integer, b: String | nil}",
		"{1 => String, true => Integer}",
		"Integer.singleton",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			typ, err := Parse(st, src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", src, err)
			}
			if got := typesystem.Describe(st, typ); got != src {
				t.Errorf("Describe(Parse(%q)) = %q", src, got)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	st := newTable(t)

	typ := MustParse(st, "Integer | String | Symbol")
	or, ok := typ.(*typesystem.OrType)
	if !ok {
		t.Fatalf("expected OrType, got %s", typ.TypeName())
	}
	if _, ok := or.Right().(*typesystem.OrType); !ok {
		t.Errorf("unions should nest to the right, got %s", typesystem.Describe(st, typ))
	}

	lit, ok := MustParse(st, "1_000").(*typesystem.Literal)
	if !ok || lit.IntValue() != 1000 {
		t.Errorf("1_000 should parse to Integer(1000), got %v", lit)
	}
	if got := MustParse(st, "010").(*typesystem.Literal).IntValue(); got != 10 {
		t.Errorf("010 = %d, want decimal 10", got)
	}

	if !typesystem.IsSubType(st, MustParse(st, "true"), MustParse(st, "TrueClass")) {
		t.Errorf("true should be a TrueClass literal")
	}

	h := MustParse(st, "{:a => Integer, b:String}").(*typesystem.HashType)
	if h.Len() != 2 || h.Keys()[0].SymbolName() != "a" || h.Keys()[1].SymbolName() != "b" {
		t.Errorf("unexpected hash keys in %s", typesystem.Describe(st, h))
	}

	ref, _ := st.Lookup("Integer")
	meta := MustParse(st, "Integer.singleton").(*typesystem.ClassType)
	if meta.Symbol() != st.SingletonOf(ref) {
		t.Errorf("Integer.singleton should resolve to the singleton class")
	}
}

func TestParseErrors(t *testing.T) {
	st := newTable(t)
	tests := []struct {
		src    string
		column int
	}{
		{"", 1},
		{"Missing", 1},
		{"Integer |", 10},
		{"Integer String", 9},
		{"(Integer", 9},
		{"[Integer", 9},
		{"{a: Integer", 12},
		{"{a: Integer, a: String}", 14},
		{"{Integer => String}", 2},
		{"foo", 1},
		{"Integer.class", 9},
		{"-", 2},
		{"Integer $", 9},
		{"99999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(st, tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.src)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if se.Column != tt.column {
				t.Errorf("column = %d, want %d (%v)", se.Column, tt.column, err)
			}
		})
	}
}

func TestLexerSymbolVersusKeySeparator(t *testing.T) {
	l := NewLexer("{a::b, :c => d}")
	var got []TokenType
	for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
		got = append(got, tok.Type)
	}
	want := []TokenType{LBRACE, IDENT_LOWER, COLON, SYMBOL, COMMA, SYMBOL, ARROW, IDENT_LOWER, RBRACE}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerSymbolAfterSpace(t *testing.T) {
	l := NewLexer("Integer :a")
	if tok := l.NextToken(); tok.Type != IDENT_UPPER {
		t.Fatalf("first token = %s", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != SYMBOL || tok.Literal != "a" {
		t.Errorf("second token = %s %q, want SYMBOL \"a\"", tok.Type, tok.Literal)
	}
}

func TestParseSequence(t *testing.T) {
	st := newTable(t)
	types, err := ParseSequence(st, "Integer | String Comparable [1, 2]")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, typ := range types {
		got = append(got, typesystem.Describe(st, typ))
	}
	want := []string{"Integer | String", "Comparable", "[1, 2]"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("type %d = %q, want %q", i, got[i], want[i])
		}
	}

	if types, err := ParseSequence(st, "  "); err != nil || len(types) != 0 {
		t.Errorf("blank input = %v, %v", types, err)
	}
	if _, err := ParseSequence(st, "Integer |"); err == nil {
		t.Errorf("dangling | should fail")
	}
}

func TestSplitAtMethod(t *testing.T) {
	tests := []struct {
		in                 string
		recv, method, rest string
		ok                 bool
	}{
		{"Integer succ", "Integer ", "succ", "", true},
		{"Integer | nil between? 1 2", "Integer | nil ", "between?", " 1 2", true},
		{"{a: Integer} fetch :a", "{a: Integer} ", "fetch", " :a", true},
		{"dynamic true", "", "", "", false},
	}
	for _, tt := range tests {
		recv, method, rest, ok := SplitAtMethod(tt.in)
		if ok != tt.ok || recv != tt.recv || method != tt.method || rest != tt.rest {
			t.Errorf("SplitAtMethod(%q) = %q, %q, %q, %v", tt.in, recv, method, rest, ok)
		}
	}
}
