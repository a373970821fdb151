package typeexpr

import "fmt"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT_UPPER // Integer, Foo::Bar
	IDENT_LOWER // keywords and hash keys
	INT
	FLOAT
	SYMBOL // :name

	PIPE     // |
	AMP      // &
	COLON    // :
	COMMA    // ,
	DOT      // .
	ARROW    // =>
	MINUS    // -
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
)

var tokenNames = map[TokenType]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "end of input",
	IDENT_UPPER: "class name",
	IDENT_LOWER: "identifier",
	INT:         "integer",
	FLOAT:       "float",
	SYMBOL:      "symbol",
	PIPE:        "'|'",
	AMP:         "'&'",
	COLON:       "':'",
	COMMA:       "','",
	DOT:         "'.'",
	ARROW:       "'=>'",
	MINUS:       "'-'",
	LPAREN:      "'('",
	RPAREN:      "')'",
	LBRACKET:    "'['",
	RBRACKET:    "']'",
	LBRACE:      "'{'",
	RBRACE:      "'}'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Token struct {
	Type    TokenType
	Literal string
	Column  int // 1-based byte offset in the expression
}
