package typeexpr

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	prev         TokenType
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, prev: ILLEGAL}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	tok := l.next()
	l.prev = tok.Type
	return tok
}

func (l *Lexer) next() Token {
	spaced := false
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
		spaced = true
	}
	col := l.position + 1
	single := func(t TokenType) Token {
		tok := Token{Type: t, Literal: string(l.ch), Column: col}
		l.readChar()
		return tok
	}

	switch {
	case l.ch == 0:
		return Token{Type: EOF, Column: col}
	case l.ch == '|':
		return single(PIPE)
	case l.ch == '&':
		return single(AMP)
	case l.ch == ',':
		return single(COMMA)
	case l.ch == '.':
		return single(DOT)
	case l.ch == '-':
		return single(MINUS)
	case l.ch == '(':
		return single(LPAREN)
	case l.ch == ')':
		return single(RPAREN)
	case l.ch == '[':
		return single(LBRACKET)
	case l.ch == ']':
		return single(RBRACKET)
	case l.ch == '{':
		return single(LBRACE)
	case l.ch == '}':
		return single(RBRACE)
	case l.ch == '=' && l.peekChar() == '>':
		l.readChar()
		l.readChar()
		return Token{Type: ARROW, Literal: "=>", Column: col}
	case l.ch == ':':
		// "a: T" inside a hash is a key separator, ":a" anywhere else a symbol.
		afterIdent := !spaced && (l.prev == IDENT_LOWER || l.prev == IDENT_UPPER)
		if !afterIdent && isIdentStart(l.peekChar()) {
			l.readChar()
			name := l.readIdentifier(true)
			return Token{Type: SYMBOL, Literal: name, Column: col}
		}
		return single(COLON)
	case isDigit(l.ch):
		return l.readNumber(col)
	case isIdentStart(l.ch):
		upper := l.ch >= 'A' && l.ch <= 'Z'
		name := l.readIdentifier(false)
		if upper {
			for l.ch == ':' && l.peekChar() == ':' {
				l.readChar()
				l.readChar()
				name += "::" + l.readIdentifier(false)
			}
			return Token{Type: IDENT_UPPER, Literal: name, Column: col}
		}
		return Token{Type: IDENT_LOWER, Literal: name, Column: col}
	}
	return single(ILLEGAL)
}

func (l *Lexer) readIdentifier(allowSuffix bool) string {
	start := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if allowSuffix && (l.ch == '?' || l.ch == '!' || l.ch == '=' && l.peekChar() != '>') {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(col int) Token {
	start := l.position
	isFloat := false
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	t := INT
	if isFloat {
		t = FLOAT
	}
	return Token{Type: t, Literal: l.input[start:l.position], Column: col}
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
