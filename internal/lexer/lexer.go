package lexer

import (
	"rbstyle/internal/source"
	"rbstyle/internal/token"
)

// Lexer produces tokens for the Ruby subset. Comments are skipped;
// newlines are significant because they terminate statements.
type Lexer struct {
	cursor Cursor
	opts   Options
}

// New creates a lexer over the given file.
func New(f *source.File, opts Options) *Lexer {
	return &Lexer{
		cursor: NewCursor(f),
		opts:   opts,
	}
}

// Next returns the next token, emitting EOF forever once exhausted.
func (lx *Lexer) Next() token.Token {
	lx.skipBlanks()

	mark := lx.cursor.Mark()
	if lx.cursor.EOF() {
		return lx.make(token.EOF, mark)
	}

	b := lx.cursor.Peek()
	switch {
	case b == '\n':
		lx.cursor.Bump()
		return lx.make(token.Newline, mark)
	case isIdentStart(b):
		return lx.scanIdent(mark)
	case b == '@':
		return lx.scanIVar(mark)
	case b == '$':
		return lx.scanGVar(mark)
	case b == ':':
		return lx.scanColon(mark)
	case isDigit(b):
		return lx.scanNumber(mark)
	case b == '\'' || b == '"':
		return lx.scanString(mark)
	}

	return lx.scanPunct(mark)
}

// Tokenize drains the lexer, including the trailing EOF token.
func (lx *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) make(kind token.Kind, m Mark) token.Token {
	span := lx.cursor.SpanFrom(m)
	return token.Token{
		Kind: kind,
		Span: span,
		Text: string(lx.cursor.File.Content[span.Start:span.End]),
	}
}

// skipBlanks consumes spaces, tabs, comments, and line continuations.
func (lx *Lexer) skipBlanks() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		case '\\':
			// A backslash at end of line continues the statement.
			if lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
			} else {
				return
			}
		case '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent(mark Mark) token.Token {
	first := lx.cursor.Bump()
	for isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// Ruby method names may end with ? or !. Leave the byte alone when
	// it starts a comparison operator (`a!=b`).
	if b := lx.cursor.Peek(); b == '?' || b == '!' {
		if lx.cursor.PeekAt(1) != '=' {
			lx.cursor.Bump()
		}
	}

	tok := lx.make(token.Ident, mark)
	if isUpper(first) {
		tok.Kind = token.Const
		return tok
	}
	tok.Kind = token.LookupKeyword(tok.Text, token.Ident)
	return tok
}

func (lx *Lexer) scanIVar(mark Mark) token.Token {
	lx.cursor.Bump() // '@'
	lx.cursor.Eat('@')
	for isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.make(token.IVar, mark)
}

func (lx *Lexer) scanGVar(mark Mark) token.Token {
	lx.cursor.Bump() // '$'
	for isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.make(token.GVar, mark)
}

func (lx *Lexer) scanColon(mark Mark) token.Token {
	lx.cursor.Bump() // ':'
	if lx.cursor.Eat(':') {
		return lx.make(token.ColonColon, mark)
	}
	if isIdentStart(lx.cursor.Peek()) {
		for isIdentCont(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if b := lx.cursor.Peek(); b == '?' || b == '!' {
			lx.cursor.Bump()
		}
		return lx.make(token.Symbol, mark)
	}
	return lx.make(token.Op, mark)
}

func (lx *Lexer) scanNumber(mark Mark) token.Token {
	for isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	return lx.make(token.IntLit, mark)
}

func (lx *Lexer) scanString(mark Mark) token.Token {
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			return lx.make(token.StringLit, mark)
		}
	}
	tok := lx.make(token.StringLit, mark)
	lx.report(ReportUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) scanPunct(mark Mark) token.Token {
	b := lx.cursor.Bump()
	switch b {
	case '(':
		return lx.make(token.LParen, mark)
	case ')':
		return lx.make(token.RParen, mark)
	case '[':
		return lx.make(token.LBracket, mark)
	case ']':
		return lx.make(token.RBracket, mark)
	case '{':
		return lx.make(token.LBrace, mark)
	case '}':
		return lx.make(token.RBrace, mark)
	case ',':
		return lx.make(token.Comma, mark)
	case '.':
		return lx.make(token.Dot, mark)
	case ';':
		return lx.make(token.Semicolon, mark)
	}

	if isOpChar(b) {
		for isOpChar(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.make(token.Op, mark)
	}

	tok := lx.make(token.Op, mark)
	lx.report(ReportUnknownChar, tok.Span, "unknown character "+tok.Text)
	return tok
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isOpChar(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~', '?':
		return true
	default:
		return false
	}
}
