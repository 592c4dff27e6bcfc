package token

// Kind enumerates the token kinds of the Ruby subset the checker
// understands. Anything the scanner cannot classify more precisely
// lands in Op, which is enough for statement-shape analysis.
type Kind uint8

const (
	EOF Kind = iota
	Newline
	Ident
	Const
	IVar
	GVar
	Symbol
	IntLit
	StringLit

	// Keywords.
	KwModule
	KwClass
	KwDef
	KwEnd
	KwSelf
	KwDo
	KwIf
	KwUnless
	KwWhile
	KwUntil
	KwCase
	KwBegin
	KwFor
	KwThen
	KwElse
	KwElsif
	KwWhen
	KwRescue
	KwEnsure
	KwReturn
	KwNil
	KwTrue
	KwFalse

	// Punctuation and operators.
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	ColonColon
	Semicolon
	Op
)

var kindNames = map[Kind]string{
	EOF:        "EOF",
	Newline:    "Newline",
	Ident:      "Ident",
	Const:      "Const",
	IVar:       "IVar",
	GVar:       "GVar",
	Symbol:     "Symbol",
	IntLit:     "IntLit",
	StringLit:  "StringLit",
	KwModule:   "module",
	KwClass:    "class",
	KwDef:      "def",
	KwEnd:      "end",
	KwSelf:     "self",
	KwDo:       "do",
	KwIf:       "if",
	KwUnless:   "unless",
	KwWhile:    "while",
	KwUntil:    "until",
	KwCase:     "case",
	KwBegin:    "begin",
	KwFor:      "for",
	KwThen:     "then",
	KwElse:     "else",
	KwElsif:    "elsif",
	KwWhen:     "when",
	KwRescue:   "rescue",
	KwEnsure:   "ensure",
	KwReturn:   "return",
	KwNil:      "nil",
	KwTrue:     "true",
	KwFalse:    "false",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	LBrace:     "{",
	RBrace:     "}",
	Comma:      ",",
	Dot:        ".",
	ColonColon: "::",
	Semicolon:  ";",
	Op:         "Op",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
