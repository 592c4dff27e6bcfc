package token

var keywords = map[string]Kind{
	"module": KwModule,
	"class":  KwClass,
	"def":    KwDef,
	"end":    KwEnd,
	"self":   KwSelf,
	"do":     KwDo,
	"if":     KwIf,
	"unless": KwUnless,
	"while":  KwWhile,
	"until":  KwUntil,
	"case":   KwCase,
	"begin":  KwBegin,
	"for":    KwFor,
	"then":   KwThen,
	"else":   KwElse,
	"elsif":  KwElsif,
	"when":   KwWhen,
	"rescue": KwRescue,
	"ensure": KwEnsure,
	"return": KwReturn,
	"nil":    KwNil,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword maps an identifier spelling to its keyword kind.
// Non-keywords return the fallback kind untouched.
func LookupKeyword(text string, fallback Kind) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return fallback
}
