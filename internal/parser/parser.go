// Package parser turns a token stream into the statement-level AST.
// It understands module/class/def nesting and call-statement shapes;
// every other construct is consumed as an opaque statement with a
// correct span, which is all downstream analysis needs.
package parser

import (
	"rbstyle/internal/ast"
	"rbstyle/internal/diag"
	"rbstyle/internal/source"
	"rbstyle/internal/token"
)

// Options configures a parse run.
type Options struct {
	Reporter  diag.Reporter // may be nil
	MaxErrors uint          // 0 means unlimited
}

// Parser holds the token cursor and error state for one file.
type Parser struct {
	file   *source.File
	toks   []token.Token
	pos    int
	opts   Options
	errors uint
}

// ParseFile parses the given tokens (including the trailing EOF token)
// into an AST file.
func ParseFile(file *source.File, toks []token.Token, opts Options) *ast.File {
	p := &Parser{
		file: file,
		toks: toks,
		opts: opts,
	}
	stmts := p.parseStmts(false)
	// Statements can only be left over after an unbalanced `end`.
	for !p.atEOF() {
		p.reportError(diag.SynUnexpectedToken, p.cur().Span, "unexpected 'end'")
		p.advance()
		stmts = append(stmts, p.parseStmts(false)...)
	}
	return &ast.File{
		FileID: file.ID,
		Stmts:  stmts,
	}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == token.EOF
}

func (p *Parser) reportError(code diag.Code, span source.Span, msg string) {
	if p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors {
		return
	}
	p.errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(diag.NewError(code, span, msg))
	}
}

// text returns the source slice covered by span.
func (p *Parser) text(span source.Span) string {
	if span.Start >= span.End || int(span.End) > len(p.file.Content) {
		return ""
	}
	return string(p.file.Content[span.Start:span.End])
}

func (p *Parser) skipSeparators() {
	for {
		switch p.cur().Kind {
		case token.Newline, token.Semicolon:
			p.advance()
		default:
			return
		}
	}
}

// parseStmts parses statements until EOF, or until an `end` that
// closes the enclosing scope when insideScope is set. Clause keywords
// (rescue/ensure/else/...) are treated as headers belonging to the
// enclosing construct: the header line is skipped and parsing
// continues.
func (p *Parser) parseStmts(insideScope bool) []ast.Stmt {
	var stmts []ast.Stmt

	for {
		p.skipSeparators()
		t := p.cur()

		switch t.Kind {
		case token.EOF:
			return stmts
		case token.KwEnd:
			if insideScope {
				return stmts
			}
			// A stray end at top level: let the caller report it.
			return stmts
		case token.KwRescue, token.KwEnsure, token.KwElse, token.KwElsif, token.KwWhen, token.KwThen:
			p.advance()
			p.consumeOpaque(0)
			continue
		}

		stmts = append(stmts, p.parseStmt())
	}
}

// parseStmt parses one statement at head position.
func (p *Parser) parseStmt() ast.Stmt {
	t := p.cur()

	switch t.Kind {
	case token.KwModule:
		return p.parseModule()
	case token.KwClass:
		return p.parseClass()
	case token.KwDef:
		return p.parseDef()
	case token.KwIf, token.KwUnless, token.KwWhile, token.KwUntil,
		token.KwCase, token.KwBegin, token.KwFor:
		return p.parseOpaqueBlock()
	}

	if stmt, ok := p.tryParseCall(); ok {
		return stmt
	}

	start := t.Span
	end := p.consumeOpaque(0)
	return &ast.ExprStmt{SpanAll: start.Cover(end)}
}

// parseOpaqueBlock consumes a control-flow construct (`if ... end`,
// `while ... end`, ...) as a single opaque statement.
func (p *Parser) parseOpaqueBlock() ast.Stmt {
	opener := p.advance()
	loop := opener.Kind == token.KwWhile || opener.Kind == token.KwUntil || opener.Kind == token.KwFor
	end := p.scanOpaque(1, loop, opener.Span)
	return &ast.ExprStmt{SpanAll: opener.Span.Cover(end)}
}

// consumeOpaque consumes tokens up to the end of the current statement
// without building structure. blockDepth > 0 means the caller already
// entered that many `end`-terminated blocks. The returned span covers
// the last consumed token (or is the empty span at the start position
// when nothing was consumed).
func (p *Parser) consumeOpaque(blockDepth int) source.Span {
	at := p.cur().Span
	return p.scanOpaque(blockDepth, false, source.Span{File: p.file.ID, Start: at.Start, End: at.Start})
}

// scanOpaque is the shared statement scanner. With blockDepth == 0 it
// stops before a separator (or an `end` belonging to the enclosing
// scope); with blockDepth > 0 it runs until the matching `end` is
// consumed. loopHeader suppresses block-opening for the optional `do`
// of a loop header. errSpan anchors the missing-end diagnostic.
func (p *Parser) scanOpaque(blockDepth int, loopHeader bool, errSpan source.Span) source.Span {
	last := errSpan
	parenDepth := 0
	// Operand position: a control-flow keyword here opens a block
	// (`x = if cond`), elsewhere it is a statement modifier.
	expectOperand := true
	pendingLoopDo := loopHeader

	for {
		t := p.cur()
		if t.Kind == token.EOF {
			if blockDepth > 0 {
				p.reportError(diag.SynMissingEnd, errSpan, "missing 'end' before end of file")
			}
			return last
		}

		if blockDepth == 0 {
			if parenDepth == 0 && t.IsSeparator() {
				return last
			}
			if t.Kind == token.KwEnd {
				// Belongs to the enclosing scope.
				return last
			}
		}

		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			parenDepth++
			expectOperand = true
		case token.RParen, token.RBracket, token.RBrace:
			if parenDepth > 0 {
				parenDepth--
			}
			expectOperand = false
		case token.KwEnd:
			blockDepth--
			expectOperand = false
			if blockDepth == 0 {
				adv := p.advance()
				return adv.Span
			}
		case token.KwDo:
			if pendingLoopDo {
				pendingLoopDo = false
			} else {
				blockDepth++
			}
			expectOperand = true
		case token.KwWhile, token.KwUntil, token.KwFor:
			if expectOperand {
				blockDepth++
				pendingLoopDo = true
			}
		case token.Newline, token.Semicolon, token.KwThen, token.KwElse,
			token.KwElsif, token.KwWhen, token.KwRescue, token.KwEnsure,
			token.Op, token.Comma, token.Dot, token.ColonColon, token.KwReturn:
			expectOperand = true
		default:
			if t.OpensEndBlock() {
				if expectOperand {
					blockDepth++
				}
			} else {
				expectOperand = false
			}
		}

		last = p.advance().Span
	}
}
