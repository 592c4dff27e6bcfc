package parser

import (
	"rbstyle/internal/ast"
	"rbstyle/internal/source"
	"rbstyle/internal/token"
)

// tryParseCall recognizes a statement whose head is a method call and
// builds a CallStmt for it. It commits only after deciding the
// statement is a call; otherwise it consumes nothing and returns
// false.
func (p *Parser) tryParseCall() (ast.Stmt, bool) {
	t0 := p.cur()

	switch t0.Kind {
	case token.Ident, token.Const, token.IVar, token.GVar, token.KwSelf:
	default:
		return nil, false
	}

	// Skip over a constant path receiver (`Foo::Bar`).
	idx := 1
	for p.peek(idx).Kind == token.ColonColon && p.peek(idx+1).Kind == token.Const {
		idx += 2
	}

	if after := p.peek(idx); after.Kind == token.Dot {
		method := p.peek(idx + 1)
		if method.Kind != token.Ident && method.Kind != token.Const {
			return nil, false
		}
		// `foo.bar = x` is an assignment, not a call statement.
		if nxt := p.peek(idx + 2); nxt.Kind == token.Op && isAssignOp(nxt.Text) {
			return nil, false
		}
		// Chained receivers (`a.b.c x`) stay opaque.
		if p.peek(idx+2).Kind == token.Dot {
			return nil, false
		}
		for i := 0; i < idx+2; i++ {
			p.advance()
		}
		return p.parseCallRest(method, true, t0.Span)
	}

	if idx == 1 && t0.Kind == token.Ident {
		if nt := p.peek(1); nt.Kind == token.Op && isAssignOp(nt.Text) {
			return nil, false
		}
		p.advance()
		return p.parseCallRest(t0, false, t0.Span)
	}

	return nil, false
}

// isAssignOp reports whether an operator token spells an assignment
// (`=`, `+=`, `||=`, ...) rather than a comparison.
func isAssignOp(text string) bool {
	if len(text) == 0 || text[len(text)-1] != '=' {
		return false
	}
	switch text {
	case "==", "!=", "<=", ">=", "===":
		return false
	}
	return true
}

// parseCallRest parses the argument list and optional trailing block
// of a call whose name token has been consumed.
func (p *Parser) parseCallRest(nameTok token.Token, hasRecv bool, start source.Span) (ast.Stmt, bool) {
	call := &ast.CallStmt{
		SpanAll:     start,
		NameSpan:    nameTok.Span,
		Name:        nameTok.Text,
		HasReceiver: hasRecv,
	}
	last := nameTok.Span

	// A parenthesis counts as the argument list only when glued to the
	// name; `extend (self)` is a call with one parenthesized argument
	// expression instead.
	if t := p.cur(); t.Kind == token.LParen && t.Span.Start == nameTok.Span.End {
		call.Paren = true
		p.advance()
		args, ok := p.parseParenArgs()
		if !ok {
			end := p.consumeOpaque(0)
			return &ast.ExprStmt{SpanAll: start.Cover(end)}, true
		}
		call.Args = args
		last = p.prevSpan()

		// `foo(x).bar` is a chained expression, not a call statement.
		if p.cur().Kind == token.Dot {
			end := p.consumeOpaque(0)
			return &ast.ExprStmt{SpanAll: start.Cover(end)}, true
		}
	} else {
		args, blockSpan, hasBlock := p.parseBareArgs()
		call.Args = args
		if hasBlock {
			call.Block, last = p.parseDoBlock(blockSpan)
			call.SpanAll = start.Cover(last)
			return call, true
		}
		if len(args) > 0 {
			last = args[len(args)-1].SpanAll
		}
	}

	// Trailing block after a parenthesized list, or the tail of a
	// modifier clause.
	switch p.cur().Kind {
	case token.KwDo:
		doTok := p.advance()
		call.Block, last = p.parseDoBlock(doTok.Span)
	case token.LBrace:
		last = p.skipBraceBlock()
		call.Block = []ast.Stmt{}
	default:
		if !p.cur().IsSeparator() && p.cur().Kind != token.KwEnd {
			last = last.Cover(p.consumeOpaque(0))
		}
	}

	call.SpanAll = start.Cover(last)
	return call, true
}

// parseParenArgs parses a parenthesized argument list after the
// opening paren was consumed. Returns false on a missing close paren.
func (p *Parser) parseParenArgs() ([]ast.Arg, bool) {
	var args []ast.Arg
	var cur []token.Token
	depth := 0

	flush := func() {
		if len(cur) > 0 {
			args = append(args, p.makeArg(cur))
			cur = nil
		}
	}

	for {
		t := p.cur()
		switch t.Kind {
		case token.EOF:
			return nil, false
		case token.RParen:
			if depth == 0 {
				flush()
				p.advance()
				return args, true
			}
			depth--
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RBracket, token.RBrace:
			if depth > 0 {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				flush()
				p.advance()
				continue
			}
		case token.Newline:
			// Newlines inside a paren group do not end the list.
			p.advance()
			continue
		}
		cur = append(cur, p.advance())
	}
}

// parseBareArgs parses a parenthesis-free argument list up to the
// statement separator. When a `do` block follows, the block keyword is
// consumed and its span returned with hasBlock set; the caller parses
// the body.
func (p *Parser) parseBareArgs() (args []ast.Arg, blockSpan source.Span, hasBlock bool) {
	var cur []token.Token
	depth := 0

	flush := func() {
		if len(cur) > 0 {
			args = append(args, p.makeArg(cur))
			cur = nil
		}
	}

	for {
		t := p.cur()
		switch t.Kind {
		case token.EOF:
			flush()
			return args, source.Span{}, false
		case token.Newline, token.Semicolon:
			if depth == 0 {
				flush()
				return args, source.Span{}, false
			}
		case token.KwEnd:
			if depth == 0 {
				flush()
				return args, source.Span{}, false
			}
		case token.KwDo:
			if depth == 0 {
				flush()
				doTok := p.advance()
				return args, doTok.Span, true
			}
		case token.LBrace:
			if depth == 0 && len(cur) == 0 {
				// Trailing brace block; the receiver shape is done.
				flush()
				return args, source.Span{}, false
			}
			depth++
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth > 0 {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				flush()
				p.advance()
				continue
			}
		}
		cur = append(cur, p.advance())
	}
}

// parseDoBlock parses the body of a `do ... end` block whose `do`
// token was already consumed. Returns the body and the span of the
// closing end.
func (p *Parser) parseDoBlock(doSpan source.Span) ([]ast.Stmt, source.Span) {
	body := p.parseStmts(true)
	end := p.expectEnd(token.Token{Kind: token.KwDo, Span: doSpan, Text: "do"})
	if body == nil {
		body = []ast.Stmt{}
	}
	return body, end
}

// skipBraceBlock consumes a balanced `{ ... }` block starting at the
// current LBrace and returns the closing brace span.
func (p *Parser) skipBraceBlock() source.Span {
	depth := 0
	last := p.cur().Span
	for {
		t := p.cur()
		switch t.Kind {
		case token.EOF:
			return last
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			last = p.advance().Span
			if depth == 0 {
				return last
			}
			continue
		}
		last = p.advance().Span
	}
}

// makeArg classifies a flat token run as one call argument.
func (p *Parser) makeArg(toks []token.Token) ast.Arg {
	span := toks[0].Span.Cover(toks[len(toks)-1].Span)
	kind := ast.ArgOther
	if len(toks) == 1 {
		switch toks[0].Kind {
		case token.KwSelf:
			kind = ast.ArgSelf
		case token.Symbol:
			kind = ast.ArgSymbol
		}
	}
	return ast.Arg{
		SpanAll: span,
		Kind:    kind,
		Text:    p.text(span),
	}
}

// prevSpan returns the span of the most recently consumed token.
func (p *Parser) prevSpan() source.Span {
	if p.pos == 0 {
		return p.cur().Span
	}
	return p.toks[p.pos-1].Span
}
