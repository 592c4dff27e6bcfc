package parser

import (
	"rbstyle/internal/ast"
	"rbstyle/internal/diag"
	"rbstyle/internal/source"
	"rbstyle/internal/token"
)

// parseModule parses `module Name ... end`.
func (p *Parser) parseModule() ast.Stmt {
	kw := p.advance()

	name, nameSpan, ok := p.parseConstPath()
	if !ok {
		p.reportError(diag.SynExpectConstName, p.cur().Span, "expected constant name after 'module'")
		end := p.consumeOpaque(0)
		return &ast.ExprStmt{SpanAll: kw.Span.Cover(end)}
	}

	body := p.parseStmts(true)
	end := p.expectEnd(kw)

	return &ast.ModuleDecl{
		SpanAll:  kw.Span.Cover(end),
		NameSpan: nameSpan,
		Name:     name,
		Body:     body,
	}
}

// parseClass parses `class Name ... end`, `class Name < Super ... end`
// and the singleton form `class << self ... end`.
func (p *Parser) parseClass() ast.Stmt {
	kw := p.advance()

	var name string
	var nameSpan source.Span

	if t := p.cur(); t.Kind == token.Op && t.Text == "<<" {
		p.advance()
		recv := p.advance()
		name = "<< " + recv.Text
		nameSpan = t.Span.Cover(recv.Span)
	} else {
		var ok bool
		name, nameSpan, ok = p.parseConstPath()
		if !ok {
			p.reportError(diag.SynExpectConstName, p.cur().Span, "expected constant name after 'class'")
			end := p.consumeOpaque(0)
			return &ast.ExprStmt{SpanAll: kw.Span.Cover(end)}
		}
		// Superclass clause: consume to end of line.
		if t := p.cur(); t.Kind == token.Op && t.Text == "<" {
			p.advance()
			p.consumeOpaque(0)
		}
	}

	body := p.parseStmts(true)
	end := p.expectEnd(kw)

	return &ast.ClassDecl{
		SpanAll:  kw.Span.Cover(end),
		NameSpan: nameSpan,
		Name:     name,
		Body:     body,
	}
}

// parseDef parses method definitions, including `def self.name`,
// setter names (`def foo=`), operator names and the endless form
// `def name = expr`.
func (p *Parser) parseDef() ast.Stmt {
	kw := p.advance()

	onSelf := false
	if p.cur().Kind == token.KwSelf && p.peek(1).Kind == token.Dot {
		p.advance()
		p.advance()
		onSelf = true
	} else if (p.cur().Kind == token.Const || p.cur().Kind == token.Ident) && p.peek(1).Kind == token.Dot {
		// `def Foo.bar` / `def obj.bar`: a singleton definition on an
		// explicit receiver. The receiver identity is irrelevant here.
		p.advance()
		p.advance()
		onSelf = true
	}

	nameTok := p.cur()
	switch nameTok.Kind {
	case token.Ident, token.Const, token.Op:
		p.advance()
	default:
		p.reportError(diag.SynExpectDefName, nameTok.Span, "expected method name after 'def'")
		end := p.consumeOpaque(0)
		return &ast.ExprStmt{SpanAll: kw.Span.Cover(end)}
	}

	name := nameTok.Text
	nameSpan := nameTok.Span

	// Setter: `def foo=(v)` has '=' glued to the name.
	if t := p.cur(); t.Kind == token.Op && t.Text == "=" && t.Span.Start == nameTok.Span.End && p.peek(1).Kind == token.LParen {
		p.advance()
		name += "="
		nameSpan = nameSpan.Cover(t.Span)
	}

	// Parenthesized parameter list.
	if p.cur().Kind == token.LParen {
		p.skipBalancedParens()
	} else if !p.cur().IsSeparator() && !(p.cur().Kind == token.Op && p.cur().Text == "=") {
		// Bare parameter list runs to the end of the line.
		p.consumeDefHeaderTail()
	}

	// Endless method: `def name(args) = expr`.
	if t := p.cur(); t.Kind == token.Op && t.Text == "=" {
		p.advance()
		end := p.consumeOpaque(0)
		return &ast.MethodDecl{
			SpanAll:  kw.Span.Cover(end),
			NameSpan: nameSpan,
			Name:     name,
			OnSelf:   onSelf,
			Body:     nil,
		}
	}

	body := p.parseStmts(true)
	end := p.expectEnd(kw)

	return &ast.MethodDecl{
		SpanAll:  kw.Span.Cover(end),
		NameSpan: nameSpan,
		Name:     name,
		OnSelf:   onSelf,
		Body:     body,
	}
}

// parseConstPath parses `Const` or `Const::Const::...` and returns the
// joined name.
func (p *Parser) parseConstPath() (string, source.Span, bool) {
	if p.cur().Kind != token.Const {
		return "", source.Span{}, false
	}
	first := p.advance()
	span := first.Span

	for p.cur().Kind == token.ColonColon && p.peek(1).Kind == token.Const {
		p.advance()
		last := p.advance()
		span = span.Cover(last.Span)
	}
	return p.text(span), span, true
}

// expectEnd consumes the `end` closing the scope opened by kw and
// returns its span. A missing end is reported at the opener.
func (p *Parser) expectEnd(kw token.Token) source.Span {
	if p.cur().Kind == token.KwEnd {
		return p.advance().Span
	}
	p.reportError(diag.SynMissingEnd, kw.Span, "missing 'end' for '"+kw.Text+"'")
	return p.cur().Span
}

// skipBalancedParens consumes a balanced parenthesized group starting
// at the current LParen.
func (p *Parser) skipBalancedParens() {
	depth := 0
	for {
		switch p.cur().Kind {
		case token.EOF:
			return
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			p.advance()
			if depth == 0 {
				return
			}
			continue
		}
		p.advance()
	}
}

// consumeDefHeaderTail consumes bare parameters up to the separator or
// the `=` of an endless body.
func (p *Parser) consumeDefHeaderTail() {
	for {
		t := p.cur()
		if t.IsSeparator() {
			return
		}
		if t.Kind == token.Op && t.Text == "=" {
			return
		}
		p.advance()
	}
}
