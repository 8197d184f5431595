package parser

import "github.com/wisplang/wisp/internal/ast"

// ParseError represents a syntax error encountered during parsing.
type ParseError struct {
	Message  string
	Position Position
}

// Parser turns a token stream into a Contract AST, recovering from
// syntax errors so that a single source file can report more than
// one problem per pass.
type Parser struct {
	tokens   []Token
	current  int
	errors   []ParseError
	filename string
}

// NewParser creates a Parser over tokens produced by a Scanner.
func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{
		tokens:   tokens,
		filename: filename,
	}
}

// ParseContract parses the top-level contract declaration and its items.
// Comments appearing before the 'contract' keyword are captured as
// LeadingComments. If the 'contract' keyword itself is missing, a non-nil
// Contract carrying whatever leading comments were collected is still
// returned so callers can inspect partial results, alongside a recorded
// parse error.
func (p *Parser) ParseContract() *ast.Contract {
	var leading []ast.ContractItem
	for p.check(COMMENT) || p.check(DOC_COMMENT) || p.check(BLOCK_COMMENT) {
		if p.check(DOC_COMMENT) {
			leading = append(leading, p.parseDocComment())
		} else {
			leading = append(leading, p.parseComment())
		}
	}

	if !p.check(CONTRACT) {
		p.errorAtCurrent("expected 'contract' keyword")
		return &ast.Contract{
			LeadingComments: leading,
		}
	}

	startToken := p.advance() // 'contract'

	name, ok := p.consumeIdent("expected contract name")
	if !ok {
		p.synchronize()
	}

	p.consume(LEFT_BRACE, "expected '{' after contract name")

	var items []ast.ContractItem
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		item := p.parseContractItem()
		if item != nil {
			items = append(items, item)
		}
	}

	endToken := p.consume(RIGHT_BRACE, "expected '}' to close contract")

	return &ast.Contract{
		Pos:             p.makePos(startToken),
		EndPos:          p.makeEndPos(endToken),
		LeadingComments: leading,
		Name:            name,
		Items:           items,
	}
}

// parseContractItem dispatches on the next token to parse a single
// top-level contract member, attaching any preceding attribute or doc
// comment to the struct/function it decorates.
func (p *Parser) parseContractItem() ast.ContractItem {
	if p.check(COMMENT) || p.check(BLOCK_COMMENT) {
		return p.parseComment()
	}

	var doc *ast.DocComment
	if p.check(DOC_COMMENT) {
		doc = p.parseDocComment()
		if !p.check(STRUCT) && !p.check(FN) && !p.check(EXT) && !p.check(POUND) {
			return doc
		}
	}

	var attr *ast.Attribute
	if p.check(POUND) {
		attr = p.parseAttribute()
		if doc == nil && p.check(DOC_COMMENT) {
			doc = p.parseDocComment()
		}
	}

	switch {
	case p.check(USE):
		return p.parseUse()
	case p.check(STRUCT):
		return p.parseStructWithDoc(attr, doc)
	case p.check(FN), p.check(EXT):
		isExternal := p.match(EXT)
		fn := p.parseFunction(attr, isExternal)
		if fn != nil {
			fn.DocComment = doc
		}
		return fn
	default:
		tok := p.peek()
		p.errorAtCurrent("expected 'use', 'struct', or function declaration")
		bad := &ast.BadContractItem{
			Bad: ast.BadNode{
				Pos:     p.makePos(tok),
				EndPos:  p.makeEndPos(tok),
				Message: "unexpected token: " + tok.Lexeme,
			},
		}
		p.synchronize()
		return bad
	}
}

// parseAttribute parses a #[name] attribute decorating the next item.
func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.consume(POUND, "expected '#'")
	p.consume(LEFT_BRACKET, "expected '[' after '#'")
	name, ok := p.consumeIdent("expected attribute name")
	end := p.consume(RIGHT_BRACKET, "expected ']' to close attribute")
	if !ok {
		return &ast.Attribute{
			Pos:    p.makePos(start),
			EndPos: p.makeEndPos(end),
			Name:   "error",
		}
	}

	return &ast.Attribute{
		Pos:    p.makePos(start),
		EndPos: p.makeEndPos(end),
		Name:   name.Value,
	}
}

// parseComment consumes a // or /* */ comment token and wraps it in an
// ast.Comment, usable anywhere a ContractItem, StructItem, or
// FunctionBlockItem is expected.
func (p *Parser) parseComment() *ast.Comment {
	token := p.advance()
	return &ast.Comment{
		Pos:    p.makePos(token),
		EndPos: p.makeEndPos(token),
		Text:   token.Lexeme,
	}
}

// parseDocComment consumes a /// or /** */ doc comment token.
func (p *Parser) parseDocComment() *ast.DocComment {
	token := p.advance()
	return &ast.DocComment{
		Pos:    p.makePos(token),
		EndPos: p.makeEndPos(token),
		Text:   token.Lexeme,
	}
}
