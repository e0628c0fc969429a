package graft

import "fmt"

// Parser builds a statement sequence from a token stream by
// recursive descent. Parse errors are fatal to the run and carry the
// offending token's position; everything past the front end follows
// the silent-recovery discipline instead.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over tokens (as produced by Lex,
// terminated by an EOF token)
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses source text in one step
func ParseSource(source string) ([]Stmt, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Program()
}

// Program parses statements until end of input
func (p *Parser) Program() ([]Stmt, error) {
	var program []Stmt
	for p.peek().Kind != TokEOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		program = append(program, stmt)
	}
	return program, nil
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, p.errorf(tok, "expected %s, found %s", kind, tok.Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: tok.Line, Column: tok.Column}
}

func (p *Parser) parseStmt() (Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokLet:
		return p.parseLet()
	case TokBranch:
		return p.parseBranch()
	case TokMerge:
		return p.parseMerge()
	case TokPrint:
		return p.parsePrint()
	case TokInput:
		return p.parseInput()
	case TokListPush:
		return p.parseListPush()
	case TokSetInsert:
		return p.parseSetInsert()
	}
	return nil, p.errorf(tok, "expected a statement, found %s", tok.Kind)
}

// let NAME = literal ;
func (p *Parser) parseLet() (Stmt, error) {
	p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEquals); err != nil {
		return nil, err
	}
	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &LetStmt{Name: name.Text, Value: value}, nil
}

// branch NAME { body }
func (p *Parser) parseBranch() (Stmt, error) {
	p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var body []Stmt
	for p.peek().Kind != TokRBrace {
		if p.peek().Kind == TokEOF {
			return nil, p.errorf(p.peek(), "unterminated branch body (missing '}')")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.advance() // closing brace
	return &BranchStmt{Variable: name.Text, Body: body}, nil
}

// merge NAME ;
func (p *Parser) parseMerge() (Stmt, error) {
	p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &MergeStmt{Variable: name.Text}, nil
}

// print NAME ; | print literal ;
func (p *Parser) parsePrint() (Stmt, error) {
	p.advance()
	var target PrintTarget
	if p.peek().Kind == TokIdent {
		target = PrintVariable(p.advance().Text)
	} else {
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		target = PrintValue{Value: value}
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &PrintStmt{Target: target}, nil
}

// input "prompt"? NAME ;
func (p *Parser) parseInput() (Stmt, error) {
	p.advance()
	stmt := &InputStmt{}
	if p.peek().Kind == TokStr {
		stmt.Prompt = p.advance().Text
		stmt.HasPrompt = true
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	stmt.Variable = name.Text
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// listpush NAME literal ;
func (p *Parser) parseListPush() (Stmt, error) {
	p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &ListPushStmt{Variable: name.Text, Value: value}, nil
}

// setinsert NAME literal ;
func (p *Parser) parseSetInsert() (Stmt, error) {
	p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	value, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &SetInsertStmt{Variable: name.Text, Value: value}, nil
}

// parseLiteral parses a value literal: int, float, bool, string,
// [elem, ...] list, or set[elem, ...] set. A bare [] is always an
// empty list; the empty set is spelled set[].
func (p *Parser) parseLiteral() (Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokInt:
		p.advance()
		return IntVal(tok.Int), nil
	case TokFloat:
		p.advance()
		return FloatVal(tok.Float), nil
	case TokBool:
		p.advance()
		return BoolVal(tok.Bool), nil
	case TokStr:
		p.advance()
		return StrVal(tok.Text), nil
	case TokLBracket:
		p.advance()
		items, err := p.parseElements()
		if err != nil {
			return Value{}, err
		}
		return ListVal(items...), nil
	case TokSet:
		p.advance()
		if _, err := p.expect(TokLBracket); err != nil {
			return Value{}, err
		}
		items, err := p.parseElements()
		if err != nil {
			return Value{}, err
		}
		return SetVal(items...), nil
	}
	return Value{}, p.errorf(tok, "expected a literal value, found %s", tok.Kind)
}

// parseElements parses a possibly empty comma-separated literal list
// up to and including the closing bracket
func (p *Parser) parseElements() ([]Value, error) {
	var items []Value
	if p.peek().Kind == TokRBracket {
		p.advance()
		return items, nil
	}
	for {
		elem, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		items = append(items, elem)
		switch p.peek().Kind {
		case TokComma:
			p.advance()
		case TokRBracket:
			p.advance()
			return items, nil
		default:
			return nil, p.errorf(p.peek(), "expected ',' or ']' in collection literal, found %s", p.peek().Kind)
		}
	}
}
