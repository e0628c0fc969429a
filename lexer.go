package graft

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError is a front-end error with source position
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// TokenKind identifies a lexical token
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokLet
	TokBranch
	TokMerge
	TokPrint
	TokInput
	TokListPush
	TokSetInsert
	TokSet
	TokIdent
	TokInt
	TokFloat
	TokBool
	TokStr
	TokEquals
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokComma
	TokSemicolon
)

var tokenNames = map[TokenKind]string{
	TokEOF:       "end of input",
	TokLet:       "'let'",
	TokBranch:    "'branch'",
	TokMerge:     "'merge'",
	TokPrint:     "'print'",
	TokInput:     "'input'",
	TokListPush:  "'listpush'",
	TokSetInsert: "'setinsert'",
	TokSet:       "'set'",
	TokIdent:     "identifier",
	TokInt:       "integer literal",
	TokFloat:     "float literal",
	TokBool:      "boolean literal",
	TokStr:       "string literal",
	TokEquals:    "'='",
	TokLBrace:    "'{'",
	TokRBrace:    "'}'",
	TokLBracket:  "'['",
	TokRBracket:  "']'",
	TokComma:     "','",
	TokSemicolon: "';'",
}

// String returns a readable token kind name for error messages
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown token"
}

var keywords = map[string]TokenKind{
	"let":       TokLet,
	"branch":    TokBranch,
	"merge":     TokMerge,
	"print":     TokPrint,
	"input":     TokInput,
	"listpush":  TokListPush,
	"setinsert": TokSetInsert,
	"set":       TokSet,
}

// Token is one lexical token with its source position
type Token struct {
	Kind   TokenKind
	Text   string
	Int    int32
	Float  float64
	Bool   bool
	Line   int
	Column int
}

// Lexer scans source text into tokens
type Lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

// NewLexer creates a lexer over source
func NewLexer(source string) *Lexer {
	return &Lexer{src: []rune(source), line: 1, column: 1}
}

// Lex tokenizes source in one pass
func Lex(source string) ([]Token, error) {
	return NewLexer(source).All()
}

// All scans every remaining token, ending with an EOF token
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() rune {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) errorf(line, column int, format string, args ...interface{}) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: line, Column: column}
}

func (l *Lexer) next() (Token, error) {
	l.skipWhitespaceAndComments()

	line, column := l.line, l.column
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Line: line, Column: column}, nil
	}

	ch := l.peek()
	switch {
	case ch == '=':
		l.advance()
		return Token{Kind: TokEquals, Text: "=", Line: line, Column: column}, nil
	case ch == '{':
		l.advance()
		return Token{Kind: TokLBrace, Text: "{", Line: line, Column: column}, nil
	case ch == '}':
		l.advance()
		return Token{Kind: TokRBrace, Text: "}", Line: line, Column: column}, nil
	case ch == '[':
		l.advance()
		return Token{Kind: TokLBracket, Text: "[", Line: line, Column: column}, nil
	case ch == ']':
		l.advance()
		return Token{Kind: TokRBracket, Text: "]", Line: line, Column: column}, nil
	case ch == ',':
		l.advance()
		return Token{Kind: TokComma, Text: ",", Line: line, Column: column}, nil
	case ch == ';':
		l.advance()
		return Token{Kind: TokSemicolon, Text: ";", Line: line, Column: column}, nil
	case ch == '"':
		return l.lexString(line, column)
	case unicode.IsDigit(ch), ch == '-' && unicode.IsDigit(l.peekAt(1)):
		return l.lexNumber(line, column)
	case unicode.IsLetter(ch), ch == '_':
		return l.lexIdent(line, column)
	}
	return Token{}, l.errorf(line, column, "unexpected character %q", ch)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.peek()
		if unicode.IsSpace(ch) {
			l.advance()
			continue
		}
		if ch == '#' {
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

func (l *Lexer) lexString(line, column int) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(line, column, "unterminated string literal")
		}
		ch := l.advance()
		if ch == '"' {
			return Token{Kind: TokStr, Text: b.String(), Line: line, Column: column}, nil
		}
		if ch == '\\' {
			if l.pos >= len(l.src) {
				return Token{}, l.errorf(line, column, "unterminated string literal")
			}
			esc := l.advance()
			switch esc {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				return Token{}, l.errorf(l.line, l.column-2, "unknown escape sequence \\%c", esc)
			}
			continue
		}
		b.WriteRune(ch)
	}
}

func (l *Lexer) lexNumber(line, column int) (Token, error) {
	var b strings.Builder
	if l.peek() == '-' {
		b.WriteRune(l.advance())
	}
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		b.WriteRune(l.advance())
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekAt(1)) {
		b.WriteRune(l.advance())
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return Token{}, l.errorf(line, column, "invalid float literal %q", b.String())
		}
		return Token{Kind: TokFloat, Text: b.String(), Float: f, Line: line, Column: column}, nil
	}
	n, err := strconv.ParseInt(b.String(), 10, 32)
	if err != nil {
		return Token{}, l.errorf(line, column, "integer literal %q out of 32-bit range", b.String())
	}
	return Token{Kind: TokInt, Text: b.String(), Int: int32(n), Line: line, Column: column}, nil
}

func (l *Lexer) lexIdent(line, column int) (Token, error) {
	var b strings.Builder
	for l.pos < len(l.src) {
		ch := l.peek()
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		b.WriteRune(l.advance())
	}
	text := b.String()
	switch text {
	case "true":
		return Token{Kind: TokBool, Text: text, Bool: true, Line: line, Column: column}, nil
	case "false":
		return Token{Kind: TokBool, Text: text, Bool: false, Line: line, Column: column}, nil
	}
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Text: text, Line: line, Column: column}, nil
	}
	return Token{Kind: TokIdent, Text: text, Line: line, Column: column}, nil
}
