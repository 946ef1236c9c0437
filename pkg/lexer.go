package paijorot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

const eof rune = 0

type stateFunc func(l *Lexer) stateFunc

// Tokenizer feeds the parser one token at a time.
type Tokenizer interface {
	Do()
	Get() Token
	GetFilename() string
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	line     int
	done     chan Token
}

func NewLexer(filename string) (*Lexer, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	l := NewLexerFromReader(bytes.NewReader(src))
	l.filename = filename

	return l, nil
}

func NewLexerFromReader(reader io.Reader) *Lexer {
	return &Lexer{
		filename: "input",
		reader:   bufio.NewReader(reader),
		line:     1,
		done:     make(chan Token),
	}
}

func (l *Lexer) Do() {
	l.Run()
}

func (l *Lexer) Get() Token {
	t, ok := <-l.done
	if !ok {
		return Token{Typ: TokenEOF, Line: l.line}
	}

	return t
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking drains the whole token stream, ending with exactly one EOF
// token, or fails at the first illegal construct.
func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		if t.Typ == TokenError {
			return nil, &LexError{Line: t.Line, Msg: t.Lexeme}
		}

		tokens = append(tokens, t)
		if t.Typ == TokenEOF {
			break
		}
	}

	return tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == eof:
			l.emit(Token{Typ: TokenEOF, Line: l.line})
			return nil
		case r == '\n':
			l.next()
			l.line++
		case r == ' ' || r == '\r' || r == '\t':
			l.next()
		case isDigit(r):
			return numberState
		case r == '"':
			return stringState
		case isAlpha(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
	}

	// A decimal point only belongs to the number when a digit follows it
	if l.peek() == '.' && isDigit(l.peekNext()) {
		num.WriteRune(l.next())

		for r := l.peek(); isDigit(r); r = l.peek() {
			num.WriteRune(l.next())
		}
	}

	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return l.errorf("failed to parse number '%s'", num.String())
	}

	return l.emitLit(TokenNumber, num.String(), Number(f))
}

func stringState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for {
		r := l.next()

		switch r {
		case eof:
			return l.errorf("unterminated string")
		case '"':
			return l.emitLit(TokenString, str.String(), String(str.String()))
		case '\n':
			l.line++
			str.WriteRune(r)
		case '\\':
			switch esc := l.next(); esc {
			case 'n':
				str.WriteRune('\n')
			case 't':
				str.WriteRune('\t')
			case 'r':
				str.WriteRune('\r')
			case '\\':
				str.WriteRune('\\')
			case '"':
				str.WriteRune('"')
			case eof:
				return l.errorf("unterminated string")
			default:
				return l.errorf("invalid escape sequence '\\%c'", esc)
			}
		default:
			str.WriteRune(r)
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isAlphaNumeric(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	switch r := l.next(); r {
	case '(':
		return l.emitValue(TokenLeftParen, "(")
	case ')':
		return l.emitValue(TokenRightParen, ")")
	case '{':
		return l.emitValue(TokenLeftBrace, "{")
	case '}':
		return l.emitValue(TokenRightBrace, "}")
	case ',':
		return l.emitValue(TokenComma, ",")
	case ';':
		return l.emitValue(TokenSemicolon, ";")
	case '+':
		return l.emitValue(TokenPlus, "+")
	case '-':
		return l.emitValue(TokenMinus, "-")
	case '*':
		return l.emitValue(TokenStar, "*")
	case '%':
		return l.emitValue(TokenModulo, "%")
	case '/':
		if l.peek() == '/' {
			return lineCommentState
		}

		return l.emitValue(TokenSlash, "/")
	case '=':
		if l.peek() == '=' {
			l.next()
			return l.emitValue(TokenEqual, "==")
		}

		return l.errorf("unexpected character '='")
	case '!':
		if l.peek() == '=' {
			l.next()
			return l.emitValue(TokenNotEqual, "!=")
		}

		return l.errorf("unexpected character '!'")
	case '>':
		if l.peek() == '=' {
			l.next()
			return l.emitValue(TokenGreaterEqual, ">=")
		}

		return l.emitValue(TokenGreater, ">")
	case '<':
		if l.peek() == '=' {
			l.next()
			return l.emitValue(TokenLessEqual, "<=")
		}

		return l.emitValue(TokenLess, "<")
	default:
		return l.errorf("unexpected character '%c'", r)
	}
}

func lineCommentState(l *Lexer) stateFunc {
	// Comments are consumed through end of line, never emitted
	for r := l.peek(); r != '\n' && r != eof; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.emit(Token{
		Typ:    TokenError,
		Lexeme: fmt.Sprintf(format, args...),
		Line:   l.line,
	})

	return nil
}

func (l *Lexer) emitValue(t TokenType, lexeme string) stateFunc {
	l.emit(Token{
		Typ:    t,
		Lexeme: lexeme,
		Line:   l.line,
	})

	return defaultState
}

func (l *Lexer) emitLit(t TokenType, lexeme string, lit Value) stateFunc {
	l.emit(Token{
		Typ:    t,
		Lexeme: lexeme,
		Lit:    lit,
		Line:   l.line,
	})

	return defaultState
}

func (l *Lexer) emit(t Token) {
	l.done <- t
}

func (l *Lexer) peek() rune {
	r := l.next()
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) peekNext() rune {
	b, _ := l.reader.Peek(2 * utf8.UTFMax)
	if len(b) == 0 {
		return eof
	}

	_, size := utf8.DecodeRune(b)
	if size >= len(b) {
		return eof
	}

	r, _ := utf8.DecodeRune(b[size:])

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return eof
		}

		return utf8.RuneError
	}

	return r
}

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
