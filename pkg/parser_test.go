package paijorot

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Do() {
	return
}

func (b *BufferedTokenizerMocker) Get() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func (b *BufferedTokenizerMocker) GetFilename() string {
	return "testing"
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		fail   bool
		expect []Stmt
	}{
		{
			// ts x pmo 1;
			[]Token{
				{TokenTs, "ts", nil, 0},
				{TokenIdentifier, "x", nil, 0},
				{TokenPmo, "pmo", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&VarStmt{
					Name:        Token{TokenIdentifier, "x", nil, 0},
					Initializer: &LiteralExpr{Value: Number(1)},
				},
			},
		},
		{
			// ts x;
			[]Token{
				{TokenTs, "ts", nil, 0},
				{TokenIdentifier, "x", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&VarStmt{
					Name: Token{TokenIdentifier, "x", nil, 0},
				},
			},
		},
		{
			// yap "hi";
			[]Token{
				{TokenYap, "yap", nil, 0},
				{TokenString, "hi", String("hi"), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&PrintStmt{Expr: &LiteralExpr{Value: String("hi")}},
			},
		},
		{
			// hawk add(a, b) tuah a + b;
			[]Token{
				{TokenHawk, "hawk", nil, 0},
				{TokenIdentifier, "add", nil, 0},
				{TokenLeftParen, "(", nil, 0},
				{TokenIdentifier, "a", nil, 0},
				{TokenComma, ",", nil, 0},
				{TokenIdentifier, "b", nil, 0},
				{TokenRightParen, ")", nil, 0},
				{TokenTuah, "tuah", nil, 0},
				{TokenIdentifier, "a", nil, 0},
				{TokenPlus, "+", nil, 0},
				{TokenIdentifier, "b", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&FunctionStmt{
					Name: Token{TokenIdentifier, "add", nil, 0},
					Params: []Token{
						{TokenIdentifier, "a", nil, 0},
						{TokenIdentifier, "b", nil, 0},
					},
					Body: &BinaryExpr{
						Left:  &VariableExpr{Name: Token{TokenIdentifier, "a", nil, 0}},
						Op:    Token{TokenPlus, "+", nil, 0},
						Right: &VariableExpr{Name: Token{TokenIdentifier, "b", nil, 0}},
					},
				},
			},
		},
		{
			// yo 1 yap 2; gurt yap 3;
			[]Token{
				{TokenYo, "yo", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenYap, "yap", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenSemicolon, ";", nil, 0},
				{TokenGurt, "gurt", nil, 0},
				{TokenYap, "yap", nil, 0},
				{TokenNumber, "3", Number(3), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&IfStmt{
					Condition: &LiteralExpr{Value: Number(1)},
					Then:      &PrintStmt{Expr: &LiteralExpr{Value: Number(2)}},
					Else:      &PrintStmt{Expr: &LiteralExpr{Value: Number(3)}},
				},
			},
		},
		{
			// goon(3) yap 1; edge
			[]Token{
				{TokenGoon, "goon", nil, 0},
				{TokenLeftParen, "(", nil, 0},
				{TokenNumber, "3", Number(3), 0},
				{TokenRightParen, ")", nil, 0},
				{TokenYap, "yap", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenSemicolon, ";", nil, 0},
				{TokenEdge, "edge", nil, 0},
			},
			false,
			[]Stmt{
				&LoopStmt{
					Count: &LiteralExpr{Value: Number(3)},
					Body: []Stmt{
						&PrintStmt{Expr: &LiteralExpr{Value: Number(1)}},
					},
				},
			},
		},
		{
			// goon sybau; edge
			[]Token{
				{TokenGoon, "goon", nil, 0},
				{TokenSybau, "sybau", nil, 0},
				{TokenSemicolon, ";", nil, 0},
				{TokenEdge, "edge", nil, 0},
			},
			false,
			[]Stmt{
				&LoopStmt{
					Body: []Stmt{&BreakStmt{}},
				},
			},
		},
		{
			// 1 + 2 * 3;
			[]Token{
				{TokenNumber, "1", Number(1), 0},
				{TokenPlus, "+", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenStar, "*", nil, 0},
				{TokenNumber, "3", Number(3), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &BinaryExpr{
						Left: &LiteralExpr{Value: Number(1)},
						Op:   Token{TokenPlus, "+", nil, 0},
						Right: &BinaryExpr{
							Left:  &LiteralExpr{Value: Number(2)},
							Op:    Token{TokenStar, "*", nil, 0},
							Right: &LiteralExpr{Value: Number(3)},
						},
					},
				},
			},
		},
		{
			// 6 - 3 - 2; binds left to right
			[]Token{
				{TokenNumber, "6", Number(6), 0},
				{TokenMinus, "-", nil, 0},
				{TokenNumber, "3", Number(3), 0},
				{TokenMinus, "-", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &BinaryExpr{
						Left: &BinaryExpr{
							Left:  &LiteralExpr{Value: Number(6)},
							Op:    Token{TokenMinus, "-", nil, 0},
							Right: &LiteralExpr{Value: Number(3)},
						},
						Op:    Token{TokenMinus, "-", nil, 0},
						Right: &LiteralExpr{Value: Number(2)},
					},
				},
			},
		},
		{
			// (1 + 2) * 3;
			[]Token{
				{TokenLeftParen, "(", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenPlus, "+", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenRightParen, ")", nil, 0},
				{TokenStar, "*", nil, 0},
				{TokenNumber, "3", Number(3), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &BinaryExpr{
						Left: &GroupingExpr{
							Inner: &BinaryExpr{
								Left:  &LiteralExpr{Value: Number(1)},
								Op:    Token{TokenPlus, "+", nil, 0},
								Right: &LiteralExpr{Value: Number(2)},
							},
						},
						Op:    Token{TokenStar, "*", nil, 0},
						Right: &LiteralExpr{Value: Number(3)},
					},
				},
			},
		},
		{
			// -5; desugars to 0 - 5
			[]Token{
				{TokenMinus, "-", nil, 0},
				{TokenNumber, "5", Number(5), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &BinaryExpr{
						Left:  &LiteralExpr{Value: Number(0)},
						Op:    Token{TokenMinus, "-", nil, 0},
						Right: &LiteralExpr{Value: Number(5)},
					},
				},
			},
		},
		{
			// x pmo y pmo 2; binds right to left
			[]Token{
				{TokenIdentifier, "x", nil, 0},
				{TokenPmo, "pmo", nil, 0},
				{TokenIdentifier, "y", nil, 0},
				{TokenPmo, "pmo", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &BinaryExpr{
						Left: &VariableExpr{Name: Token{TokenIdentifier, "x", nil, 0}},
						Op:   Token{TokenPmo, "pmo", nil, 0},
						Right: &BinaryExpr{
							Left:  &VariableExpr{Name: Token{TokenIdentifier, "y", nil, 0}},
							Op:    Token{TokenPmo, "pmo", nil, 0},
							Right: &LiteralExpr{Value: Number(2)},
						},
					},
				},
			},
		},
		{
			// f(1)(2); chained invocation
			[]Token{
				{TokenIdentifier, "f", nil, 0},
				{TokenLeftParen, "(", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenRightParen, ")", nil, 0},
				{TokenLeftParen, "(", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenRightParen, ")", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &CallExpr{
						Callee: &CallExpr{
							Callee: &VariableExpr{Name: Token{TokenIdentifier, "f", nil, 0}},
							Args:   []Expr{&LiteralExpr{Value: Number(1)}},
						},
						Args: []Expr{&LiteralExpr{Value: Number(2)}},
					},
				},
			},
		},
		{
			// gyat arr { 1, 2 };
			[]Token{
				{TokenGyat, "gyat", nil, 0},
				{TokenIdentifier, "arr", nil, 0},
				{TokenLeftBrace, "{", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenComma, ",", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenRightBrace, "}", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &ArrayExpr{
						Name: Token{TokenIdentifier, "arr", nil, 0},
						Elements: []Expr{
							&LiteralExpr{Value: Number(1)},
							&LiteralExpr{Value: Number(2)},
						},
					},
				},
			},
		},
		{
			// gyat empty {};
			[]Token{
				{TokenGyat, "gyat", nil, 0},
				{TokenIdentifier, "empty", nil, 0},
				{TokenLeftBrace, "{", nil, 0},
				{TokenRightBrace, "}", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&ExpressionStmt{
					Expr: &ArrayExpr{
						Name: Token{TokenIdentifier, "empty", nil, 0},
					},
				},
			},
		},
		{
			// ts x pmo yeet;
			[]Token{
				{TokenTs, "ts", nil, 0},
				{TokenIdentifier, "x", nil, 0},
				{TokenPmo, "pmo", nil, 0},
				{TokenYeet, "yeet", nil, 0},
				{TokenSemicolon, ";", nil, 0},
			},
			false,
			[]Stmt{
				&VarStmt{
					Name:        Token{TokenIdentifier, "x", nil, 0},
					Initializer: &InputExpr{},
				},
			},
		},
		{
			// 1 pmo 2; assignment needs a bare variable on the left
			[]Token{
				{TokenNumber, "1", Number(1), 0},
				{TokenPmo, "pmo", nil, 0},
				{TokenNumber, "2", Number(2), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			true,
			nil,
		},
		{
			// yap 1 without the closing semicolon
			[]Token{
				{TokenYap, "yap", nil, 0},
				{TokenNumber, "1", Number(1), 0},
			},
			true,
			nil,
		},
		{
			// ts x pmo cut short mid-construct
			[]Token{
				{TokenTs, "ts", nil, 0},
				{TokenIdentifier, "x", nil, 0},
				{TokenPmo, "pmo", nil, 0},
			},
			true,
			nil,
		},
		{
			// goon yap 1; without edge
			[]Token{
				{TokenGoon, "goon", nil, 0},
				{TokenYap, "yap", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			true,
			nil,
		},
		{
			// hawk f() 1; missing tuah
			[]Token{
				{TokenHawk, "hawk", nil, 0},
				{TokenIdentifier, "f", nil, 0},
				{TokenLeftParen, "(", nil, 0},
				{TokenRightParen, ")", nil, 0},
				{TokenNumber, "1", Number(1), 0},
				{TokenSemicolon, ";", nil, 0},
			},
			true,
			nil,
		},
	}

	for _, c := range cases {
		p := NewParser(NewBufferedTokenizerMocker(c.data))

		got, err := p.Run()
		if c.fail {
			assert.Error(t, err)
			assert.IsType(t, &ParseError{}, err)
		} else {
			assert.NoError(t, err)
		}

		assert.Equal(t, c.expect, got)
	}
}

// A lexer fault buffered in the token stream surfaces as a LexError, not a
// ParseError.
func TestParserSurfacesLexError(t *testing.T) {
	p := NewParser(NewBufferedTokenizerMocker([]Token{
		{TokenYap, "yap", nil, 1},
		{TokenError, "unexpected character '@'", nil, 1},
	}))

	got, err := p.Run()
	assert.Nil(t, got)
	assert.IsType(t, &LexError{}, err)
	assert.EqualError(t, err, "[line 1] unexpected character '@'")
}

func TestParserReportsEndOfInput(t *testing.T) {
	p := NewParser(NewBufferedTokenizerMocker([]Token{
		{TokenYap, "yap", nil, 1},
		{TokenNumber, "1", Number(1), 1},
	}))

	_, err := p.Run()
	assert.EqualError(t, err, "unexpected end of input: expected ';' after value")
}

// A parse fault must not strand the lexer goroutine mid-send. The interactive
// driver parses once per line, so stranded goroutines would pile up there.
func TestParserReleasesLexerOnFault(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		_, err := NewParser(NewLexerFromReader(strings.NewReader("yap 1 yap 2;"))).Run()
		assert.Error(t, err)
	}

	// Drained lexers exit on their own; give the scheduler a moment
	after := runtime.NumGoroutine()
	for n := 0; n < 100 && after > before+2; n++ {
		time.Sleep(2 * time.Millisecond)
		after = runtime.NumGoroutine()
	}

	assert.LessOrEqual(t, after, before+2)
}

// Parsing the same token sequence twice yields structurally identical trees.
func TestParserIdempotent(t *testing.T) {
	toks := []Token{
		{TokenGoon, "goon", nil, 0},
		{TokenLeftParen, "(", nil, 0},
		{TokenNumber, "2", Number(2), 0},
		{TokenRightParen, ")", nil, 0},
		{TokenYap, "yap", nil, 0},
		{TokenNumber, "1", Number(1), 0},
		{TokenPlus, "+", nil, 0},
		{TokenNumber, "2", Number(2), 0},
		{TokenSemicolon, ";", nil, 0},
		{TokenEdge, "edge", nil, 0},
	}

	first, err := NewParser(NewBufferedTokenizerMocker(toks)).Run()
	assert.NoError(t, err)

	second, err := NewParser(NewBufferedTokenizerMocker(toks)).Run()
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
