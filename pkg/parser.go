package paijorot

import "fmt"

// Parser is a recursive-descent parser over a Tokenizer, one function per
// grammar level, no backtracking. It fails on the first structural mismatch.
type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Run drives the tokenizer and produces the full statement sequence for the
// program, or the first lexical or syntactic fault.
func (p *Parser) Run() (statements []Stmt, err error) {
	go p.tokenizer.Do()

	// An abandoned tokenizer stays blocked on its next send, so on a fault the
	// remaining tokens must be consumed before returning
	defer func() {
		if err != nil {
			p.drain()
		}
	}()

	for !p.check(TokenEOF) {
		if tok := p.peek(); tok.Typ == TokenError {
			return nil, &LexError{Line: tok.Line, Msg: tok.Lexeme}
		}

		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}

		statements = append(statements, stmt)
	}

	return statements, nil
}

// drain pulls tokens until the stream ends with EOF or an error token,
// letting the tokenizer run to completion.
func (p *Parser) drain() {
	for p.peek().isValid() {
		p.buf = nil
	}
}

func (p *Parser) declaration() (Stmt, error) {
	switch {
	case p.match(TokenTs):
		return p.varDeclaration()
	case p.match(TokenHawk):
		return p.functionDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(TokenIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer Expr
	if p.match(TokenPmo) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(TokenSemicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}

	return &VarStmt{
		Name:        name,
		Initializer: initializer,
	}, nil
}

func (p *Parser) functionDeclaration() (Stmt, error) {
	name, err := p.consume(TokenIdentifier, "expected function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenLeftParen, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []Token
	if !p.check(TokenRightParen) {
		for {
			param, err := p.consume(TokenIdentifier, "expected parameter name")
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.consume(TokenRightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenTuah, "expected 'tuah' after function parameters"); err != nil {
		return nil, err
	}

	body, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenSemicolon, "expected ';' after function body"); err != nil {
		return nil, err
	}

	return &FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(TokenYap):
		return p.printStatement()
	case p.match(TokenYo):
		return p.ifStatement()
	case p.match(TokenGoon):
		return p.loopStatement()
	case p.match(TokenSybau):
		return p.breakStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenSemicolon, "expected ';' after value"); err != nil {
		return nil, err
	}

	return &PrintStmt{Expr: value}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch Stmt
	if p.match(TokenGurt) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &IfStmt{
		Condition: condition,
		Then:      then,
		Else:      elseBranch,
	}, nil
}

func (p *Parser) loopStatement() (Stmt, error) {
	// goon(n) runs n whole iterations; bare goon loops until a break
	var count Expr
	if p.match(TokenLeftParen) {
		var err error
		if count, err = p.expression(); err != nil {
			return nil, err
		}

		if _, err := p.consume(TokenRightParen, "expected ')' after loop count"); err != nil {
			return nil, err
		}
	}

	var body []Stmt
	for !p.check(TokenEdge) && p.peek().isValid() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	if _, err := p.consume(TokenEdge, "expected 'edge' after loop body"); err != nil {
		return nil, err
	}

	return &LoopStmt{
		Count: count,
		Body:  body,
	}, nil
}

func (p *Parser) breakStatement() (Stmt, error) {
	if _, err := p.consume(TokenSemicolon, "expected ';' after 'sybau'"); err != nil {
		return nil, err
	}

	return &BreakStmt{}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenSemicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}

	return &ExpressionStmt{Expr: expr}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}

	// Assignment is right-associative and only valid when the reduced left
	// side is a bare variable reference
	if op, ok := p.matchOp(TokenPmo); ok {
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if _, isVariable := expr.(*VariableExpr); !isVariable {
			return nil, &ParseError{Line: op.Line, Msg: "Invalid assignment target."}
		}

		return &BinaryExpr{
			Left:  expr,
			Op:    op,
			Right: value,
		}, nil
	}

	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchOp(TokenEqual, TokenNotEqual)
		if !ok {
			return expr, nil
		}

		right, err := p.comparison()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchOp(TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
		if !ok {
			return expr, nil
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchOp(TokenPlus, TokenMinus)
		if !ok {
			return expr, nil
		}

		right, err := p.factor()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.matchOp(TokenStar, TokenSlash, TokenModulo)
		if !ok {
			return expr, nil
		}

		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
}

func (p *Parser) unary() (Expr, error) {
	if op, ok := p.matchOp(TokenMinus); ok {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		// Unary minus desugars to a subtraction from numeric zero
		return &BinaryExpr{
			Left:  &LiteralExpr{Value: Number(0)},
			Op:    op,
			Right: right,
		}, nil
	}

	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	// Chained invocation: f(x)(y)
	for p.match(TokenLeftParen) {
		if expr, err = p.finishCall(expr); err != nil {
			return nil, err
		}
	}

	return expr, nil
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(TokenRightParen) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.consume(TokenRightParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}

	return &CallExpr{
		Callee: callee,
		Args:   args,
	}, nil
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenNumber, TokenString:
		p.next()
		return &LiteralExpr{Value: tok.Lit}, nil
	case TokenIdentifier:
		p.next()
		return &VariableExpr{Name: tok}, nil
	case TokenLeftParen:
		p.next()

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(TokenRightParen, "expected ')' after expression"); err != nil {
			return nil, err
		}

		return &GroupingExpr{Inner: expr}, nil
	case TokenGyat:
		p.next()
		return p.array()
	case TokenYeet:
		p.next()
		return &InputExpr{}, nil
	default:
		return nil, p.fault(tok, "expected expression")
	}
}

func (p *Parser) array() (Expr, error) {
	name, err := p.consume(TokenIdentifier, "expected array name after 'gyat'")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenLeftBrace, "expected '{' after array name"); err != nil {
		return nil, err
	}

	var elements []Expr
	if !p.check(TokenRightBrace) {
		for {
			element, err := p.expression()
			if err != nil {
				return nil, err
			}

			elements = append(elements, element)

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.consume(TokenRightBrace, "expected '}' after array elements"); err != nil {
		return nil, err
	}

	return &ArrayExpr{
		Name:     name,
		Elements: elements,
	}, nil
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		tok := p.tokenizer.Get()
		p.buf = &tok
	}

	return *p.buf
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.isValid() {
		// EOF and error tokens stay buffered: no more valid tokens follow
		p.buf = nil
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) match(typ TokenType) bool {
	if p.check(typ) {
		p.next()
		return true
	}

	return false
}

func (p *Parser) matchOp(types ...TokenType) (Token, bool) {
	for _, typ := range types {
		if p.check(typ) {
			return p.next(), true
		}
	}

	return Token{}, false
}

func (p *Parser) consume(typ TokenType, msg string) (Token, error) {
	if p.check(typ) {
		return p.next(), nil
	}

	return Token{}, p.fault(p.peek(), msg)
}

// fault classifies a mismatch at tok: a buffered lexer error surfaces as a
// LexError, end of input is reported distinctly, and anything else names the
// token actually found.
func (p *Parser) fault(tok Token, msg string) error {
	switch tok.Typ {
	case TokenError:
		return &LexError{Line: tok.Line, Msg: tok.Lexeme}
	case TokenEOF:
		return &ParseError{Line: tok.Line, Msg: fmt.Sprintf("unexpected end of input: %s", msg)}
	default:
		return &ParseError{Line: tok.Line, Msg: fmt.Sprintf("%s, got '%s'", msg, tok.Lexeme)}
	}
}
