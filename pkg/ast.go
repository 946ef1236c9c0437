package paijorot

// Expr nodes form an owned tree, built once per parse and never mutated.
type Expr interface{}

type LiteralExpr struct {
	Value Value
}

type GroupingExpr struct {
	Inner Expr
}

type VariableExpr struct {
	Name Token
}

// BinaryExpr covers arithmetic, comparison, equality, and assignment; an
// assignment is a BinaryExpr whose Op is the pmo token and whose Left must
// reduce to a bare VariableExpr.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// ArrayExpr is the gyat literal. Evaluating it also defines Name in the
// current environment.
type ArrayExpr struct {
	Name     Token
	Elements []Expr
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

// InputExpr is the yeet expression: prompt, then block on one line of input.
type InputExpr struct{}

type Stmt interface{}

type ExpressionStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

type VarStmt struct {
	Name        Token
	Initializer Expr // nil declares the name as nil
}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // optional
}

type LoopStmt struct {
	Count Expr // nil loops without bound
	Body  []Stmt
}

type BreakStmt struct{}

// FunctionStmt declares a function whose body is a single expression.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   Expr
}
