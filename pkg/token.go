package paijorot

type TokenType uint64

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	TokenError TokenType = iota
	TokenEOF

	// Single-character tokens
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenSemicolon

	// Operators
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenModulo
	TokenEqual
	TokenNotEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenYap   // print
	TokenTs    // variable declaration
	TokenPmo   // assignment
	TokenGyat  // array literal
	TokenHawk  // function declaration
	TokenTuah  // function body marker
	TokenGoon  // loop
	TokenEdge  // end of loop
	TokenYeet  // read input
	TokenSybau // break
	TokenYo    // if
	TokenGurt  // else
)

var keywordTable = map[string]TokenType{
	"yap":   TokenYap,
	"ts":    TokenTs,
	"pmo":   TokenPmo,
	"gyat":  TokenGyat,
	"gyatt": TokenGyat, // Alias for gyat
	"hawk":  TokenHawk,
	"tuah":  TokenTuah,
	"goon":  TokenGoon,
	"edge":  TokenEdge,
	"yeet":  TokenYeet,
	"sybau": TokenSybau,
	"yo":    TokenYo,
	"gurt":  TokenGurt,
}

// Token is one lexeme of source text. Lit carries the decoded payload for
// number and string tokens, and Line the 1-based source line.
type Token struct {
	Typ    TokenType
	Lexeme string
	Lit    Value
	Line   int
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}
