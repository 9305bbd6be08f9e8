package token

import "fmt"

type TokenType string

// MinIntMagnitude is the literal 9223372036854775808. It is lexed as a uint64
// so that -9223372036854775808 can be written.
const MinIntMagnitude uint64 = 1 << 63

const (
	KEYWORD      TokenType = "KEYWORD"
	TYPE_KEYWORD TokenType = "TYPE_KEYWORD"
	IDENT        TokenType = "IDENT"
	OPERATOR     TokenType = "OPERATOR"
	DELIMITER    TokenType = "DELIMITER"
	INT          TokenType = "INT"
	FLOAT        TokenType = "FLOAT"
	STRING       TokenType = "STRING"
	NEWLINE      TokenType = "NEWLINE"
	EOF          TokenType = "EOF"
)

// Token is one lexical unit. Lexeme is the exact source text (string tokens keep
// their quotes); Literal is the decoded value: int64 for INT (uint64 for
// MinIntMagnitude), float64 for FLOAT, the unquoted body for STRING and the
// lexeme for everything else.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

// Is reports whether the token has the given type and lexeme.
func (t Token) Is(tokenType TokenType, lexeme string) bool {
	return t.Type == tokenType && t.Lexeme == lexeme
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "newline"
	}
	return fmt.Sprintf("'%s'", t.Lexeme)
}

// Keywords
const (
	FUNC   = "func"
	IF     = "if"
	ELIF   = "elif"
	ELSE   = "else"
	WHILE  = "while"
	FOR    = "for"
	IN     = "in"
	PRINT  = "print"
	INPUT  = "input"
	RETURN = "return"
	IMPORT = "import"
	AND    = "and"
	OR     = "or"
	NOT    = "not"
)

// Type keywords
const (
	TYPE_INT   = "int"
	TYPE_FLOAT = "float"
	TYPE_STR   = "STR"
	TYPE_LIST  = "List"
	TYPE_DICT  = "Dictionary"
	NONE       = "none"
)

// Operators
const (
	ROOT      = "///"
	EQ        = "=="
	NOT_EQ    = "!="
	GTE       = ">="
	LTE       = "<="
	POWER     = "**"
	FLOOR_DIV = "//"
	PLUS      = "+"
	MINUS     = "-"
	ASTERISK  = "*"
	SLASH     = "/"
	PERCENT   = "%"
	ASSIGN    = "="
	GT        = ">"
	LT        = "<"

	// NOT_IN is the lexeme the parser gives to the fused "not in" operator.
	NOT_IN = "not in"
)

// Delimiters
const (
	PIPE_PIPE = "||"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	COLON     = ":"
	COMMA     = ","
	SEMICOLON = ";"
)

// RANGE is not reserved; the legacy for form expects an identifier with this name.
const RANGE = "range"

var keywords = map[string]TokenType{
	FUNC:   KEYWORD,
	IF:     KEYWORD,
	ELIF:   KEYWORD,
	ELSE:   KEYWORD,
	WHILE:  KEYWORD,
	FOR:    KEYWORD,
	IN:     KEYWORD,
	PRINT:  KEYWORD,
	INPUT:  KEYWORD,
	RETURN: KEYWORD,
	IMPORT: KEYWORD,
	AND:    KEYWORD,
	OR:     KEYWORD,
	NOT:    KEYWORD,

	TYPE_INT:   TYPE_KEYWORD,
	TYPE_FLOAT: TYPE_KEYWORD,
	TYPE_STR:   TYPE_KEYWORD,
	TYPE_LIST:  TYPE_KEYWORD,
	TYPE_DICT:  TYPE_KEYWORD,
	NONE:       TYPE_KEYWORD,
}

// Operators ordered so that a longer spelling is always tried before its prefixes.
var Operators = []string{ROOT, EQ, NOT_EQ, GTE, LTE, POWER, FLOOR_DIV, PLUS, MINUS, ASTERISK, SLASH, PERCENT, ASSIGN, GT, LT}

// Delimiters ordered the same way as Operators.
var Delimiters = []string{PIPE_PIPE, LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, COLON, COMMA, SEMICOLON}

// LookupIdent classifies an identifier-shaped word.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsConversion reports whether a type keyword can be called as a conversion.
func IsConversion(lexeme string) bool {
	switch lexeme {
	case TYPE_INT, TYPE_FLOAT, TYPE_STR:
		return true
	}
	return false
}
