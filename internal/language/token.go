package language

import (
	"fmt"
	"strconv"
)

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenBang
	TokenDollar
	TokenAmp
	TokenParenL
	TokenParenR
	TokenSpread
	TokenColon
	TokenEquals
	TokenAt
	TokenBracketL
	TokenBracketR
	TokenBraceL
	TokenPipe
	TokenBraceR

	// keywords
	TokenQuery
	TokenMutation
	TokenFragment
	TokenOn

	TokenString
	TokenBlockString
	TokenFloat
	TokenInt
	TokenBoolean
	TokenNull
	TokenName
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "<EOF>",
	TokenBang:        "!",
	TokenDollar:      "$",
	TokenAmp:         "&",
	TokenParenL:      "(",
	TokenParenR:      ")",
	TokenSpread:      "...",
	TokenColon:       ":",
	TokenEquals:      "=",
	TokenAt:          "@",
	TokenBracketL:    "[",
	TokenBracketR:    "]",
	TokenBraceL:      "{",
	TokenPipe:        "|",
	TokenBraceR:      "}",
	TokenQuery:       "query",
	TokenMutation:    "mutation",
	TokenFragment:    "fragment",
	TokenOn:          "on",
	TokenString:      "String",
	TokenBlockString: "BlockString",
	TokenFloat:       "Float",
	TokenInt:         "Int",
	TokenBoolean:     "Boolean",
	TokenNull:        "null",
	TokenName:        "Name",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// isPunctuator reports whether tokens of kind k are described by their literal.
func (k TokenKind) isPunctuator() bool {
	return k >= TokenBang && k <= TokenBraceR
}

// Location is a 1-based line/column position in a source document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind  TokenKind
	Value string
	Loc   Location
}

// String describes the token the way syntax errors print it.
func (t Token) String() string {
	switch {
	case t.Kind == TokenEOF:
		return "<EOF>"
	case t.Kind.isPunctuator():
		return strconv.Quote(t.Kind.String())
	case t.Kind == TokenString, t.Kind == TokenBlockString:
		return "String " + strconv.Quote(t.Value)
	case t.Kind == TokenName, t.Kind == TokenQuery, t.Kind == TokenMutation,
		t.Kind == TokenFragment, t.Kind == TokenOn:
		return "Name " + strconv.Quote(t.Value)
	default:
		return t.Kind.String() + " " + strconv.Quote(t.Value)
	}
}
