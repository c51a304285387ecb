package language

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Syntax error kinds; every syntax error wraps exactly one of them.
var (
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnexpectedCharacter  = errors.New("unexpected character")
)

// rule matches a prefix of the remaining input. match returns the length of
// the match or 0. Skipped rules advance the cursor without emitting a token.
type rule struct {
	kind  TokenKind
	skip  bool
	match func(input string) int
}

// rules are tried in order; the first one that matches wins.
var rules = []rule{
	{skip: true, match: pattern(`^[\t \n\r,\x{FEFF}]+`)},
	{skip: true, match: pattern(`^#[^\n\r]*`)},
	{kind: TokenSpread, match: literal("...")},
	{kind: TokenBang, match: literal("!")},
	{kind: TokenDollar, match: literal("$")},
	{kind: TokenAmp, match: literal("&")},
	{kind: TokenParenL, match: literal("(")},
	{kind: TokenParenR, match: literal(")")},
	{kind: TokenColon, match: literal(":")},
	{kind: TokenEquals, match: literal("=")},
	{kind: TokenAt, match: literal("@")},
	{kind: TokenBracketL, match: literal("[")},
	{kind: TokenBracketR, match: literal("]")},
	{kind: TokenBraceL, match: literal("{")},
	{kind: TokenPipe, match: literal("|")},
	{kind: TokenBraceR, match: literal("}")},
	{kind: TokenQuery, match: keyword("query")},
	{kind: TokenMutation, match: keyword("mutation")},
	{kind: TokenFragment, match: keyword("fragment")},
	{kind: TokenOn, match: keyword("on")},
	{kind: TokenBlockString, match: blockString},
	{kind: TokenString, match: unlessPrefix(`"""`, pattern(`^"(?:[^"\\\n\r]|\\["\\/bfnrt]|\\u[0-9A-Fa-f]{4})*"`))},
	{kind: TokenFloat, match: guarded(pattern(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+(?:[eE][+-]?[0-9]+)?|[eE][+-]?[0-9]+)`))},
	{kind: TokenInt, match: guarded(pattern(`^-?(?:0|[1-9][0-9]*)`))},
	{kind: TokenBoolean, match: keyword("true", "false")},
	{kind: TokenNull, match: keyword("null")},
	{kind: TokenName, match: pattern(`^[_A-Za-z][_0-9A-Za-z]*`)},
}

func pattern(expr string) func(string) int {
	re := regexp.MustCompile(expr)
	return func(input string) int {
		loc := re.FindStringIndex(input)
		if loc == nil {
			return 0
		}
		return loc[1]
	}
}

func literal(lit string) func(string) int {
	return func(input string) int {
		if strings.HasPrefix(input, lit) {
			return len(lit)
		}
		return 0
	}
}

// keyword matches one of words when it is not immediately followed by another
// name character, so "query" does not match the start of "queryable".
func keyword(words ...string) func(string) int {
	return func(input string) int {
		for _, w := range words {
			if strings.HasPrefix(input, w) && (len(input) == len(w) || !isNameContinue(input[len(w)])) {
				return len(w)
			}
		}
		return 0
	}
}

// guarded rejects numbers directly followed by a name start, a digit, or a dot.
func guarded(match func(string) int) func(string) int {
	return func(input string) int {
		n := match(input)
		if n == 0 || n == len(input) {
			return n
		}
		if c := input[n]; c == '.' || isNameContinue(c) {
			return 0
		}
		return n
	}
}

// unlessPrefix disables match for inputs starting with prefix.
func unlessPrefix(prefix string, match func(string) int) func(string) int {
	return func(input string) int {
		if strings.HasPrefix(input, prefix) {
			return 0
		}
		return match(input)
	}
}

func blockString(input string) int {
	const marker = `"""`
	if !strings.HasPrefix(input, marker) {
		return 0
	}
	for i := len(marker); ; {
		j := strings.Index(input[i:], marker)
		if j == -1 {
			return 0
		}
		if input[i+j-1] != '\\' {
			return i + j + len(marker)
		}
		i += j + len(marker)
	}
}

func isNameContinue(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Lexer converts a source document into a stream of tokens.
type Lexer struct {
	input string
	pos   int
	cur   cursor
	last  Location
}

// cursor holds the line and column of offset. It only moves forward.
type cursor struct {
	offset int
	line   int
	column int
}

var startOfInput = cursor{line: 1, column: 1}

// advance moves c to offset. \r\n is a single line break.
func (c *cursor) advance(input string, offset int) {
	for ; c.offset < offset && c.offset < len(input); c.offset++ {
		switch ch := input[c.offset]; {
		case ch == '\n', ch == '\r' && (c.offset+1 == len(input) || input[c.offset+1] != '\n'):
			c.line++
			c.column = 1
		case utf8.RuneStart(ch):
			c.column++
		}
	}
}

// NewLexer creates a Lexer positioned at the start of source.
func NewLexer(source string) *Lexer {
	return &Lexer{input: source, cur: startOfInput, last: Location{Line: 1, Column: 1}}
}

// Next consumes and returns the next token. At the end of the input it returns
// a TokenEOF token; it keeps doing so on subsequent calls.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.pos >= len(l.input) {
			l.last = l.locationAt(l.pos)
			return Token{Kind: TokenEOF, Loc: l.last}, nil
		}
		rest := l.input[l.pos:]
		var (
			r *rule
			n int
		)
		for i := range rules {
			if n = rules[i].match(rest); n > 0 {
				r = &rules[i]
				break
			}
		}
		if r == nil {
			return Token{}, l.noMatch(rest)
		}
		start := l.pos
		l.pos += n
		if r.skip {
			continue
		}
		l.last = l.locationAt(start)
		tok := Token{Kind: r.kind, Value: rest[:n], Loc: l.last}
		switch r.kind {
		case TokenString:
			tok.Value = unquote(tok.Value)
		case TokenBlockString:
			tok.Value = blockStringValue(tok.Value[3 : len(tok.Value)-3])
		}
		return tok, nil
	}
}

// Glimpse returns the token after the current one without consuming it.
func (l *Lexer) Glimpse() (Token, error) {
	pos, cur, last := l.pos, l.cur, l.last
	defer func() { l.pos, l.cur, l.last = pos, cur, last }()
	return l.Next()
}

// LastLocation returns the start of the most recently emitted token.
func (l *Lexer) LastLocation() Location {
	return l.last
}

// CurrentLocation returns the location of the cursor.
func (l *Lexer) CurrentLocation() Location {
	return l.locationAt(l.pos)
}

func (l *Lexer) locationAt(offset int) Location {
	if offset < l.cur.offset {
		l.cur = startOfInput
	}
	l.cur.advance(l.input, offset)
	return Location{Line: l.cur.line, Column: l.cur.column}
}

func (l *Lexer) noMatch(rest string) error {
	loc := l.CurrentLocation()
	if strings.HasPrefix(rest, `"`) {
		if strings.HasPrefix(rest, `"""`) || !strings.ContainsAny(rest[1:], "\"\n\r") {
			return syntaxError(loc, ErrUnexpectedEndOfInput, "Unterminated string.")
		}
		return syntaxError(loc, ErrUnexpectedCharacter, "Invalid string literal.")
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return syntaxError(loc, ErrUnexpectedCharacter, "Unexpected character: %s.", strconv.QuoteRune(r))
}

func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r := hexRune(body[i+1 : i+5])
			i += 4
			// A surrogate pair spells one supplementary code point; a lone
			// surrogate is written as U+FFFD.
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if pair := utf16.DecodeRune(r, hexRune(body[i+3:i+7])); pair != utf8.RuneError {
					r = pair
					i += 6
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

func hexRune(digits string) rune {
	code, _ := strconv.ParseUint(digits, 16, 32)
	return rune(code)
}

// blockStringValue implements the block string dedent algorithm.
func blockStringValue(raw string) string {
	raw = strings.ReplaceAll(raw, `\"""`, `"""`)
	lines := strings.Split(strings.ReplaceAll(strings.ReplaceAll(raw, "\r\n", "\n"), "\r", "\n"), "\n")

	common := -1
	for _, line := range lines[1:] {
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue
		}
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= common {
				lines[i] = lines[i][common:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && leadingWhitespace(lines[0]) == len(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && leadingWhitespace(lines[len(lines)-1]) == len(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func syntaxError(loc Location, kind error, format string, args ...any) *gqlerror.Error {
	err := &gqlerror.Error{
		Err:       kind,
		Message:   "Syntax Error: " + fmt.Sprintf(format, args...),
		Locations: []gqlerror.Location{{Line: loc.Line, Column: loc.Column}},
	}
	return errcode.Set(err, errcode.ParseFailed)
}
