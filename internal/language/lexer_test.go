package language

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hanpama/gqlcore/internal/errcode"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func lexAll(t *testing.T, source string) []Token {
	t.Helper()
	l := NewLexer(source)
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func TestLexer_CommentsAreSkipped(t *testing.T) {
	ignoreLoc := cmpopts.IgnoreFields(Token{}, "Loc")
	want := lexAll(t, "{a}")
	got := lexAll(t, "# comment\n{a}")
	if diff := cmp.Diff(want, got, ignoreLoc); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Tokens(t *testing.T) {
	src := `query queryable on onion true falsey null nullable 12 -3 0 1.5 2e10 -0.5E-3 "a\nbA" ... $ ! , &|=@:()[]{}`
	got := lexAll(t, src)

	type kv struct {
		Kind  TokenKind
		Value string
	}
	var simplified []kv
	for _, tok := range got {
		simplified = append(simplified, kv{tok.Kind, tok.Value})
	}
	want := []kv{
		{TokenQuery, "query"},
		{TokenName, "queryable"},
		{TokenOn, "on"},
		{TokenName, "onion"},
		{TokenBoolean, "true"},
		{TokenName, "falsey"},
		{TokenNull, "null"},
		{TokenName, "nullable"},
		{TokenInt, "12"},
		{TokenInt, "-3"},
		{TokenInt, "0"},
		{TokenFloat, "1.5"},
		{TokenFloat, "2e10"},
		{TokenFloat, "-0.5E-3"},
		{TokenString, "a\nbA"},
		{TokenSpread, "..."},
		{TokenDollar, "$"},
		{TokenBang, "!"},
		{TokenAmp, "&"},
		{TokenPipe, "|"},
		{TokenEquals, "="},
		{TokenAt, "@"},
		{TokenColon, ":"},
		{TokenParenL, "("},
		{TokenParenR, ")"},
		{TokenBracketL, "["},
		{TokenBracketR, "]"},
		{TokenBraceL, "{"},
		{TokenBraceR, "}"},
		{TokenEOF, ""},
	}
	if diff := cmp.Diff(want, simplified); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Locations(t *testing.T) {
	l := NewLexer("{\n  hero\r\n\tname }")

	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, Location{Line: 1, Column: 1}, tok.Loc)

	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, "hero", tok.Value)
	require.Equal(t, Location{Line: 2, Column: 3}, tok.Loc)
	require.Equal(t, Location{Line: 2, Column: 3}, l.LastLocation())
	require.Equal(t, Location{Line: 2, Column: 7}, l.CurrentLocation())

	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, Location{Line: 3, Column: 2}, tok.Loc)

	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, TokenBraceR, tok.Kind)
	require.Equal(t, Location{Line: 3, Column: 7}, tok.Loc)
}

func TestLexer_GlimpseDoesNotConsume(t *testing.T) {
	l := NewLexer("... on Droid")

	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, TokenSpread, tok.Kind)

	peeked, err := l.Glimpse()
	require.NoError(t, err)
	require.Equal(t, TokenOn, peeked.Kind)
	require.Equal(t, Location{Line: 1, Column: 1}, l.LastLocation())

	next, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, peeked, next)
}

func TestLexer_LocationsAcrossGlimpses(t *testing.T) {
	l := NewLexer("query {\n  a\r  b\n\n  \"é\" name(x: 1) }")

	var locs []Location
	for {
		peeked, err := l.Glimpse()
		require.NoError(t, err)
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, peeked, tok)
		require.Equal(t, tok.Loc, l.LastLocation())
		locs = append(locs, tok.Loc)
		if tok.Kind == TokenEOF {
			break
		}
	}
	want := []Location{
		{Line: 1, Column: 1}, {Line: 1, Column: 7},
		{Line: 2, Column: 3},
		{Line: 3, Column: 3},
		{Line: 5, Column: 3}, {Line: 5, Column: 7}, {Line: 5, Column: 11}, {Line: 5, Column: 12},
		{Line: 5, Column: 13}, {Line: 5, Column: 15}, {Line: 5, Column: 16}, {Line: 5, Column: 18},
		{Line: 5, Column: 19},
	}
	if diff := cmp.Diff(want, locs); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_SurrogatePairs(t *testing.T) {
	tests := []struct {
		name, source, want string
	}{
		{name: "pair", source: `"\uD83D\uDE00"`, want: "\U0001F600"},
		{name: "pair between text", source: `"a\ud83d\ude00b"`, want: "a\U0001F600b"},
		{name: "lone high surrogate", source: `"\uD83Dx"`, want: "\uFFFDx"},
		{name: "high surrogate before a plain escape", source: `"\uD83D\u0041"`, want: "\uFFFDA"},
		{name: "lone low surrogate", source: `"\uDE00"`, want: "\uFFFD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer(tt.source).Next()
			require.NoError(t, err)
			require.Equal(t, TokenString, tok.Kind)
			require.Equal(t, tt.want, tok.Value)
		})
	}
}

func TestLexer_EOFRepeats(t *testing.T) {
	l := NewLexer("  ")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.NoError(t, err)
		require.Equal(t, TokenEOF, tok.Kind)
	}
}

func TestLexer_BlockString(t *testing.T) {
	toks := lexAll(t, "\"\"\"\n    hello\n      world\n  \"\"\"")
	require.Equal(t, TokenBlockString, toks[0].Kind)
	require.Equal(t, "hello\n  world", toks[0].Value)

	toks = lexAll(t, `"""say \"""hi\""" please"""`)
	require.Equal(t, `say """hi""" please`, toks[0].Value)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		kind    error
		message string
		loc     gqlerror.Location
	}{
		{"unexpected character", "{ ? }", ErrUnexpectedCharacter, "Syntax Error: Unexpected character: '?'.", gqlerror.Location{Line: 1, Column: 3}},
		{"unterminated string", "{ a(s: \"abc", ErrUnexpectedEndOfInput, "Syntax Error: Unterminated string.", gqlerror.Location{Line: 1, Column: 8}},
		{"unterminated block string", `"""abc`, ErrUnexpectedEndOfInput, "Syntax Error: Unterminated string.", gqlerror.Location{Line: 1, Column: 1}},
		{"number followed by name", "12a", ErrUnexpectedCharacter, "Syntax Error: Unexpected character: '1'.", gqlerror.Location{Line: 1, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.source)
			var err error
			for err == nil {
				var tok Token
				tok, err = l.Next()
				if tok.Kind == TokenEOF && err == nil {
					t.Fatal("expected an error before EOF")
				}
			}
			require.True(t, errors.Is(err, tt.kind), "got %v", err)

			var gerr *gqlerror.Error
			require.True(t, errors.As(err, &gerr))
			require.Equal(t, tt.message, gerr.Message)
			require.Equal(t, []gqlerror.Location{tt.loc}, gerr.Locations)
			require.Equal(t, errcode.ParseFailed, errcode.Get(err))
		})
	}
}
