package language

import (
	"errors"
	"strconv"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Parser is a recursive-descent parser for executable documents. It keeps one
// token of lookahead and stops at the first syntax error.
type Parser struct {
	lexer    *Lexer
	tok      Token
	document *Document
	errors   gqlerror.List
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse parses source, replacing the result of any earlier call. Afterwards
// either Document is set or Errors holds exactly one syntax error.
func (p *Parser) Parse(source string) {
	p.lexer = NewLexer(source)
	p.document = nil
	p.errors = nil

	doc, err := p.parseDocument()
	if err != nil {
		var gerr *gqlerror.Error
		if !errors.As(err, &gerr) {
			gerr = &gqlerror.Error{Err: err, Message: err.Error()}
		}
		p.errors = gqlerror.List{gerr}
		return
	}
	p.document = doc
}

func (p *Parser) Document() *Document   { return p.document }
func (p *Parser) Errors() gqlerror.List { return p.errors }
func (p *Parser) Valid() bool           { return p.document != nil && len(p.errors) == 0 }

// Parse parses source into a Document.
func Parse(source string) (*Document, error) {
	p := NewParser()
	p.Parse(source)
	if !p.Valid() {
		return nil, p.errors[0]
	}
	return p.document, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) peek(kind TokenKind) bool {
	return p.tok.Kind == kind
}

// expect asserts the lookahead kind and advances past it.
func (p *Parser) expect(kind TokenKind) error {
	if p.tok.Kind != kind {
		want := kind.String()
		if kind.isPunctuator() || isKeyword(kind) {
			want = strconv.Quote(want)
		}
		return p.errorf("Expected %s, found %s.", want, p.tok)
	}
	return p.advance()
}

func (p *Parser) unexpected() error {
	return p.errorf("Unexpected %s.", p.tok)
}

func (p *Parser) errorf(format string, args ...any) error {
	kind := ErrUnexpectedToken
	if p.tok.Kind == TokenEOF {
		kind = ErrUnexpectedEndOfInput
	}
	return syntaxError(p.tok.Loc, kind, format, args...)
}

func isKeyword(kind TokenKind) bool {
	switch kind {
	case TokenQuery, TokenMutation, TokenFragment, TokenOn:
		return true
	}
	return false
}

// isName reports whether a token can stand where a Name is expected.
func isName(kind TokenKind) bool {
	return kind == TokenName || kind == TokenBoolean || kind == TokenNull || isKeyword(kind)
}

func (p *Parser) parseName() (string, error) {
	if !isName(p.tok.Kind) {
		return "", p.errorf("Expected Name, found %s.", p.tok)
	}
	name := p.tok.Value
	return name, p.advance()
}

// Document := Definition*
func (p *Parser) parseDocument() (*Document, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	doc := &Document{Loc: p.tok.Loc}
	for !p.peek(TokenEOF) {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

func (p *Parser) parseDefinition() (Definition, error) {
	switch p.tok.Kind {
	case TokenBraceL, TokenQuery, TokenMutation:
		return p.parseOperationDefinition()
	case TokenFragment:
		return p.parseFragmentDefinition()
	}
	return nil, p.unexpected()
}

func (p *Parser) parseOperationDefinition() (*OperationDefinition, error) {
	op := &OperationDefinition{Loc: p.tok.Loc, Operation: Query}
	if p.peek(TokenBraceL) {
		ss, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		op.SelectionSet = ss
		return op, nil
	}

	op.Operation = p.tok.Value
	if err := p.advance(); err != nil {
		return nil, err
	}
	var err error
	if isName(p.tok.Kind) {
		if op.Name, err = p.parseName(); err != nil {
			return nil, err
		}
	}
	if p.peek(TokenParenL) {
		if op.VariableDefinitions, err = p.parseVariableDefinitions(); err != nil {
			return nil, err
		}
	}
	if op.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if op.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}
	return op, nil
}

func (p *Parser) parseVariableDefinitions() ([]*VariableDefinition, error) {
	if err := p.expect(TokenParenL); err != nil {
		return nil, err
	}
	var defs []*VariableDefinition
	for {
		def, err := p.parseVariableDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		if p.peek(TokenParenR) {
			return defs, p.advance()
		}
	}
}

func (p *Parser) parseVariableDefinition() (*VariableDefinition, error) {
	def := &VariableDefinition{Loc: p.tok.Loc}
	var err error
	if def.Variable, err = p.parseVariable(); err != nil {
		return nil, err
	}
	if err = p.expect(TokenColon); err != nil {
		return nil, err
	}
	if def.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if p.peek(TokenEquals) {
		if err = p.advance(); err != nil {
			return nil, err
		}
		if def.DefaultValue, err = p.parseValue(true); err != nil {
			return nil, err
		}
	}
	if def.Directives, err = p.parseDirectives(true); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseVariable() (*Variable, error) {
	v := &Variable{Loc: p.tok.Loc}
	if err := p.expect(TokenDollar); err != nil {
		return nil, err
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	v.Name = name
	return v, nil
}

func (p *Parser) parseFragmentDefinition() (*FragmentDefinition, error) {
	frag := &FragmentDefinition{Loc: p.tok.Loc}
	if err := p.expect(TokenFragment); err != nil {
		return nil, err
	}
	if p.peek(TokenOn) {
		return nil, p.unexpected()
	}
	var err error
	if frag.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if err = p.expect(TokenOn); err != nil {
		return nil, err
	}
	if frag.TypeCondition, err = p.parseNamedType(); err != nil {
		return nil, err
	}
	if frag.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if frag.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}
	return frag, nil
}

func (p *Parser) parseSelectionSet() (*SelectionSet, error) {
	ss := &SelectionSet{Loc: p.tok.Loc}
	if err := p.expect(TokenBraceL); err != nil {
		return nil, err
	}
	for {
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		ss.Selections = append(ss.Selections, sel)
		if p.peek(TokenBraceR) {
			return ss, p.advance()
		}
	}
}

func (p *Parser) parseSelection() (Selection, error) {
	if p.peek(TokenSpread) {
		return p.parseFragment()
	}
	return p.parseField()
}

func (p *Parser) parseField() (*Field, error) {
	f := &Field{Loc: p.tok.Loc}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if p.peek(TokenColon) {
		if err = p.advance(); err != nil {
			return nil, err
		}
		f.Alias = name
		if name, err = p.parseName(); err != nil {
			return nil, err
		}
	}
	f.Name = name
	if p.peek(TokenParenL) {
		if f.Arguments, err = p.parseArguments(false); err != nil {
			return nil, err
		}
	}
	if f.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	if p.peek(TokenBraceL) {
		if f.SelectionSet, err = p.parseSelectionSet(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// parseFragment parses an inline fragment or a fragment spread. The token
// after "..." decides: "on", "@" or "{" start an inline fragment.
func (p *Parser) parseFragment() (Selection, error) {
	loc := p.tok.Loc
	next, err := p.lexer.Glimpse()
	if err != nil {
		return nil, err
	}
	if err = p.expect(TokenSpread); err != nil {
		return nil, err
	}

	switch next.Kind {
	case TokenOn, TokenAt, TokenBraceL:
		frag := &InlineFragment{Loc: loc}
		if p.peek(TokenOn) {
			if err = p.advance(); err != nil {
				return nil, err
			}
			if frag.TypeCondition, err = p.parseNamedType(); err != nil {
				return nil, err
			}
		}
		if frag.Directives, err = p.parseDirectives(false); err != nil {
			return nil, err
		}
		if frag.SelectionSet, err = p.parseSelectionSet(); err != nil {
			return nil, err
		}
		return frag, nil
	}

	spread := &FragmentSpread{Loc: loc}
	if spread.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if spread.Directives, err = p.parseDirectives(false); err != nil {
		return nil, err
	}
	return spread, nil
}

func (p *Parser) parseArguments(isConst bool) ([]*Argument, error) {
	if err := p.expect(TokenParenL); err != nil {
		return nil, err
	}
	var args []*Argument
	for {
		arg := &Argument{Loc: p.tok.Loc}
		var err error
		if arg.Name, err = p.parseName(); err != nil {
			return nil, err
		}
		if err = p.expect(TokenColon); err != nil {
			return nil, err
		}
		if arg.Value, err = p.parseValue(isConst); err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek(TokenParenR) {
			return args, p.advance()
		}
	}
}

func (p *Parser) parseDirectives(isConst bool) ([]*Directive, error) {
	var dirs []*Directive
	for p.peek(TokenAt) {
		d := &Directive{Loc: p.tok.Loc}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		if d.Name, err = p.parseName(); err != nil {
			return nil, err
		}
		if p.peek(TokenParenL) {
			if d.Arguments, err = p.parseArguments(isConst); err != nil {
				return nil, err
			}
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// parseValue parses a value literal; variables are rejected when isConst.
func (p *Parser) parseValue(isConst bool) (Value, error) {
	tok := p.tok
	loc := tok.Loc
	var v Value
	switch tok.Kind {
	case TokenBracketL:
		return p.parseListValue(isConst)
	case TokenBraceL:
		return p.parseObjectValue(isConst)
	case TokenDollar:
		if isConst {
			return nil, p.unexpected()
		}
		return p.parseVariable()
	case TokenInt:
		v = &IntValue{Loc: loc, Value: tok.Value}
	case TokenFloat:
		v = &FloatValue{Loc: loc, Value: tok.Value}
	case TokenString:
		v = &StringValue{Loc: loc, Value: tok.Value}
	case TokenBlockString:
		v = &StringValue{Loc: loc, Value: tok.Value, Block: true}
	case TokenBoolean:
		v = &BooleanValue{Loc: loc, Value: tok.Value == "true"}
	case TokenNull:
		v = &NullValue{Loc: loc}
	case TokenName, TokenQuery, TokenMutation, TokenFragment, TokenOn:
		v = &EnumValue{Loc: loc, Value: tok.Value}
	default:
		return nil, p.unexpected()
	}
	return v, p.advance()
}

func (p *Parser) parseListValue(isConst bool) (*ListValue, error) {
	list := &ListValue{Loc: p.tok.Loc}
	if err := p.expect(TokenBracketL); err != nil {
		return nil, err
	}
	for !p.peek(TokenBracketR) {
		v, err := p.parseValue(isConst)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, v)
	}
	return list, p.advance()
}

func (p *Parser) parseObjectValue(isConst bool) (*ObjectValue, error) {
	obj := &ObjectValue{Loc: p.tok.Loc}
	if err := p.expect(TokenBraceL); err != nil {
		return nil, err
	}
	for !p.peek(TokenBraceR) {
		field := &ObjectField{Loc: p.tok.Loc}
		var err error
		if field.Name, err = p.parseName(); err != nil {
			return nil, err
		}
		if err = p.expect(TokenColon); err != nil {
			return nil, err
		}
		if field.Value, err = p.parseValue(isConst); err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, field)
	}
	return obj, p.advance()
}

// Type := NamedType | "[" Type "]" | Type "!"
func (p *Parser) parseType() (Type, error) {
	loc := p.tok.Loc
	var t Type
	if p.peek(TokenBracketL) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err = p.expect(TokenBracketR); err != nil {
			return nil, err
		}
		t = &ListType{Loc: loc, Type: inner}
	} else {
		named, err := p.parseNamedType()
		if err != nil {
			return nil, err
		}
		t = named
	}
	if p.peek(TokenBang) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t = &NonNullType{Loc: loc, Type: t}
	}
	return t, nil
}

func (p *Parser) parseNamedType() (*NamedType, error) {
	nt := &NamedType{Loc: p.tok.Loc}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	nt.Name = name
	return nt, nil
}
