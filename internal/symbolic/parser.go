package symbolic

import (
	"math/big"
	"sort"
	"strings"
	"unicode"

	"github.com/Mnehmos/provecalc-engine/internal/domain"
)

// The parser is a recursive-descent grammar over normalized algebraic text:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | implicit) unary }
//	unary   = "-" unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | ident | ident "(" expr ")" | "(" expr ")"
//
// Adjacency of a value and an identifier, number, or parenthesis reads as
// implicit multiplication, matching the normalizer's output for forms like
// "2x" and "(a)(b)".

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch >= '0' && ch <= '9' || ch == '.':
		return l.lexNumber(start)
	case ch == '_' || unicode.IsLetter(rune(ch)):
		for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
			l.pos++
		}

		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
	case ch == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ch == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case ch == '*':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokOp, text: "**", pos: start}, nil
		}

		return token{kind: tokOp, text: "*", pos: start}, nil
	case ch == '+' || ch == '-' || ch == '/' || ch == '^':
		l.pos++
		return token{kind: tokOp, text: string(ch), pos: start}, nil
	}

	return token{}, domain.NewParseError(l.input, start+1, "unexpected character "+string(ch))
}

func (l *lexer) lexNumber(start int) (token, error) {
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch >= '0' && ch <= '9' {
			l.pos++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			l.pos++
			continue
		}
		// Scientific notation: 1.5e-3.
		if (ch == 'e' || ch == 'E') && l.pos+1 < len(l.input) {
			rest := l.input[l.pos+1:]
			if len(rest) > 0 && (rest[0] >= '0' && rest[0] <= '9' ||
				(rest[0] == '+' || rest[0] == '-') && len(rest) > 1 && rest[1] >= '0' && rest[1] <= '9') {
				l.pos += 2
				for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
					l.pos++
				}
			}
		}

		break
	}

	text := l.input[start:l.pos]
	if text == "." {
		return token{}, domain.NewParseError(l.input, start+1, "malformed number")
	}

	return token{kind: tokNum, text: text, pos: start}, nil
}

func isIdentChar(ch byte) bool {
	return ch == '_' || ch >= '0' && ch <= '9' ||
		ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

type parser struct {
	ctx   *Context
	input string
	lex   lexer
	tok   token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok

	return nil
}

func (p *parser) errAt(reason string) error {
	return domain.NewParseError(p.input, p.tok.pos+1, reason)
}

func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	terms := []Expr{left}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		terms = append(terms, right)
	}

	return AddOf(terms...), nil
}

// startsFactor reports whether the current token can begin an implicit
// multiplication operand.
func (p *parser) startsFactor() bool {
	return p.tok.kind == tokNum || p.tok.kind == tokIdent || p.tok.kind == tokLParen
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	factors := []Expr{left}
	for {
		switch {
		case p.tok.kind == tokOp && p.tok.text == "*":
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		case p.tok.kind == tokOp && p.tok.text == "/":
			if err := p.advance(); err != nil {
				return nil, err
			}
			f, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			factors = append(factors, PowOf(f, N(-1)))
		case p.startsFactor():
			f, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			factors = append(factors, f)
		default:
			return MulOf(factors...), nil
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.kind == tokOp && p.tok.text == "-" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return MulOf(N(-1), inner), nil
	}
	if p.tok.kind == tokOp && p.tok.text == "+" {
		if err := p.advance(); err != nil {
			return nil, err
		}

		return p.parseUnary()
	}

	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.tok.kind == tokOp && (p.tok.text == "^" || p.tok.text == "**") {
		if err := p.advance(); err != nil {
			return nil, err
		}

		// Right-associative; exponent may carry its own sign.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return PowOf(base, exp), nil
	}

	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(p.tok.text)
		if !ok {
			return nil, p.errAt("malformed number " + p.tok.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		return Num{Rat: r}, nil

	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}

		if IsBuiltinFunc(name) && p.tok.kind == tokLParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokRParen {
				return nil, p.errAt("expected closing parenthesis")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}

			switch name {
			case "sqrt":
				return PowOf(arg, F(1, 2)), nil
			case "ln":
				return CallOf("log", arg), nil
			}

			return CallOf(name, arg), nil
		}

		return p.ctx.Symbol(name), nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errAt("expected closing parenthesis")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		return inner, nil

	case tokEOF:
		return nil, p.errAt("unexpected end of expression")
	}

	return nil, p.errAt("unexpected token " + p.tok.text)
}

// Parse parses already-normalized algebraic text against the context.
func Parse(ctx *Context, input string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, domain.NewParseError(input, 0, "empty expression")
	}

	p := &parser{ctx: ctx, input: input, lex: lexer{input: input}}
	if err := p.advance(); err != nil {
		return nil, err
	}

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errAt("unexpected trailing input " + p.tok.text)
	}

	return e, nil
}

// ParseExpression normalizes LaTeX-ish input, pre-registers its
// identifiers, and parses it.
func ParseExpression(ctx *Context, raw string) (Expr, error) {
	normalized := Normalize(raw)
	ctx.Register(ScanIdentifiers(normalized)...)

	return Parse(ctx, normalized)
}

// Equation is a parsed equation with its raw source retained for traces.
type Equation struct {
	LHS Expr
	RHS Expr
	Raw string
}

// Residual returns LHS - RHS.
func (e Equation) Residual() Expr {
	return AddOf(e.LHS, MulOf(N(-1), e.RHS))
}

// FreeSymbols returns the sorted distinct symbols on both sides. Collection
// runs over the raw sides, not the residual, so symbols that cancel still
// count as present.
func (e Equation) FreeSymbols() []string {
	set := map[string]struct{}{}
	collectSymbols(e.LHS, set)
	collectSymbols(e.RHS, set)
	delete(set, "pi")

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ParseEquation normalizes and parses one equation. Input without an equals
// sign parses as "expr = 0".
func ParseEquation(ctx *Context, raw string) (Equation, error) {
	lhsText, rhsText := SplitEquation(Normalize(raw))
	ctx.Register(ScanIdentifiers(lhsText)...)
	ctx.Register(ScanIdentifiers(rhsText)...)

	lhs, err := Parse(ctx, lhsText)
	if err != nil {
		return Equation{}, err
	}

	rhs, err := Parse(ctx, rhsText)
	if err != nil {
		return Equation{}, err
	}

	return Equation{LHS: lhs, RHS: rhs, Raw: raw}, nil
}
