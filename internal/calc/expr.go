// Package calc evaluates the arithmetic typed into the kg field, so a
// collector can enter "12+8.5" instead of adding up weighings by hand.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput covers characters outside digits, '.', + - * / ( )
	// and expressions that do not parse.
	ErrInvalidInput = errors.New("invalid expression")

	// ErrInvalidResult covers results that are NaN, infinite or negative.
	ErrInvalidResult = errors.New("invalid result")
)

// Places is the precision kg values are rounded to.
const Places = 3

// EvalKg strips whitespace from expr, evaluates it with the usual operator
// precedence and returns the result rounded to three decimal places.
// Example: "12 + 8.5" => 20.5
func EvalKg(expr string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)

	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidInput)
	}
	for i, r := range cleaned {
		if !allowed(r) {
			return 0, fmt.Errorf("%w: unexpected character %q at position %d", ErrInvalidInput, r, i)
		}
	}
	// "++" and "--" are increment operators, not two signs.
	if strings.Contains(cleaned, "++") || strings.Contains(cleaned, "--") {
		return 0, fmt.Errorf("%w: repeated sign", ErrInvalidInput)
	}

	p := &parser{input: cleaned}
	result, err := p.parseExpr()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("%w: unexpected character at position %d: %c", ErrInvalidInput, p.pos, p.input[p.pos])
	}

	if math.IsNaN(result) || math.IsInf(result, 0) || result < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResult, result)
	}

	rounded, _ := decimal.NewFromFloat(result).Round(Places).Float64()
	return rounded, nil
}

func allowed(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '(', ')', '.':
		return true
	}
	return r >= '0' && r <= '9'
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parseExpr() (float64, error) {
	return p.parseAddSub()
}

func (p *parser) parseAddSub() (float64, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}

	for p.pos < len(p.input) {
		op := p.input[p.pos]
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *parser) parseMulDiv() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for p.pos < len(p.input) {
		op := p.input[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			// Division by zero yields ±Inf or NaN, rejected by the caller.
			left /= right
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.pos < len(p.input) && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
		neg := p.input[p.pos] == '-'
		p.pos++
		val, err := p.parseAtom()
		if err != nil {
			return 0, err
		}
		if neg {
			return -val, nil
		}
		return val, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (float64, error) {
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	ch := p.input[p.pos]

	if ch == '(' {
		p.pos++
		val, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		p.pos++
		return val, nil
	}

	if isDigit(ch) || ch == '.' {
		start := p.pos
		dots := 0
		for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
			if p.input[p.pos] == '.' {
				dots++
			}
			p.pos++
		}
		lit := p.input[start:p.pos]
		if dots > 1 || lit == "." {
			return 0, fmt.Errorf("malformed number %q", lit)
		}
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed number %q", lit)
		}
		return val, nil
	}

	return 0, fmt.Errorf("unexpected character '%c' at position %d", ch, p.pos)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
