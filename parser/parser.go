// Package parser implements the recursive-descent grammar of spec.md §4.1: a
// single production graph (no separate lexer/directive-parser module split —
// labels, directives, opcodes, and operands are all productions of one
// grammar) that turns a complete source string into a Program.
package parser

import (
	"strconv"
	"strings"

	"github.com/epie-vm/epie/opcode"
	"github.com/epie-vm/epie/token"
)

// Parser walks a complete input string and produces a Program. It holds no
// state beyond the cursor position: one Parser parses one source string,
// matching the stateless, non-streaming grammar of spec.md §4.1.
type Parser struct {
	input string
	pos   int
	line  int
	col   int
}

// New returns a Parser over the complete source text.
func New(input string) *Parser {
	return &Parser{input: input, line: 1, col: 1}
}

// Parse consumes the entire input and returns the resulting Program. A
// successful parse consumes the whole input; trailing garbage after the
// last recognised instruction is a ParseError (spec.md §4.1).
func Parse(input string) (*Program, error) {
	return New(input).parseProgram()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	p.skipWhitespace()
	if p.atEnd() {
		return nil, NewError(ErrorParse, p.position(), "empty program: at least one instruction is required")
	}
	for !p.atEnd() {
		inst, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, *inst)
		p.skipWhitespace()
	}
	return prog, nil
}

// parseInstruction implements:
//
//	instruction_with_label_or_directive :=
//	    label_declaration? (directive_declaration | opcode) operand{0,3}
func (p *Parser) parseInstruction() (*AssemblerInstruction, error) {
	start := p.position()
	inst := &AssemblerInstruction{Pos: start}

	if lbl, ok := p.tryLabelDeclaration(); ok {
		inst.Label = lbl
		p.skipWhitespace()
	}

	if dir, ok := p.tryDirective(); ok {
		inst.Directive = dir
	} else {
		op, err := p.parseOpcode()
		if err != nil {
			return nil, err
		}
		inst.Opcode = op
	}
	p.skipInlineWhitespace()

	slots := []**token.Token{&inst.OperandOne, &inst.OperandTwo, &inst.OperandThree}
	for _, slot := range slots {
		p.skipInlineWhitespace()
		if p.atLineEnd() {
			break
		}
		operand, ok, err := p.tryOperand()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		*slot = operand
		p.skipInlineWhitespace()
	}

	return inst, nil
}

// tryLabelDeclaration implements: label_declaration := identifier ':'
func (p *Parser) tryLabelDeclaration() (*token.Token, bool) {
	save := *p
	name, ok := p.tryIdentifier()
	if !ok || p.atEnd() || p.peek() != ':' {
		*p = save
		return nil, false
	}
	p.advance() // ':'
	t := token.NewLabelDeclaration(name)
	return &t, true
}

// tryDirective implements: directive_declaration := '.' identifier
func (p *Parser) tryDirective() (*token.Token, bool) {
	save := *p
	if p.atEnd() || p.peek() != '.' {
		return nil, false
	}
	p.advance()
	name, ok := p.tryIdentifier()
	if !ok {
		*p = save
		return nil, false
	}
	t := token.NewDirective(name)
	return &t, true
}

// parseOpcode implements: opcode := identifier, looked up case-insensitively;
// unknown mnemonics yield Op(IGL) rather than a parse failure (spec.md §4.1).
func (p *Parser) parseOpcode() (*token.Token, error) {
	pos := p.position()
	name, ok := p.tryIdentifier()
	if !ok {
		return nil, NewError(ErrorParse, pos, "expected an opcode or directive")
	}
	code, found := opcode.Lookup(name)
	if !found {
		code = opcode.IGL
	}
	t := token.NewOp(byte(code))
	return &t, nil
}

// tryOperand implements: operand := integer_operand | register | string_literal | label_usage
func (p *Parser) tryOperand() (*token.Token, bool, error) {
	if p.atEnd() {
		return nil, false, nil
	}
	switch p.peek() {
	case '#':
		t, err := p.parseIntegerOperand()
		return t, true, err
	case '$':
		t, err := p.parseRegister()
		return t, true, err
	case '\'':
		t, err := p.parseStringLiteral()
		return t, true, err
	case '@':
		t, err := p.parseLabelUsage()
		return t, true, err
	default:
		return nil, false, nil
	}
}

// parseRegister implements: register := '$' decimal_digits
func (p *Parser) parseRegister() (*token.Token, error) {
	pos := p.position()
	p.advance() // '$'
	digits, ok := p.tryDigits()
	if !ok {
		return nil, NewError(ErrorParse, pos, "expected decimal digits after '$'")
	}
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil || n >= 32 {
		return nil, NewError(ErrorParse, pos, "register index out of range [0,32)").WithContext(digits)
	}
	t := token.NewRegister(uint8(n))
	return &t, nil
}

// parseIntegerOperand implements: integer_operand := '#' decimal_digits
func (p *Parser) parseIntegerOperand() (*token.Token, error) {
	pos := p.position()
	p.advance() // '#'
	digits, ok := p.tryDigits()
	if !ok {
		return nil, NewError(ErrorParse, pos, "expected decimal digits after '#'")
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return nil, NewError(ErrorParse, pos, "integer literal out of range").WithContext(digits)
	}
	t := token.NewInteger(int32(n))
	return &t, nil
}

// parseStringLiteral implements: string_literal := "'" (any char except "'")* "'"
func (p *Parser) parseStringLiteral() (*token.Token, error) {
	pos := p.position()
	p.advance() // opening quote
	var sb strings.Builder
	for {
		if p.atEnd() {
			return nil, NewError(ErrorParse, pos, "unterminated string literal")
		}
		c := p.peek()
		if c == '\'' {
			p.advance()
			t := token.NewStringLiteral(sb.String())
			return &t, nil
		}
		sb.WriteByte(c)
		p.advance()
	}
}

// parseLabelUsage implements: label_usage := '@' identifier
func (p *Parser) parseLabelUsage() (*token.Token, error) {
	pos := p.position()
	p.advance() // '@'
	name, ok := p.tryIdentifier()
	if !ok {
		return nil, NewError(ErrorParse, pos, "expected identifier after '@'")
	}
	t := token.NewLabelUsage(name)
	return &t, nil
}

// tryIdentifier implements: identifier := letter (letter|digit|'_')*
func (p *Parser) tryIdentifier() (string, bool) {
	if p.atEnd() || !isLetter(p.peek()) {
		return "", false
	}
	start := p.pos
	for !p.atEnd() && isIdentChar(p.peek()) {
		p.advance()
	}
	return p.input[start:p.pos], true
}

func (p *Parser) tryDigits() (string, bool) {
	if p.atEnd() || !isDigit(p.peek()) {
		return "", false
	}
	start := p.pos
	for !p.atEnd() && isDigit(p.peek()) {
		p.advance()
	}
	return p.input[start:p.pos], true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }
