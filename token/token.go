// Package token defines the lexical and semantic fragments produced by the
// assembler's grammar and consumed by the instruction model and assembler.
package token

import "fmt"

// Kind tags the variant a Token holds.
type Kind int

const (
	// Op is a mnemonic resolved to a numeric opcode.
	Op Kind = iota
	// Register is an 8-bit register index.
	Register
	// IntegerOperand is a signed 32-bit immediate.
	IntegerOperand
	// LabelDeclaration names an offset being defined (`name:`).
	LabelDeclaration
	// LabelUsage names an offset being referenced (`@name`).
	LabelUsage
	// Directive names a pseudo-instruction (`.data`, `.asciiz`, ...).
	Directive
	// StringLiteral is raw text between single quotes.
	StringLiteral
)

func (k Kind) String() string {
	switch k {
	case Op:
		return "Op"
	case Register:
		return "Register"
	case IntegerOperand:
		return "IntegerOperand"
	case LabelDeclaration:
		return "LabelDeclaration"
	case LabelUsage:
		return "LabelUsage"
	case Directive:
		return "Directive"
	case StringLiteral:
		return "StringLiteral"
	default:
		return "Unknown"
	}
}

// Token is a tagged value; exactly one of its fields is meaningful for a
// given Kind. Kept as a single flat struct (rather than an interface per
// variant) so the grammar and instruction model can pass it by value without
// type switches on concrete types, matching the small, fixed variant set in
// spec.md.
type Token struct {
	Kind Kind

	// Opcode holds the resolved numeric byte when Kind == Op.
	Opcode byte

	// RegisterNumber holds the register index when Kind == Register.
	RegisterNumber uint8

	// IntegerValue holds the signed value when Kind == IntegerOperand.
	IntegerValue int32

	// Name holds the identifier/directive text for LabelDeclaration,
	// LabelUsage, and Directive.
	Name string

	// StringValue holds the raw content for StringLiteral.
	StringValue string
}

// NewOp returns an Op token for the given opcode byte.
func NewOp(code byte) Token { return Token{Kind: Op, Opcode: code} }

// NewRegister returns a Register token for register index n.
func NewRegister(n uint8) Token { return Token{Kind: Register, RegisterNumber: n} }

// NewInteger returns an IntegerOperand token holding v.
func NewInteger(v int32) Token { return Token{Kind: IntegerOperand, IntegerValue: v} }

// NewLabelDeclaration returns a LabelDeclaration token named name.
func NewLabelDeclaration(name string) Token { return Token{Kind: LabelDeclaration, Name: name} }

// NewLabelUsage returns a LabelUsage token named name.
func NewLabelUsage(name string) Token { return Token{Kind: LabelUsage, Name: name} }

// NewDirective returns a Directive token named name (without the leading dot).
func NewDirective(name string) Token { return Token{Kind: Directive, Name: name} }

// NewStringLiteral returns a StringLiteral token holding content.
func NewStringLiteral(content string) Token { return Token{Kind: StringLiteral, StringValue: content} }

func (t Token) String() string {
	switch t.Kind {
	case Op:
		return fmt.Sprintf("Op(%d)", t.Opcode)
	case Register:
		return fmt.Sprintf("$%d", t.RegisterNumber)
	case IntegerOperand:
		return fmt.Sprintf("#%d", t.IntegerValue)
	case LabelDeclaration:
		return fmt.Sprintf("%s:", t.Name)
	case LabelUsage:
		return fmt.Sprintf("@%s", t.Name)
	case Directive:
		return fmt.Sprintf(".%s", t.Name)
	case StringLiteral:
		return fmt.Sprintf("'%s'", t.StringValue)
	default:
		return "<invalid token>"
	}
}
