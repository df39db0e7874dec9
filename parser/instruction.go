package parser

import (
	"github.com/epie-vm/epie/opcode"
	"github.com/epie-vm/epie/symbol"
	"github.com/epie-vm/epie/token"
)

// AssemblerInstruction is one parsed line of source. Exactly one of Opcode
// or Directive is present for a well-formed instruction (spec.md §3).
type AssemblerInstruction struct {
	Label     *token.Token // Kind == token.LabelDeclaration, when present
	Opcode    *token.Token // Kind == token.Op, when present
	Directive *token.Token // Kind == token.Directive, when present

	OperandOne   *token.Token
	OperandTwo   *token.Token
	OperandThree *token.Token

	Pos Position
}

// IsLabel reports whether the instruction carries a label declaration.
func (a *AssemblerInstruction) IsLabel() bool { return a.Label != nil }

// IsOpcode reports whether the instruction is opcode-bearing (occupies a
// code slot).
func (a *AssemblerInstruction) IsOpcode() bool { return a.Opcode != nil }

// IsDirective reports whether the instruction carries a directive.
func (a *AssemblerInstruction) IsDirective() bool { return a.Directive != nil }

// LabelName returns the declared label's name, or "" if none.
func (a *AssemblerInstruction) LabelName() string {
	if a.Label == nil {
		return ""
	}
	return a.Label.Name
}

// Operands returns the present operands in order.
func (a *AssemblerInstruction) Operands() []*token.Token {
	var out []*token.Token
	for _, o := range []*token.Token{a.OperandOne, a.OperandTwo, a.OperandThree} {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// IsIntegerNeedsSplitting reports whether this is a `LOAD reg, #imm` whose
// immediate does not fit in 16 bits — the case assembler phase 1 rewrites
// into LOAD (low 16) + LUI (high 16), per spec.md §4.4 step 1. The grammar
// only ever yields non-negative immediates, so the only bound that matters
// is the upper one.
func (a *AssemblerInstruction) IsIntegerNeedsSplitting() bool {
	if a.Opcode == nil || a.Opcode.Opcode != byte(opcode.LOAD) {
		return false
	}
	if a.OperandTwo == nil || a.OperandTwo.Kind != token.IntegerOperand {
		return false
	}
	return a.OperandTwo.IntegerValue > 65535
}

// ToBytes serializes the instruction against symbols, per spec.md §4.3. The
// result is always exactly 4 bytes for an opcode-bearing instruction.
func (a *AssemblerInstruction) ToBytes(symbols *symbol.Table) ([]byte, error) {
	if a.Opcode == nil {
		return nil, NewError(ErrorNonOpcodeInOpcodeField, a.Pos, "instruction has no opcode")
	}

	result := make([]byte, 0, 4)
	result = append(result, a.Opcode.Opcode)

	for _, operand := range a.Operands() {
		bytes, err := extractOperand(operand, symbols, a.Pos)
		if err != nil {
			return nil, err
		}
		result = append(result, bytes...)
	}

	for len(result) < 4 {
		result = append(result, 0)
	}
	return result, nil
}

func extractOperand(t *token.Token, symbols *symbol.Table, pos Position) ([]byte, error) {
	switch t.Kind {
	case token.Register:
		return []byte{t.RegisterNumber}, nil
	case token.IntegerOperand:
		v := uint16(t.IntegerValue)
		return []byte{byte(v >> 8), byte(v)}, nil
	case token.LabelUsage:
		offset, ok := symbols.Value(t.Name)
		if !ok {
			return nil, NewError(ErrorUnknownSymbol, pos, "label has no known offset").WithContext(t.Name)
		}
		v := uint16(offset)
		return []byte{byte(v >> 8), byte(v)}, nil
	default:
		return nil, NewError(ErrorOpcodeInOperandField, pos, "non-operand token in operand field").WithContext(t.String())
	}
}

// Program is an ordered sequence of AssemblerInstructions. Order is
// significant: it determines emission order and label offsets.
type Program struct {
	Instructions []AssemblerInstruction
}

// InsertAfter inserts inst immediately after the instruction at index idx,
// shifting later instructions down. Used by assembler phase 1 to splice in
// the LUI instruction generated by LOAD-immediate splitting.
func (p *Program) InsertAfter(idx int, inst AssemblerInstruction) {
	p.Instructions = append(p.Instructions, AssemblerInstruction{})
	copy(p.Instructions[idx+2:], p.Instructions[idx+1:])
	p.Instructions[idx+1] = inst
}
