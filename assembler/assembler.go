// Package assembler implements the two-phase driver of spec.md §4.4-§4.5:
// phase 1 walks the parsed program to resolve symbols, validate sections,
// and split oversized LOAD immediates; phase 2 emits the header-prefixed
// bytecode image.
package assembler

import (
	"github.com/epie-vm/epie/opcode"
	"github.com/epie-vm/epie/parser"
	"github.com/epie-vm/epie/symbol"
	"github.com/epie-vm/epie/token"
)

// MagicPrefix is the 4-byte magic that opens every bytecode image: ASCII
// "EPIE" (spec.md §6).
var MagicPrefix = [4]byte{0x45, 0x50, 0x49, 0x45}

// HeaderLength is the size, in bytes, of the reserved header region
// preceding the 4-byte code entry offset.
const HeaderLength = 64

// PayloadStart is the byte offset at which the read-only data section (and,
// after it, the code section) begins: header (64) + entry offset (4).
const PayloadStart = HeaderLength + 4

// SectionKind distinguishes the two recognised section headers.
type SectionKind int

const (
	SectionUnknown SectionKind = iota
	SectionData
	SectionCode
)

// Section records one `.data`/`.code` header encountered during phase 1.
type Section struct {
	Kind  SectionKind
	Start *uint32
}

// Assembler holds the state of a single assembly. Its state (phase,
// symbols, sections, errors) is not meant to be reused: create a new
// Assembler per assembly, matching spec.md §5's "assembler state is reset
// between independent assemblies by creating a new assembler instance."
type Assembler struct {
	Symbols *symbol.Table

	ro        []byte
	roOffset  uint32
	sections  []Section
	current   *Section
	curInstr  uint32
	errors    []error
}

// New returns an empty Assembler ready for one assembly.
func New() *Assembler {
	return &Assembler{Symbols: symbol.NewTable()}
}

// Assemble parses raw source text and produces a complete bytecode image:
// HEADER || CODE_START_OFFSET || READ_ONLY_DATA || CODE (spec.md §3, §6).
// On any phase-1 error, all accumulated errors are returned and phase 2
// never runs, per spec.md §7's propagation policy.
func Assemble(source string) ([]byte, []error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, []error{err}
	}
	a := New()
	return a.assembleProgram(prog)
}

func (a *Assembler) assembleProgram(prog *parser.Program) ([]byte, []error) {
	a.splitOversizedLoads(prog)
	a.processFirstPhase(prog)

	if len(a.errors) > 0 {
		return nil, a.errors
	}

	if !a.hasValidSections() {
		a.errors = append(a.errors, parser.NewError(parser.ErrorInsufficientSections, parser.Position{}, "a well-formed program requires exactly one .data and one .code section"))
		return nil, a.errors
	}

	body, err := a.processSecondPhase(prog)
	if err != nil {
		return nil, []error{err}
	}

	image := a.writeHeader()
	image = append(image, a.ro...)
	image = append(image, body...)
	return image, nil
}

// hasValidSections reports whether exactly one Data and one Code section
// were recorded during phase 1, per spec.md §4.4 step 3.
func (a *Assembler) hasValidSections() bool {
	var data, code int
	for _, s := range a.sections {
		switch s.Kind {
		case SectionData:
			data++
		case SectionCode:
			code++
		}
	}
	return data == 1 && code == 1
}

// writeHeader builds the 64-byte reserved header followed by the 4-byte
// little-endian code entry offset. The entry offset is the length of the
// read-only data section, measured from byte 68 as spec.md §6 defines it:
// code begins immediately after the read-only data.
func (a *Assembler) writeHeader() []byte {
	header := make([]byte, HeaderLength, HeaderLength+4)
	copy(header[0:4], MagicPrefix[:])

	entryOffset := uint32(len(a.ro))
	header = append(header, byte(entryOffset), byte(entryOffset>>8), byte(entryOffset>>16), byte(entryOffset>>24))
	return header
}

// splitOversizedLoads implements spec.md §4.4 step 1: rewrite any
// `LOAD reg, #imm` whose immediate does not fit in 16 bits (is above
// 65535) into a LOAD of the low 16 bits followed by a LUI of the high 16 bits, preserving
// program order.
func (a *Assembler) splitOversizedLoads(p *parser.Program) {
	for i := 0; i < len(p.Instructions); i++ {
		inst := &p.Instructions[i]
		if !inst.IsIntegerNeedsSplitting() {
			continue
		}
		full := uint32(inst.OperandTwo.IntegerValue)
		low := int32(uint16(full))
		high := int32(uint16(full >> 16))

		inst.OperandTwo = tokenPtr(token.NewInteger(low))

		lui := parser.AssemblerInstruction{
			Opcode:     tokenPtr(token.NewOp(byte(opcode.LUI))),
			OperandOne: inst.OperandOne,
			OperandTwo: tokenPtr(token.NewInteger(high)),
			Pos:        inst.Pos,
		}
		p.InsertAfter(i, lui)
		i++ // skip over the instruction we just inserted
	}
}

func tokenPtr(t token.Token) *token.Token { return &t }
