package assembler

import (
	"github.com/epie-vm/epie/parser"
	"github.com/epie-vm/epie/symbol"
	"github.com/epie-vm/epie/token"
)

// processFirstPhase implements spec.md §4.4 step 2: the section-and-label
// walk (step 3's section validation is hasValidSections). It is error-collecting: it keeps going after a problem so that
// multiple issues surface together, per spec.md §7.
func (a *Assembler) processFirstPhase(p *parser.Program) {
	for i := range p.Instructions {
		inst := &p.Instructions[i]

		if header, ok := a.sectionHeaderName(inst); ok {
			a.openSection(header)
			continue // a section header occupies no code slot
		}

		if inst.IsLabel() {
			if a.current == nil {
				a.errors = append(a.errors, parser.NewError(parser.ErrorNoSegmentDeclarationFound, inst.Pos, "label declared before any section header").WithContext(inst.LabelName()))
			} else {
				a.declareLabel(inst)
			}
		}

		if inst.IsDirective() {
			a.processDirective(inst)
		}

		if inst.IsOpcode() {
			a.curInstr++
		}
	}
}

// sectionHeaderName reports the section name if inst is shaped like a
// section header: a bare directive (no label, no operands). A name other
// than "data"/"code" is still routed to openSection, which is what raises
// UnknownSectionHeader — per spec.md §4.4, "a header whose name is neither
// data nor code produces UnknownSectionHeader".
func (a *Assembler) sectionHeaderName(inst *parser.AssemblerInstruction) (string, bool) {
	if !inst.IsDirective() || inst.IsLabel() {
		return "", false
	}
	if len(inst.Operands()) != 0 {
		return "", false
	}
	return inst.Directive.Name, true
}

func (a *Assembler) openSection(name string) {
	start := a.curInstr * 4
	var kind SectionKind
	switch name {
	case "data":
		kind = SectionData
	case "code":
		kind = SectionCode
	default:
		a.errors = append(a.errors, parser.NewError(parser.ErrorUnknownSectionHeader, parser.Position{}, "section header is neither .data nor .code").WithContext(name))
		kind = SectionUnknown
	}
	s := Section{Kind: kind, Start: &start}
	a.sections = append(a.sections, s)
	a.current = &a.sections[len(a.sections)-1]
}

// declareLabel registers a label in the symbol table. A label declared in
// the data section takes the current read-only offset as its value; one
// declared in the code section takes curInstr*4 (spec.md §9's resolution of
// the ro_offset-vs-current_instruction ambiguity).
func (a *Assembler) declareLabel(inst *parser.AssemblerInstruction) {
	name := inst.LabelName()
	if a.Symbols.Has(name) {
		a.errors = append(a.errors, parser.NewError(parser.ErrorSymbolAlreadyDeclared, inst.Pos, "symbol already declared").WithContext(name))
		return
	}

	var offset uint32
	kind := symbol.Label
	if a.current != nil && a.current.Kind == SectionData {
		offset = a.roOffset
		if inst.IsDirective() {
			switch inst.Directive.Name {
			case "asciiz":
				kind = symbol.StringLiteral
			case "integer":
				kind = symbol.Integer
			}
		}
	} else {
		offset = a.curInstr * 4
	}
	a.Symbols.Add(symbol.NewSymbol(name, offset, kind))
}

// processDirective dispatches a non-section directive to its handler.
// Unlike the original this is reached whether or not the directive line
// carries a label, per spec.md §9's resolution of the open question.
func (a *Assembler) processDirective(inst *parser.AssemblerInstruction) {
	switch inst.Directive.Name {
	case "asciiz":
		a.processAsciiz(inst)
	case "integer":
		a.processInteger(inst)
	default:
		a.errors = append(a.errors, parser.NewError(parser.ErrorUnknownDirective, inst.Pos, "directive is not recognised").WithContext(inst.Directive.Name))
	}
}

func (a *Assembler) processAsciiz(inst *parser.AssemblerInstruction) {
	if !inst.IsLabel() {
		a.errors = append(a.errors, parser.NewError(parser.ErrorStringConstantDeclaredWithoutLabel, inst.Pos, ".asciiz requires a label"))
		return
	}
	operand := inst.OperandOne
	if operand == nil || operand.Kind != token.StringLiteral {
		a.errors = append(a.errors, parser.NewError(parser.ErrorParse, inst.Pos, ".asciiz requires a string literal operand"))
		return
	}
	a.setLabelOffset(inst.LabelName(), a.roOffset)
	a.ro = append(a.ro, []byte(operand.StringValue)...)
	a.ro = append(a.ro, 0)
	a.roOffset = uint32(len(a.ro))
}

func (a *Assembler) processInteger(inst *parser.AssemblerInstruction) {
	if !inst.IsLabel() {
		a.errors = append(a.errors, parser.NewError(parser.ErrorStringConstantDeclaredWithoutLabel, inst.Pos, ".integer requires a label"))
		return
	}
	operand := inst.OperandOne
	if operand == nil || operand.Kind != token.IntegerOperand {
		a.errors = append(a.errors, parser.NewError(parser.ErrorParse, inst.Pos, ".integer requires an integer operand"))
		return
	}
	a.setLabelOffset(inst.LabelName(), a.roOffset)
	v := uint32(operand.IntegerValue)
	a.ro = append(a.ro, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	a.roOffset = uint32(len(a.ro))
}

// setLabelOffset updates (or, if the label wasn't already declared on this
// same line, creates) the read-only-data symbol for a .asciiz/.integer
// constant.
func (a *Assembler) setLabelOffset(name string, offset uint32) {
	if a.Symbols.Has(name) {
		a.Symbols.SetOffset(name, offset)
		return
	}
	a.Symbols.Add(symbol.NewSymbol(name, offset, symbol.StringLiteral))
}
