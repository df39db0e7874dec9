package assembler

import "github.com/epie-vm/epie/parser"

// processSecondPhase implements spec.md §4.5: iterate instructions in
// order, skip pure directives, and emit 4 bytes per opcode-bearing
// instruction via its ToBytes. Every label usage must already resolve,
// since phase 1 has completed and produced no errors.
func (a *Assembler) processSecondPhase(p *parser.Program) ([]byte, error) {
	var code []byte
	for i := range p.Instructions {
		inst := &p.Instructions[i]
		if inst.IsDirective() {
			continue
		}
		bytes, err := inst.ToBytes(a.Symbols)
		if err != nil {
			return nil, err
		}
		code = append(code, bytes...)
	}
	return code, nil
}
