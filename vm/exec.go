package vm

import (
	"fmt"

	"github.com/epie-vm/epie/opcode"
)

// execute dispatches one decoded opcode. Every instruction consumes exactly
// 4 bytes total (including the opcode byte already consumed by the caller);
// unused operand slots are zero-filled in the image, so every case below
// consumes precisely the bytes spec.md §4.6's instruction table assigns it.
// Non-terminal opcodes return (0, false); terminal opcodes return their exit
// code and true.
func (v *VM) execute(raw byte) (uint32, bool) {
	switch opcode.FromByte(raw) {
	case opcode.LOAD:
		reg := v.nextRegister()
		imm := v.nextWord16()
		v.Registers[reg] = int32(imm)

	case opcode.LUI:
		// Reserved: advances PC past its operands with no observable
		// effect, pending a defined high-half load (spec.md §9).
		v.nextRegister()
		v.nextWord16()

	case opcode.ADD:
		a, b, dst := v.threeRegisters()
		v.Registers[dst] = v.Registers[a] + v.Registers[b]

	case opcode.SUB:
		a, b, dst := v.threeRegisters()
		v.Registers[dst] = v.Registers[a] - v.Registers[b]

	case opcode.MUL:
		a, b, dst := v.threeRegisters()
		v.Registers[dst] = v.Registers[a] * v.Registers[b]

	case opcode.DIV:
		a, b, dst := v.threeRegisters()
		v.Registers[dst] = v.Registers[a] / v.Registers[b]
		v.Remainder = uint32(v.Registers[a] % v.Registers[b])

	case opcode.JMP:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		v.PC = int(v.Registers[reg])

	case opcode.JMPF:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		v.PC += int(v.Registers[reg])

	case opcode.JMPB:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		v.PC -= int(v.Registers[reg])

	case opcode.EQ:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] == v.Registers[b]

	case opcode.NEQ:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] != v.Registers[b]

	case opcode.GT:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] > v.Registers[b]

	case opcode.LT:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] < v.Registers[b]

	case opcode.GTQ:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] >= v.Registers[b]

	case opcode.LTQ:
		a, b := v.twoRegistersThenPad()
		v.EqualFlag = v.Registers[a] <= v.Registers[b]

	case opcode.JEQ:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		if v.EqualFlag {
			v.PC = int(v.Registers[reg])
		}

	case opcode.JNEQ:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		if !v.EqualFlag {
			v.PC = int(v.Registers[reg])
		}

	case opcode.INC:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		v.Registers[reg]++

	case opcode.DEC:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		v.Registers[reg]--

	case opcode.ALOC:
		reg := v.nextRegister()
		v.nextByte()
		v.nextByte()
		grow := int(v.Registers[reg])
		v.Heap = append(v.Heap, make([]byte, grow)...)

	case opcode.PRTS:
		offset := int(v.nextWord16())
		v.nextByte() // unused fourth byte
		v.printString(offset)

	case opcode.HLT:
		v.PC += 3 // unused operand bytes
		return 1, true

	case opcode.IGL:
		fallthrough
	default:
		v.PC += 3 // unused operand bytes
		return 1, true
	}

	return 0, false
}

// threeRegisters reads the A, B, C register-index operands of a
// three-register form (ADD, SUB, MUL, DIV).
func (v *VM) threeRegisters() (a, b, dst int) {
	return v.nextRegister(), v.nextRegister(), v.nextRegister()
}

// twoRegistersThenPad reads the A, B register-index operands of a compare
// form and consumes the unused third byte, per spec.md §4.6.
func (v *VM) twoRegistersThenPad() (a, b int) {
	a = v.nextRegister()
	b = v.nextRegister()
	v.nextByte()
	return a, b
}

// printString implements PRTS: read bytes from ROData starting at offset up
// to (not including) the first NUL, decoded as UTF-8, and print them.
func (v *VM) printString(offset int) {
	end := offset
	for end < len(v.ROData) && v.ROData[end] != 0 {
		end++
	}
	fmt.Print(string(v.ROData[offset:end]))
}
