package parser

import (
	"testing"

	"github.com/epie-vm/epie/opcode"
	"github.com/epie-vm/epie/token"
)

func TestParseInstructionFormA(t *testing.T) {
	prog, err := Parse("load $0 #100\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Instructions) != 1 {
		t.Fatalf("len(Instructions) = %d, want 1", len(prog.Instructions))
	}
	inst := prog.Instructions[0]
	if inst.Opcode.Opcode != byte(opcode.LOAD) {
		t.Errorf("opcode = %d, want LOAD", inst.Opcode.Opcode)
	}
	if inst.OperandOne.Kind != token.Register || inst.OperandOne.RegisterNumber != 0 {
		t.Errorf("operand one = %+v, want Register(0)", inst.OperandOne)
	}
	if inst.OperandTwo.Kind != token.IntegerOperand || inst.OperandTwo.IntegerValue != 100 {
		t.Errorf("operand two = %+v, want IntegerOperand(100)", inst.OperandTwo)
	}
}

func TestParseInstructionFormB(t *testing.T) {
	prog, err := Parse("add $0 $1 $2\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	inst := prog.Instructions[0]
	if inst.Opcode.Opcode != byte(opcode.ADD) {
		t.Fatalf("opcode = %d, want ADD", inst.Opcode.Opcode)
	}
	want := []uint8{0, 1, 2}
	got := []uint8{inst.OperandOne.RegisterNumber, inst.OperandTwo.RegisterNumber, inst.OperandThree.RegisterNumber}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("operand %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseInstructionFormC(t *testing.T) {
	prog, err := Parse("hlt\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	inst := prog.Instructions[0]
	if inst.Opcode.Opcode != byte(opcode.HLT) {
		t.Fatalf("opcode = %d, want HLT", inst.Opcode.Opcode)
	}
	if inst.OperandOne != nil {
		t.Error("nullary instruction should have no operands")
	}
}

func TestUnknownMnemonicYieldsIGL(t *testing.T) {
	prog, err := Parse("frobnicate\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if prog.Instructions[0].Opcode.Opcode != byte(opcode.IGL) {
		t.Error("unknown mnemonic should parse to Op(IGL), not fail")
	}
}

func TestLabelDeclarationAndUsage(t *testing.T) {
	prog, err := Parse("test: inc $0\nneq $0 $2\njmpe @test\nhlt\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !prog.Instructions[0].IsLabel() || prog.Instructions[0].LabelName() != "test" {
		t.Errorf("first instruction label = %q, want \"test\"", prog.Instructions[0].LabelName())
	}
	jumpInst := prog.Instructions[2]
	if jumpInst.OperandOne.Kind != token.LabelUsage || jumpInst.OperandOne.Name != "test" {
		t.Errorf("jump operand = %+v, want LabelUsage(test)", jumpInst.OperandOne)
	}
}

func TestDirectiveAndSectionHeaders(t *testing.T) {
	prog, err := Parse(".data\n.code\nload $0 #1\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Instructions) != 3 {
		t.Fatalf("len(Instructions) = %d, want 3", len(prog.Instructions))
	}
	if prog.Instructions[0].Directive.Name != "data" {
		t.Errorf("first directive = %q, want data", prog.Instructions[0].Directive.Name)
	}
}

func TestAsciizStringLiteral(t *testing.T) {
	prog, err := Parse(".data\ntest: .asciiz 'Hello'\n.code\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	inst := prog.Instructions[1]
	if inst.OperandOne.Kind != token.StringLiteral || inst.OperandOne.StringValue != "Hello" {
		t.Errorf("operand = %+v, want StringLiteral(Hello)", inst.OperandOne)
	}
}

func TestTrailingGarbageIsError(t *testing.T) {
	if _, err := Parse("hlt\n$$$not valid"); err == nil {
		t.Error("trailing garbage after a valid instruction should fail to parse")
	}
}

func TestRegisterOutOfRangeIsError(t *testing.T) {
	if _, err := Parse("load $32 #1\n"); err == nil {
		t.Error("register index 32 is out of range [0,32) and should fail to parse")
	}
}

func TestEmptyProgramIsError(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("an empty program should fail: at least one instruction is required")
	}
	if _, err := Parse("   \n\n  "); err == nil {
		t.Error("an all-whitespace program should fail")
	}
}
