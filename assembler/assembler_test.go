package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const minimalProgram = "\n.data\n.code\nload $0 #100\nload $1 #1\nload $2 #0\ntest: inc $0\nneq $0 $2\njmpe @test\nhlt\n"

func TestAssembleMinimalProgram(t *testing.T) {
	image, errs := Assemble(minimalProgram)
	assert.Empty(t, errs)
	assert.Len(t, image, 96)
}

func TestMagicPrefix(t *testing.T) {
	image, errs := Assemble(minimalProgram)
	assert.Empty(t, errs)
	assert.Equal(t, []byte{0x45, 0x50, 0x49, 0x45}, image[0:4])
}

func TestHeaderReservedBytesAreZero(t *testing.T) {
	image, errs := Assemble(minimalProgram)
	assert.Empty(t, errs)
	for i := 4; i < HeaderLength; i++ {
		assert.Equalf(t, byte(0), image[i], "header byte %d should be zero", i)
	}
}

func TestAsciizReadOnlyData(t *testing.T) {
	image, errs := Assemble(".data\ntest: .asciiz 'Hello'\n.code\nhlt\n")
	assert.Empty(t, errs)
	ro := image[PayloadStart : PayloadStart+6]
	assert.Equal(t, []byte{'H', 'e', 'l', 'l', 'o', 0}, ro)
}

func TestInsufficientSectionsFails(t *testing.T) {
	_, errs := Assemble("load $0 #1\n")
	assert.NotEmpty(t, errs)
}

func TestLabelOutsideSectionFails(t *testing.T) {
	_, errs := Assemble("test: hlt\n.data\n.code\n")
	assert.NotEmpty(t, errs)
}

func TestDuplicateSymbolFails(t *testing.T) {
	_, errs := Assemble(".data\n.code\nfoo: hlt\nfoo: hlt\n")
	assert.NotEmpty(t, errs)
}

func TestUnknownSectionHeaderFails(t *testing.T) {
	_, errs := Assemble(".data\n.bogus\n.code\nhlt\n")
	assert.NotEmpty(t, errs)
}

func TestUnknownSymbolFails(t *testing.T) {
	_, errs := Assemble(".data\n.code\njmp @nowhere\n")
	assert.NotEmpty(t, errs)
}

func TestLoadImmediateSplitting(t *testing.T) {
	// LOAD with a value fitting in 16 bits: one instruction, 4 bytes of code.
	small, errs := Assemble(".data\n.code\nload $0 #65535\n")
	assert.Empty(t, errs)
	assert.Len(t, small, PayloadStart+4)

	// LOAD with an out-of-range value: LOAD + LUI, 8 bytes of code.
	big, errs := Assemble(".data\n.code\nload $0 #65536\n")
	assert.Empty(t, errs)
	assert.Len(t, big, PayloadStart+8)
}
