package opcode

import "testing"

func TestRoundTrip(t *testing.T) {
	for code := LOAD; code <= IGL; code++ {
		mnemonic := code.String()
		got, ok := Lookup(mnemonic)
		if !ok {
			t.Fatalf("Lookup(%q) not found for code %d", mnemonic, code)
		}
		if got != code {
			t.Errorf("decode(encode(%d)) = %d, want %d", code, got, code)
		}
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	for _, m := range []string{"load", "Load", "LOAD", "lOaD"} {
		c, ok := Lookup(m)
		if !ok || c != LOAD {
			t.Errorf("Lookup(%q) = (%d, %v), want (%d, true)", m, c, ok, LOAD)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(\"nope\") should not be found")
	}
}

func TestFromByteOutOfRange(t *testing.T) {
	for _, b := range []byte{200, 255, 23, 100} {
		if got := FromByte(b); got != IGL {
			t.Errorf("FromByte(%d) = %v, want IGL", b, got)
		}
	}
}

func TestContiguousFromZero(t *testing.T) {
	wantOrder := []Code{LOAD, ADD, SUB, MUL, DIV, HLT, JMP, JMPF, JMPB, EQ, NEQ, GT, LT, GTQ, LTQ, JEQ, JNEQ, ALOC, INC, DEC, LUI, PRTS, IGL}
	for i, c := range wantOrder {
		if int(c) != i {
			t.Errorf("opcode %v = %d, want %d (must stay contiguous from zero for ABI stability)", c, c, i)
		}
	}
}
