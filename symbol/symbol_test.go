package symbol

import "testing"

func TestAddAndValue(t *testing.T) {
	sym := NewTable()
	sym.Add(NewSymbol("test", 12, Label))

	if sym.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", sym.Len())
	}
	v, ok := sym.Value("test")
	if !ok {
		t.Fatal("Value(\"test\") not found")
	}
	if v != 12 {
		t.Errorf("Value(\"test\") = %d, want 12", v)
	}

	if _, ok := sym.Value("does_not_exist"); ok {
		t.Error("Value(\"does_not_exist\") should not be found")
	}
}

func TestHasAndSetOffset(t *testing.T) {
	sym := NewTable()
	sym.Add(NewSymbol("label", 0, Label))

	if !sym.Has("label") {
		t.Error("Has(\"label\") = false, want true")
	}
	if !sym.SetOffset("label", 42) {
		t.Fatal("SetOffset returned false for an existing symbol")
	}
	v, _ := sym.Value("label")
	if v != 42 {
		t.Errorf("Value(\"label\") after SetOffset = %d, want 42", v)
	}
	if sym.SetOffset("missing", 1) {
		t.Error("SetOffset should return false for a missing symbol")
	}
}

func TestDuplicateAddAcceptedAtTableLevel(t *testing.T) {
	// spec.md §4.2: duplicate names are accepted at the data-structure
	// level; forbidding duplicates is the assembler's job.
	sym := NewTable()
	sym.Add(NewSymbol("dup", 0, Label))
	sym.Add(NewSymbol("dup", 4, Label))
	if sym.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sym.Len())
	}
}
