// Package symbol implements the assembler's name-to-offset table.
package symbol

// Kind distinguishes what a Symbol's offset addresses.
type Kind int

const (
	// Label is a code-section offset (byte offset from the start of the
	// code section).
	Label Kind = iota
	// Integer is a read-only-data offset holding a .integer constant.
	Integer
	// StringLiteral is a read-only-data offset holding a .asciiz constant.
	StringLiteral
)

// Symbol is a single name/offset/kind entry in a Table.
type Symbol struct {
	Name   string
	Offset *uint32
	Kind   Kind
}

// NewSymbol returns a Symbol with offset already known.
func NewSymbol(name string, offset uint32, kind Kind) Symbol {
	o := offset
	return Symbol{Name: name, Offset: &o, Kind: kind}
}

// Table is a set of Symbols keyed by name. Lookup is linear, which is
// acceptable per spec.md §3: assembler symbol tables are small.
type Table struct {
	symbols []Symbol
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts sym. Duplicate names are accepted at this layer — spec.md §4.2
// makes the caller (the assembler) responsible for rejecting duplicates and
// surfacing SymbolAlreadyDeclared.
func (t *Table) Add(sym Symbol) {
	t.symbols = append(t.symbols, sym)
}

// Has reports whether name is present in the table.
func (t *Table) Has(name string) bool {
	return t.find(name) != nil
}

// SetOffset updates the offset of the symbol named name. It reports false if
// no such symbol exists.
func (t *Table) SetOffset(name string, offset uint32) bool {
	s := t.find(name)
	if s == nil {
		return false
	}
	s.Offset = &offset
	return true
}

// Value returns the offset of the symbol named name, and whether it was
// found (a found symbol with a nil Offset reports ok=true, value=0).
func (t *Table) Value(name string) (uint32, bool) {
	s := t.find(name)
	if s == nil {
		return 0, false
	}
	if s.Offset == nil {
		return 0, true
	}
	return *s.Offset, true
}

func (t *Table) find(name string) *Symbol {
	for i := range t.symbols {
		if t.symbols[i].Name == name {
			return &t.symbols[i]
		}
	}
	return nil
}

// Len reports the number of symbols currently in the table.
func (t *Table) Len() int { return len(t.symbols) }
