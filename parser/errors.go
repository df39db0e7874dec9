package parser

import "fmt"

// Position locates a point in the assembly source (1-indexed line/column).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ErrorKind enumerates the error taxonomy of spec.md §7.
type ErrorKind int

const (
	ErrorParse ErrorKind = iota
	ErrorNoSegmentDeclarationFound
	ErrorStringConstantDeclaredWithoutLabel
	ErrorSymbolAlreadyDeclared
	ErrorUnknownDirective
	ErrorUnknownSectionHeader
	ErrorUnknownSymbol
	ErrorInsufficientSections
	ErrorNonOpcodeInOpcodeField
	ErrorOpcodeInOperandField
)

var errorKindNames = map[ErrorKind]string{
	ErrorParse:                              "ParseError",
	ErrorNoSegmentDeclarationFound:           "NoSegmentDeclarationFound",
	ErrorStringConstantDeclaredWithoutLabel:  "StringConstantDeclaredWithoutLabel",
	ErrorSymbolAlreadyDeclared:               "SymbolAlreadyDeclared",
	ErrorUnknownDirective:                    "UnknownDirective",
	ErrorUnknownSectionHeader:                "UnknownSectionHeader",
	ErrorUnknownSymbol:                       "UnknownSymbol",
	ErrorInsufficientSections:                "InsufficientSections",
	ErrorNonOpcodeInOpcodeField:              "NonOpcodeInOpcodeField",
	ErrorOpcodeInOperandField:                "OpcodeInOperandField",
}

func (k ErrorKind) String() string {
	if n, ok := errorKindNames[k]; ok {
		return n
	}
	return "UnknownError"
}

// Error is the concrete error type produced by the grammar and the
// assembler. It is collected rather than panicking: phase 1 of the
// assembler gathers many before surfacing them together (spec.md §7).
type Error struct {
	Kind    ErrorKind
	Pos     Position
	Detail  string
	Context string // the offending name/mnemonic/section, when relevant
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s: %s (%s)", e.Kind, e.Pos, e.Detail, e.Context)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Detail)
}

// NewError constructs an Error of the given kind.
func NewError(kind ErrorKind, pos Position, detail string) *Error {
	return &Error{Kind: kind, Pos: pos, Detail: detail}
}

// WithContext attaches additional context and returns e for chaining.
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}
