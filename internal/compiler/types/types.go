// Package types describes the source language's small, closed set of
// data types and how they map onto IR-level physical types.
package types

// DataType is the closed tag discriminating a TypeInfo. It is the
// authoritative part of TypeInfo; Name is for diagnostics only.
type DataType int

const (
	Unknown DataType = iota
	Int
	Float
	Double
	String
	Bool
	Void
)

func (d DataType) String() string {
	switch d {
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Void:
		return "void"
	default:
		return "unknown"
	}
}

// TypeInfo is a tagged value: the DataType is authoritative, Name carries
// the source spelling for error messages (normally identical to the
// DataType's String(), but kept distinct since an unrecognized type name
// still needs to be echoed back to the user verbatim).
type TypeInfo struct {
	Kind DataType
	Name string
}

// byName is the single source of truth mapping a source-level type
// identifier to its DataType tag.
var byName = map[string]DataType{
	"int":    Int,
	"float":  Float,
	"double": Double,
	"string": String,
	"bool":   Bool,
	"void":   Void,
}

// FromName resolves a type identifier as it appears in source. An
// unrecognized name is not an error at this layer: it produces an
// Unknown TypeInfo carrying the original spelling, which the emitter
// rejects with a CodegenError when it actually needs a physical type.
func FromName(name string) TypeInfo {
	if kind, ok := byName[name]; ok {
		return TypeInfo{Kind: kind, Name: name}
	}
	return TypeInfo{Kind: Unknown, Name: name}
}

// Parameter is a single formal parameter: a name and its declared type.
type Parameter struct {
	Name string
	Type TypeInfo
}
