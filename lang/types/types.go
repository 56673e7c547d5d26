// Package types defines the static type model of the language: the closed
// set of value types known to the compiler, structural equality over them,
// and the wildcard comparison used to match native-function arguments.
package types

import "strings"

// A Type is one of the closed set of value types: the basic types Any, None,
// Int, Float, Bool and String, or a composite *Func, *Record or *Struct.
type Type interface {
	// String returns the source-level spelling of the type.
	String() string

	typ()
}

// A Basic is a non-composite type.
type Basic int8

// The basic types. Any is the wildcard that Compare matches against
// everything; None is the type of statements and of functions without an
// output type.
const (
	Any Basic = iota
	None
	Int
	Float
	Bool
	String
)

var basicNames = [...]string{
	Any:    "any",
	None:   "none",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
	String: "string",
}

func (b Basic) String() string { return basicNames[b] }
func (Basic) typ()             {}

// A Func is the type of a declared or native function.
type Func struct {
	Args []Type
	Out  Type
}

func (f *Func) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString("): ")
	sb.WriteString(f.Out.String())
	return sb.String()
}
func (*Func) typ() {}

// A Record is the type introduced by a record declaration; fields are
// positional.
type Record struct {
	Name   string
	Fields []Type
}

func (r *Record) String() string { return "record " + r.Name }
func (*Record) typ()             {}

// A StructField is a named field of a struct type.
type StructField struct {
	Name string
	Type Type
}

// A Struct is the type introduced by a struct declaration; fields are named
// and ordered by declaration.
type Struct struct {
	Name   string
	Fields []StructField
}

func (s *Struct) String() string { return "struct " + s.Name }
func (*Struct) typ()             {}

// FieldIndex returns the declaration position of the named field, or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Basic:
		b, ok := b.(Basic)
		return ok && a == b
	case *Func:
		bf, ok := b.(*Func)
		if !ok || len(a.Args) != len(bf.Args) || !Equal(a.Out, bf.Out) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], bf.Args[i]) {
				return false
			}
		}
		return true
	case *Record:
		br, ok := b.(*Record)
		if !ok || a.Name != br.Name || len(a.Fields) != len(br.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], br.Fields[i]) {
				return false
			}
		}
		return true
	case *Struct:
		bs, ok := b.(*Struct)
		if !ok || a.Name != bs.Name || len(a.Fields) != len(bs.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != bs.Fields[i].Name || !Equal(a.Fields[i].Type, bs.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare is Equal modulo the Any wildcard: it reports true whenever either
// side is Any. It is the predicate used to match arguments against native
// function signatures.
func Compare(a, b Type) bool {
	if a == Any || b == Any {
		return true
	}
	return Equal(a, b)
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool { return t == Int || t == Float }

// Lookup returns the basic type named by a source annotation (int, float,
// bool or string), or nil if lit is not a type name.
func Lookup(lit string) Type {
	switch lit {
	case "int":
		return Int
	case "float":
		return Float
	case "bool":
		return Bool
	case "string":
		return String
	}
	return nil
}
