package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/tapt/lang/types"
)

// A Value is a runtime value: None, an immediate Int, Float or Bool, or a
// pointer to a shared, interior-mutable heap cell (strings, functions, type
// descriptors and instances). Equality on heap values is reference
// identity.
type Value interface {
	// String renders the value for display.
	String() string

	value()
}

// None is the unit value, the result of statements and of functions without
// an output type.
type None struct{}

// Int is an integer value.
type Int int64

// Float is a floating point value.
type Float float32

// Bool is a boolean value.
type Bool bool

// A String is a heap-allocated string cell.
type String struct {
	S string
}

// FuncMeta describes a compiled or native function: its name and signature.
type FuncMeta struct {
	Name string
	Args []types.Type
	Out  types.Type
}

// A Function is a compiled function: its metadata and the chunk of its body,
// which ends with Halt.
type Function struct {
	Meta  FuncMeta
	Chunk *Chunk
}

// A NativeFn is the host-provided implementation of a native function. It
// receives the VM and an iterator over the call arguments, and returns the
// function's result (None to return nothing).
type NativeFn func(vm *VM, args *Args) Value

// A NativeFunction is a host function registered through the runtime.
type NativeFunction struct {
	Meta FuncMeta
	Fn   NativeFn
}

// A StructDef is the runtime descriptor of a declared struct type.
type StructDef struct {
	Name   string
	Fields []types.StructField
}

// A RecordDef is the runtime descriptor of a declared record type.
type RecordDef struct {
	Name   string
	Fields []types.Type
}

// A StructFieldValue is a named field of a struct instance.
type StructFieldValue struct {
	Name  string
	Value Value
}

// A StructInstance is a constructed struct value; fields are in declaration
// order.
type StructInstance struct {
	Name   string
	Fields []StructFieldValue
}

// A RecordInstance is a constructed record value; fields are positional.
type RecordInstance struct {
	Name   string
	Fields []Value
}

func (None) value()            {}
func (Int) value()             {}
func (Float) value()           {}
func (Bool) value()            {}
func (*String) value()         {}
func (*Function) value()       {}
func (*NativeFunction) value() {}
func (*StructDef) value()      {}
func (*RecordDef) value()      {}
func (*StructInstance) value() {}
func (*RecordInstance) value() {}

func (None) String() string    { return "()" }
func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Bool) String() string  { return strconv.FormatBool(bool(v)) }

func (v *String) String() string { return strconv.Quote(v.S) }

func (m FuncMeta) signature() string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s): %s", m.Name, strings.Join(args, ", "), m.Out)
}

func (v *Function) String() string       { return "func " + v.Meta.signature() }
func (v *NativeFunction) String() string { return "func[native] " + v.Meta.signature() }

func (v *StructDef) String() string {
	fields := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = fmt.Sprintf("  %s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("struct %s {\n%s\n}", v.Name, strings.Join(fields, ",\n"))
}

func (v *RecordDef) String() string {
	fields := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("record %s(%s)", v.Name, strings.Join(fields, ", "))
}

func (v *StructInstance) String() string {
	fields := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = fmt.Sprintf("  %s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("struct[instance] %s {\n%s\n}", v.Name, strings.Join(fields, ",\n"))
}

func (v *RecordInstance) String() string {
	fields := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("record[instance] %s(%s)", v.Name, strings.Join(fields, ", "))
}

// kindName names the value's kind for diagnostics.
func kindName(v Value) string {
	switch v.(type) {
	case None:
		return "none"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case *String:
		return "string"
	case *Function:
		return "function"
	case *NativeFunction:
		return "native function"
	case *StructDef:
		return "struct"
	case *RecordDef:
		return "record"
	case *StructInstance:
		return "struct instance"
	case *RecordInstance:
		return "record instance"
	}
	return fmt.Sprintf("%T", v)
}

// EqualValues reports whether a and b are equal: by value for the immediate
// kinds, by reference identity for heap values.
func EqualValues(a, b Value) bool {
	switch a := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && a == bv
	case Float:
		bv, ok := b.(Float)
		return ok && a == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && a == bv
	}
	return a == b
}

// compareValues orders a and b, returning -1, 0 or 1 and true when the
// values are comparable: numbers and booleans of the same kind by value,
// strings by content, instances by name only.
func compareValues(a, b Value) (int, bool) {
	switch a := a.(type) {
	case Int:
		if bv, ok := b.(Int); ok {
			return cmp(int64(a), int64(bv)), true
		}
	case Float:
		if bv, ok := b.(Float); ok {
			return cmp(float64(a), float64(bv)), true
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			return cmp(b2i(bool(a)), b2i(bool(bv))), true
		}
	case *String:
		if bv, ok := b.(*String); ok {
			return strings.Compare(a.S, bv.S), true
		}
	case *StructInstance:
		if bv, ok := b.(*StructInstance); ok {
			return strings.Compare(a.Name, bv.Name), true
		}
	case *RecordInstance:
		if bv, ok := b.(*RecordInstance); ok {
			return strings.Compare(a.Name, bv.Name), true
		}
	}
	return 0, false
}

func cmp[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Args iterates over the arguments of a native function call.
type Args struct {
	vals []Value
}

// NewArgs creates an Args over the provided values. It is exported for
// tests; the VM builds Args itself when dispatching native calls.
func NewArgs(vals []Value) *Args { return &Args{vals: vals} }

// Len returns the number of remaining arguments.
func (a *Args) Len() int { return len(a.vals) }

// Next returns the next argument, or None when exhausted.
func (a *Args) Next() Value {
	if len(a.vals) == 0 {
		return None{}
	}
	v := a.vals[0]
	a.vals = a.vals[1:]
	return v
}

// NextInt returns the next argument as an Int; the compiler's argument type
// checking guarantees the kind.
func (a *Args) NextInt() int64 { return int64(a.Next().(Int)) }

// NextFloat returns the next argument as a Float.
func (a *Args) NextFloat() float32 { return float32(a.Next().(Float)) }

// NextBool returns the next argument as a Bool.
func (a *Args) NextBool() bool { return bool(a.Next().(Bool)) }

// NextString returns the next argument's string content.
func (a *Args) NextString() string { return a.Next().(*String).S }
