package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
)

// ErrorKind discriminates the closed set of compile errors.
type ErrorKind int8

//nolint:revive
const (
	VariableNotExist ErrorKind = iota
	PropertyNotExist
	ImmutableVariable
	TypeExpected
	OneOfTypeExpected
	InvalidArgumentsCount
	InvalidInstanceArgs
	// Unsupported is raised for constructs the AST reserves but the language
	// does not compile: for-in loops, ranges, arrays, objects, bracket
	// indexing.
	Unsupported
)

// InstanceForm tells the two instance construction forms apart in
// InvalidInstanceArgs errors.
type InstanceForm int8

//nolint:revive
const (
	FormRecord InstanceForm = iota
	FormStruct
)

func (f InstanceForm) String() string {
	if f == FormStruct {
		return "struct"
	}
	return "record"
}

// Error is a compile error. Compilation stops at the first one. At always
// carries the offending span; DeclaredAt carries the relevant declaration
// site when one exists, so that an editor can underline both.
type Error struct {
	Kind ErrorKind

	Name     string // variable or property name
	Target   string // owner type name, for PropertyNotExist
	Expected types.Type
	Found    types.Type
	OneOf    []types.Type // expected types, for OneOfTypeExpected
	Want     int          // expected count, for InvalidArgumentsCount
	Got      int          // provided count, for InvalidArgumentsCount
	WantForm InstanceForm // for InvalidInstanceArgs
	GotForm  InstanceForm // for InvalidInstanceArgs
	Detail   string       // for Unsupported

	At         token.Span
	DeclaredAt *token.Span
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case VariableNotExist:
		msg = fmt.Sprintf("variable %s does not exist", e.Name)
	case PropertyNotExist:
		msg = fmt.Sprintf("property %s does not exist on %s", e.Name, e.Target)
	case ImmutableVariable:
		msg = fmt.Sprintf("cannot assign to immutable variable %s", e.Name)
	case TypeExpected:
		msg = fmt.Sprintf("expected type %s, found %s", e.Expected, e.Found)
	case OneOfTypeExpected:
		names := make([]string, len(e.OneOf))
		for i, t := range e.OneOf {
			names[i] = t.String()
		}
		msg = fmt.Sprintf("expected one of %s, found %s", strings.Join(names, ", "), e.Found)
	case InvalidArgumentsCount:
		msg = fmt.Sprintf("expected %d arguments, got %d", e.Want, e.Got)
	case InvalidInstanceArgs:
		msg = fmt.Sprintf("expected %s instance arguments, got %s", e.WantForm, e.GotForm)
	case Unsupported:
		msg = fmt.Sprintf("unsupported: %s", e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.At, msg)
}
