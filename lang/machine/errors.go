package machine

import "fmt"

// ErrorKind discriminates the closed set of runtime errors.
type ErrorKind int8

//nolint:revive
const (
	// InvalidOperands is raised by a binary operation on operands that are
	// not both of the same numeric kind.
	InvalidOperands ErrorKind = iota
	// InvalidNegate is raised by Negate on a value that is not a number or a
	// boolean.
	InvalidNegate
	// NotAnInstance is raised by property access on a value that is not a
	// struct or record instance.
	NotAnInstance
	// PropertyOutOfRange is raised by property access with a field position
	// outside the instance's fields.
	PropertyOutOfRange
	// NotCallable is raised by Call when the callable slot does not hold a
	// function.
	NotCallable
	// DivisionByZero is raised by integer division by zero.
	DivisionByZero
)

var errorKindNames = [...]string{
	InvalidOperands:    "invalid operands",
	InvalidNegate:      "invalid negate",
	NotAnInstance:      "not an instance",
	PropertyOutOfRange: "property out of range",
	NotCallable:        "not callable",
	DivisionByZero:     "division by zero",
}

func (k ErrorKind) String() string { return errorKindNames[k] }

// Error is a fatal runtime error. Execution stops at the first one and the
// VM is left in a discardable state.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// fail raises a runtime error; Interpret recovers it.
func fail(kind ErrorKind, format string, args ...any) {
	panic(&Error{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}
