package machine

import "fmt"

// An Opcode identifies a virtual machine instruction.
type Opcode int8

// "x OP y" comments are stack pictures: state before and after execution.
//
//nolint:revive
const (
	Pop            Opcode = iota // x Pop -
	LoadConst                    // - LoadConst<k> constants[k]
	Equal                        // x y Equal bool
	Greater                      // x y Greater bool
	Less                         // x y Less bool
	Add                          // x y Add x+y
	Sub                          // x y Sub x-y
	Mul                          // x y Mul x*y
	Div                          // x y Div x/y
	Negate                       // x Negate -x (logical not on bools)
	Return                       // moves the value above the frame's stack position, if any, to the frame's return slot
	SetProperty                  // inst v SetProperty<i> -
	GetProperty                  // inst GetProperty<i> inst.fields[i]
	GetLocal                     // - GetLocal<delta, slot> frames[top+delta].slots[slot]
	SetLocal                     // v SetLocal<frame, slot> -    frame is absolute, or the top frame when CurrentFrame
	Jump                         // - Jump<off> -    signed relative offset
	JumpIfFalse                  // pops and jumps only when the top is false; no-op otherwise
	Call                         // f a1 .. an Call<n> result?
	Copy                         // x Copy x x
	PushFrame                    // opens a frame recording the stack height
	PopFrame                     // discards the frame, truncates the stack, pushes the frame's return value if any
	CreateInstance               // v1 .. vn desc CreateInstance instance
	Halt                         // stops the interpreter loop

	maxOpcode
)

// CurrentFrame is the SetLocal frame operand that targets the top frame
// instead of an absolute frame index.
const CurrentFrame = -1

var opcodeNames = [...]string{
	Pop:            "Pop",
	LoadConst:      "LoadConst",
	Equal:          "Equal",
	Greater:        "Greater",
	Less:           "Less",
	Add:            "Add",
	Sub:            "Sub",
	Mul:            "Mul",
	Div:            "Div",
	Negate:         "Negate",
	Return:         "Return",
	SetProperty:    "SetProperty",
	GetProperty:    "GetProperty",
	GetLocal:       "GetLocal",
	SetLocal:       "SetLocal",
	Jump:           "Jump",
	JumpIfFalse:    "JumpIfFalse",
	Call:           "Call",
	Copy:           "Copy",
	PushFrame:      "PushFrame",
	PopFrame:       "PopFrame",
	CreateInstance: "CreateInstance",
	Halt:           "Halt",
}

func (op Opcode) String() string { return opcodeNames[op] }

// An Instr is a single instruction: the opcode, the source line it was
// compiled from, and up to two operands whose meaning depends on the opcode:
//
//	LoadConst            Arg: constant pool index
//	Get/SetProperty      Arg: field position
//	GetLocal             Arg: frame delta (<= 0), Arg2: slot
//	SetLocal             Arg: absolute frame index or CurrentFrame, Arg2: slot
//	Jump                 Arg: signed instruction offset
//	JumpIfFalse          Arg: forward instruction offset
//	Call                 Arg: argument count
type Instr struct {
	Line int
	Op   Opcode
	Arg  int
	Arg2 int
}

func (in Instr) String() string {
	switch in.Op {
	case LoadConst, SetProperty, GetProperty, Jump, JumpIfFalse, Call:
		return fmt.Sprintf("%s %d", in.Op, in.Arg)
	case GetLocal, SetLocal:
		return fmt.Sprintf("%s %d %d", in.Op, in.Arg, in.Arg2)
	}
	return in.Op.String()
}
