// Package machine implements the bytecode model (opcodes, chunks, runtime
// values) and the stack-based virtual machine that executes compiled chunks
// against a value stack and a frame stack.
package machine

import (
	"fmt"
	"io"
)

// VM executes compiled chunks. It holds a host-state slot (used by the
// runtime façade to stash the compiler for native registration), a running
// flag, the instruction pointer, the value stack and the frame stack, which
// is never empty.
type VM struct {
	State     any
	IsRunning bool
	Position  int
	Stack     []Value
	Frames    []*Frame

	// Trace, when set, receives one line per executed instruction.
	Trace io.Writer
}

// New creates a VM holding the provided host state, with an initial frame
// recording a stack position of 0.
func New(state any) *VM {
	return &VM{
		State:  state,
		Frames: []*Frame{NewFrame(0)},
	}
}

// Frame returns the top frame.
func (vm *VM) Frame() *Frame {
	return vm.Frames[len(vm.Frames)-1]
}

// Interpret executes the chunk and returns the value it produced: the top
// frame's return value, or None. Runtime errors stop execution and are
// returned; the VM state is then discardable.
func (vm *VM) Interpret(chunk *Chunk) (res Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			rerr, ok := e.(*Error)
			if !ok {
				panic(e)
			}
			vm.IsRunning = false
			err = rerr
		}
	}()

	vm.run(chunk)

	fr := vm.Frame()
	res = fr.Returned
	fr.Returned = nil
	if res == nil {
		res = None{}
	}
	return res, nil
}

// run is the interpreter loop. It starts at position 0 and stops on Halt.
// Runtime failures panic with an *Error, recovered by Interpret.
func (vm *VM) run(chunk *Chunk) {
	vm.Position = 0
	vm.IsRunning = true

	for vm.IsRunning {
		ins := chunk.Code[vm.Position]
		if vm.Trace != nil {
			fmt.Fprintf(vm.Trace, "%04d  %s\n", vm.Position, ins)
		}

		switch ins.Op {
		case Pop:
			vm.pop()

		case LoadConst:
			vm.push(chunk.Constants[ins.Arg])

		case Equal, Greater, Less, Add, Sub, Mul, Div:
			vm.binaryOp(ins.Op)

		case Negate:
			switch v := vm.pop().(type) {
			case Int:
				vm.push(-v)
			case Float:
				vm.push(-v)
			case Bool:
				vm.push(!v)
			default:
				fail(InvalidNegate, "cannot negate %s", kindName(v))
			}

		case Return:
			fr := vm.Frame()
			if len(vm.Stack) > fr.StackPosition {
				fr.Returned = vm.pop()
			}

		case SetProperty:
			v := vm.pop()
			vm.setProperty(vm.pop(), ins.Arg, v)

		case GetProperty:
			vm.push(vm.getProperty(vm.pop(), ins.Arg))

		case GetLocal:
			fr := vm.Frames[len(vm.Frames)-1+ins.Arg]
			vm.push(fr.GetSlot(ins.Arg2))

		case SetLocal:
			v := vm.pop()
			fr := vm.Frame()
			if ins.Arg != CurrentFrame {
				fr = vm.Frames[ins.Arg]
			}
			fr.SetSlot(ins.Arg2, v)

		case Jump:
			vm.Position += ins.Arg

		case JumpIfFalse:
			if b, ok := vm.peek(0).(Bool); ok && !bool(b) {
				vm.pop()
				vm.Position += ins.Arg
			}

		case Call:
			switch callable := vm.peek(ins.Arg).(type) {
			case *Function:
				vm.call(callable, ins.Arg)
			case *NativeFunction:
				vm.callNative(callable, ins.Arg)
			default:
				fail(NotCallable, "cannot call %s", kindName(callable))
			}

		case Copy:
			vm.push(vm.peek(0))

		case PushFrame:
			vm.Frames = append(vm.Frames, NewFrame(len(vm.Stack)))

		case PopFrame:
			if v := vm.popFrame(); v != nil {
				vm.push(v)
			}

		case CreateInstance:
			vm.createInstance()

		case Halt:
			vm.IsRunning = false

		default:
			panic(fmt.Sprintf("machine: unknown opcode %d", ins.Op))
		}

		vm.Position++
	}
}

func (vm *VM) push(v Value) {
	vm.Stack = append(vm.Stack, v)
}

func (vm *VM) pop() Value {
	v := vm.Stack[len(vm.Stack)-1]
	vm.Stack = vm.Stack[:len(vm.Stack)-1]
	return v
}

// peek returns the value at the given depth from the top without popping.
func (vm *VM) peek(depth int) Value {
	return vm.Stack[len(vm.Stack)-1-depth]
}

// splitOff removes and returns the top n values, in stack order.
func (vm *VM) splitOff(n int) []Value {
	split := len(vm.Stack) - n
	vals := make([]Value, n)
	copy(vals, vm.Stack[split:])
	vm.Stack = vm.Stack[:split]
	return vals
}

// popFrame discards the top frame, truncates the value stack to the height
// recorded at the frame's entry, and returns the frame's return value (nil
// if none).
func (vm *VM) popFrame() Value {
	fr := vm.Frames[len(vm.Frames)-1]
	vm.Frames = vm.Frames[:len(vm.Frames)-1]
	vm.Stack = vm.Stack[:fr.StackPosition]
	return fr.Returned
}

// call invokes a compiled function whose callable sits at stack depth argc
// with the arguments above it. The new frame's slots are the arguments
// followed by the callable itself (the function's self-binding, which makes
// recursion work).
func (vm *VM) call(fn *Function, argc int) {
	savedPos := vm.Position

	slots := vm.splitOff(argc)
	slots = append(slots, vm.pop())

	fr := NewFrame(len(vm.Stack))
	fr.Slots = slots
	vm.Frames = append(vm.Frames, fr)

	vm.run(fn.Chunk)

	if v := vm.popFrame(); v != nil {
		vm.push(v)
	}

	vm.IsRunning = true
	vm.Position = savedPos
}

func (vm *VM) callNative(fn *NativeFunction, argc int) {
	args := vm.splitOff(argc)
	vm.pop() // the callable

	ret := fn.Fn(vm, NewArgs(args))
	if _, isNone := ret.(None); ret != nil && !isNone {
		vm.push(ret)
	}
}

func (vm *VM) binaryOp(op Opcode) {
	b := vm.pop()
	a := vm.pop()

	switch op {
	case Equal:
		vm.push(Bool(EqualValues(a, b)))
		return
	case Greater:
		c, ok := compareValues(a, b)
		vm.push(Bool(ok && c > 0))
		return
	case Less:
		c, ok := compareValues(a, b)
		vm.push(Bool(ok && c < 0))
		return
	}

	switch a := a.(type) {
	case Int:
		if b, ok := b.(Int); ok {
			switch op {
			case Add:
				vm.push(a + b)
			case Sub:
				vm.push(a - b)
			case Mul:
				vm.push(a * b)
			case Div:
				if b == 0 {
					fail(DivisionByZero, "%d / 0", int64(a))
				}
				vm.push(a / b)
			}
			return
		}
	case Float:
		if b, ok := b.(Float); ok {
			switch op {
			case Add:
				vm.push(a + b)
			case Sub:
				vm.push(a - b)
			case Mul:
				vm.push(a * b)
			case Div:
				vm.push(a / b)
			}
			return
		}
	}
	fail(InvalidOperands, "%s %s %s", kindName(a), op, kindName(b))
}

func (vm *VM) createInstance() {
	switch desc := vm.pop().(type) {
	case *StructDef:
		vals := vm.splitOff(len(desc.Fields))
		fields := make([]StructFieldValue, len(vals))
		for i, v := range vals {
			fields[i] = StructFieldValue{Name: desc.Fields[i].Name, Value: v}
		}
		vm.push(&StructInstance{Name: desc.Name, Fields: fields})

	case *RecordDef:
		vm.push(&RecordInstance{Name: desc.Name, Fields: vm.splitOff(len(desc.Fields))})

	default:
		fail(NotAnInstance, "cannot instantiate %s", kindName(desc))
	}
}

func (vm *VM) getProperty(v Value, pos int) Value {
	switch v := v.(type) {
	case *StructInstance:
		if pos >= len(v.Fields) {
			fail(PropertyOutOfRange, "%s has %d fields, want field %d", v.Name, len(v.Fields), pos)
		}
		return v.Fields[pos].Value
	case *RecordInstance:
		if pos >= len(v.Fields) {
			fail(PropertyOutOfRange, "%s has %d fields, want field %d", v.Name, len(v.Fields), pos)
		}
		return v.Fields[pos]
	}
	fail(NotAnInstance, "cannot read property of %s", kindName(v))
	return nil
}

func (vm *VM) setProperty(target Value, pos int, v Value) {
	switch target := target.(type) {
	case *StructInstance:
		if pos >= len(target.Fields) {
			fail(PropertyOutOfRange, "%s has %d fields, want field %d", target.Name, len(target.Fields), pos)
		}
		target.Fields[pos].Value = v
	case *RecordInstance:
		if pos >= len(target.Fields) {
			fail(PropertyOutOfRange, "%s has %d fields, want field %d", target.Name, len(target.Fields), pos)
		}
		target.Fields[pos] = v
	default:
		fail(NotAnInstance, "cannot set property of %s", kindName(target))
	}
}
