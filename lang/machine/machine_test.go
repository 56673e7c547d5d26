package machine_test

import (
	"bytes"
	"testing"

	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, chunk *machine.Chunk) (*machine.VM, machine.Value) {
	t.Helper()
	vm := machine.New(nil)
	res, err := vm.Interpret(chunk)
	require.NoError(t, err)
	return vm, res
}

func TestFrameSetSlotPadding(t *testing.T) {
	fr := machine.NewFrame(0)
	fr.SetSlot(2, machine.Int(7))
	require.Len(t, fr.Slots, 3)
	assert.Equal(t, machine.None{}, fr.Slots[0])
	assert.Equal(t, machine.None{}, fr.Slots[1])
	assert.Equal(t, machine.Int(7), fr.Slots[2])

	// reading an unassigned slot yields None
	assert.Equal(t, machine.None{}, fr.GetSlot(9))
}

func TestInterpretHaltOnly(t *testing.T) {
	chunk := machine.NewChunk()
	chunk.Emit(0, machine.Halt)
	vm, res := run(t, chunk)
	assert.Equal(t, machine.None{}, res)
	assert.False(t, vm.IsRunning)
	assert.Empty(t, vm.Stack)
}

// after PopFrame the stack height is the frame's recorded position, plus one
// when the frame returned a value
func TestPopFrameRestoresStack(t *testing.T) {
	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(10)))
	chunk.Emit(0, machine.PushFrame)
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(20)))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(30)))
	chunk.Emit(0, machine.PopFrame)
	chunk.Emit(0, machine.Halt)

	vm, _ := run(t, chunk)
	require.Equal(t, []machine.Value{machine.Int(10)}, vm.Stack)

	chunk = machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(10)))
	chunk.Emit(0, machine.PushFrame)
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(20)))
	chunk.Emit(0, machine.Return)
	chunk.Emit(0, machine.PopFrame)
	chunk.Emit(0, machine.Halt)

	vm, _ = run(t, chunk)
	require.Equal(t, []machine.Value{machine.Int(10), machine.Int(20)}, vm.Stack)
}

func TestJumpIfFalsePopsOnlyFalse(t *testing.T) {
	build := func(v machine.Value) *machine.Chunk {
		chunk := machine.NewChunk()
		chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(v))
		chunk.EmitArg(0, machine.JumpIfFalse, 1)
		chunk.Emit(0, machine.Halt)
		chunk.Emit(0, machine.Halt)
		return chunk
	}

	// false: popped and jumped
	vm, _ := run(t, build(machine.Bool(false)))
	assert.Empty(t, vm.Stack)

	// true: left on the stack, no jump
	vm, _ = run(t, build(machine.Bool(true)))
	assert.Equal(t, []machine.Value{machine.Bool(true)}, vm.Stack)

	// non-bool: no-op
	vm, _ = run(t, build(machine.Int(1)))
	assert.Equal(t, []machine.Value{machine.Int(1)}, vm.Stack)
}

func TestSetLocalAbsoluteAndCurrent(t *testing.T) {
	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(7)))
	chunk.EmitArg2(0, machine.SetLocal, machine.CurrentFrame, 0)
	chunk.Emit(0, machine.PushFrame)
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(8)))
	chunk.EmitArg2(0, machine.SetLocal, 0, 1) // absolute frame 0
	chunk.EmitArg2(0, machine.GetLocal, -1, 0)
	chunk.Emit(0, machine.Halt)

	vm, _ := run(t, chunk)
	require.Len(t, vm.Frames, 2)
	assert.Equal(t, machine.Int(7), vm.Frames[0].GetSlot(0))
	assert.Equal(t, machine.Int(8), vm.Frames[0].GetSlot(1))
	// GetLocal with a negative delta read the outer frame
	assert.Equal(t, []machine.Value{machine.Int(7)}, vm.Stack)
}

func TestCreateInstanceAndProperties(t *testing.T) {
	rec := &machine.RecordDef{Name: "P", Fields: []types.Type{types.Int, types.Int}}

	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(3)))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(4)))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(rec))
	chunk.Emit(0, machine.CreateInstance)
	chunk.Emit(0, machine.Copy)
	chunk.EmitArg(0, machine.GetProperty, 1)
	chunk.Emit(0, machine.Halt)

	vm, _ := run(t, chunk)
	require.Len(t, vm.Stack, 2)
	inst, ok := vm.Stack[0].(*machine.RecordInstance)
	require.True(t, ok)
	assert.Equal(t, "P", inst.Name)
	assert.Equal(t, []machine.Value{machine.Int(3), machine.Int(4)}, inst.Fields)
	assert.Equal(t, machine.Int(4), vm.Stack[1])

	sd := &machine.StructDef{Name: "S", Fields: []types.StructField{
		{Name: "a", Type: types.Int},
	}}
	chunk = machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(1)))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(sd))
	chunk.Emit(0, machine.CreateInstance)
	chunk.Emit(0, machine.Copy)
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(5)))
	chunk.EmitArg(0, machine.SetProperty, 0)
	chunk.Emit(0, machine.Halt)

	vm, _ = run(t, chunk)
	require.Len(t, vm.Stack, 1)
	sinst := vm.Stack[0].(*machine.StructInstance)
	assert.Equal(t, "a", sinst.Fields[0].Name)
	assert.Equal(t, machine.Int(5), sinst.Fields[0].Value)
}

func TestCallFrameLayout(t *testing.T) {
	// identity function: returns its single argument (slot 0)
	id := &machine.Function{Meta: machine.FuncMeta{Name: "id", Args: []types.Type{types.Int}, Out: types.Int}}
	id.Chunk = machine.NewChunk()
	id.Chunk.EmitArg2(0, machine.GetLocal, 0, 0)
	id.Chunk.Emit(0, machine.Return)
	id.Chunk.Emit(0, machine.Halt)

	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(id))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(42)))
	chunk.EmitArg(0, machine.Call, 1)
	chunk.Emit(0, machine.Halt)

	vm, _ := run(t, chunk)
	assert.Equal(t, []machine.Value{machine.Int(42)}, vm.Stack)
	require.Len(t, vm.Frames, 1, "the call frame is popped")

	// the callable itself is stored in the slot after the arguments
	self := &machine.Function{Meta: machine.FuncMeta{Name: "self", Args: []types.Type{types.Int}, Out: types.None}}
	self.Chunk = machine.NewChunk()
	self.Chunk.EmitArg2(0, machine.GetLocal, 0, 1)
	self.Chunk.Emit(0, machine.Return)
	self.Chunk.Emit(0, machine.Halt)

	chunk = machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(self))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(0)))
	chunk.EmitArg(0, machine.Call, 1)
	chunk.Emit(0, machine.Halt)

	vm, _ = run(t, chunk)
	require.Len(t, vm.Stack, 1)
	assert.Same(t, self, vm.Stack[0])
}

func TestCallNative(t *testing.T) {
	sum := &machine.NativeFunction{
		Meta: machine.FuncMeta{Name: "sum", Args: []types.Type{types.Int, types.Int}, Out: types.Int},
		Fn: func(_ *machine.VM, args *machine.Args) machine.Value {
			a := args.NextInt()
			b := args.NextInt()
			return machine.Int(a + b)
		},
	}

	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(sum))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(20)))
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(40)))
	chunk.EmitArg(0, machine.Call, 2)
	chunk.Emit(0, machine.Halt)

	vm, _ := run(t, chunk)
	assert.Equal(t, []machine.Value{machine.Int(60)}, vm.Stack)

	// a native returning None pushes nothing
	noop := &machine.NativeFunction{
		Meta: machine.FuncMeta{Name: "noop", Out: types.None},
		Fn: func(_ *machine.VM, _ *machine.Args) machine.Value {
			return machine.None{}
		},
	}
	chunk = machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(noop))
	chunk.EmitArg(0, machine.Call, 0)
	chunk.Emit(0, machine.Halt)

	vm, _ = run(t, chunk)
	assert.Empty(t, vm.Stack)
}

func TestTrace(t *testing.T) {
	chunk := machine.NewChunk()
	chunk.EmitArg(0, machine.LoadConst, chunk.AddConst(machine.Int(1)))
	chunk.Emit(0, machine.Halt)

	var buf bytes.Buffer
	vm := machine.New(nil)
	vm.Trace = &buf
	_, err := vm.Interpret(chunk)
	require.NoError(t, err)
	assert.Equal(t, "0000  LoadConst 0\n0001  Halt\n", buf.String())

	// no trace output when unset
	buf.Reset()
	vm = machine.New(nil)
	_, err = vm.Interpret(chunk)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestEqualValuesIdentity(t *testing.T) {
	assert.True(t, machine.EqualValues(machine.Int(1), machine.Int(1)))
	assert.False(t, machine.EqualValues(machine.Int(1), machine.Int(2)))
	assert.False(t, machine.EqualValues(machine.Int(1), machine.Float(1)))
	assert.True(t, machine.EqualValues(machine.None{}, machine.None{}))
	assert.True(t, machine.EqualValues(machine.Bool(true), machine.Bool(true)))

	// heap cells compare by reference identity
	s1 := &machine.String{S: "a"}
	s2 := &machine.String{S: "a"}
	assert.True(t, machine.EqualValues(s1, s1))
	assert.False(t, machine.EqualValues(s1, s2))
}

func TestRuntimeErrors(t *testing.T) {
	str := &machine.String{S: "x"}
	rec := &machine.RecordDef{Name: "P", Fields: []types.Type{types.Int}}

	cases := []struct {
		name  string
		build func(chunk *machine.Chunk)
		kind  machine.ErrorKind
	}{
		{"negate string", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(str))
			c.Emit(0, machine.Negate)
		}, machine.InvalidNegate},
		{"add int bool", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(1)))
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Bool(true)))
			c.Emit(0, machine.Add)
		}, machine.InvalidOperands},
		{"division by zero", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(1)))
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(0)))
			c.Emit(0, machine.Div)
		}, machine.DivisionByZero},
		{"property on non-instance", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(1)))
			c.EmitArg(0, machine.GetProperty, 0)
		}, machine.NotAnInstance},
		{"property out of range", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(1)))
			c.EmitArg(0, machine.LoadConst, c.AddConst(rec))
			c.Emit(0, machine.CreateInstance)
			c.EmitArg(0, machine.GetProperty, 3)
		}, machine.PropertyOutOfRange},
		{"call non-callable", func(c *machine.Chunk) {
			c.EmitArg(0, machine.LoadConst, c.AddConst(machine.Int(1)))
			c.EmitArg(0, machine.Call, 0)
		}, machine.NotCallable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunk := machine.NewChunk()
			tc.build(chunk)
			chunk.Emit(0, machine.Halt)

			vm := machine.New(nil)
			_, err := vm.Interpret(chunk)
			require.Error(t, err)
			var merr *machine.Error
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tc.kind, merr.Kind)
			assert.False(t, vm.IsRunning)
		})
	}
}
