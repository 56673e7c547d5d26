package runtime

import (
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/types"
)

// A FunctionBuilder declares the signature of a host native function. The
// zero argument types default to none output; use types.Any arguments to
// accept any value.
type FunctionBuilder struct {
	name string
	args []types.Type
	out  types.Type
}

// NewFunction starts building a native function with the provided name.
func NewFunction(name string) *FunctionBuilder {
	return &FunctionBuilder{name: name}
}

// Arg appends a typed argument to the signature.
func (b *FunctionBuilder) Arg(t types.Type) *FunctionBuilder {
	b.args = append(b.args, t)
	return b
}

// AnyArg appends a wildcard argument that matches any value.
func (b *FunctionBuilder) AnyArg() *FunctionBuilder {
	return b.Arg(types.Any)
}

// Out sets the output type of the signature; unset means none.
func (b *FunctionBuilder) Out(t types.Type) *FunctionBuilder {
	b.out = t
	return b
}

// BuildValue returns the native function value without registering it.
func (b *FunctionBuilder) BuildValue(fn machine.NativeFn) machine.Value {
	out := b.out
	if out == nil {
		out = types.None
	}
	return &machine.NativeFunction{
		Meta: machine.FuncMeta{Name: b.name, Args: b.args, Out: out},
		Fn:   fn,
	}
}

// Build registers the native in the runtime: the compiler assigns the
// binding's slot, the matching value is stored in the VM frame's slot, and
// the runtime's registry remembers it by name.
func (b *FunctionBuilder) Build(rt *Runtime, fn machine.NativeFn) {
	v := b.BuildValue(fn)
	slot := rt.compiler().AddNativeFunc(b.name, b.args, b.out)
	rt.vm.Frame().SetSlot(slot, v)
	rt.natives.Put(b.name, v)
}
