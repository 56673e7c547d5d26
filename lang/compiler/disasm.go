package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/tapt/lang/machine"
)

// Disassemble renders a compiled chunk in a readable textual form: for the
// top-level chunk and then for every function found in a constant pool, the
// constants and the instruction listing (index, source line, instruction).
func Disassemble(chunk *machine.Chunk) string {
	var sb strings.Builder
	dasmFunc(&sb, "main", chunk)
	return sb.String()
}

func dasmFunc(sb *strings.Builder, name string, chunk *machine.Chunk) {
	fmt.Fprintf(sb, "function: %s\n", name)

	var fns []*machine.Function
	if len(chunk.Constants) > 0 {
		sb.WriteString("constants:\n")
		for i, v := range chunk.Constants {
			fmt.Fprintf(sb, "\t%d: %s\n", i, constString(v))
			if fn, ok := v.(*machine.Function); ok {
				fns = append(fns, fn)
			}
		}
	}

	sb.WriteString("code:\n")
	for i, in := range chunk.Code {
		fmt.Fprintf(sb, "\t%04d  %3d  %s\n", i, in.Line, in)
	}

	for _, fn := range fns {
		sb.WriteByte('\n')
		dasmFunc(sb, fn.Meta.Name, fn.Chunk)
	}
}

// constString renders a constant on a single line (descriptors render
// multi-line by default).
func constString(v machine.Value) string {
	switch v := v.(type) {
	case *machine.StructDef:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
		}
		return fmt.Sprintf("struct %s { %s }", v.Name, strings.Join(fields, ", "))
	default:
		return v.String()
	}
}
