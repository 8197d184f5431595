package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for IR. Adapted from the teacher's own
// internal/ir/printer.go: the indent/output/writeLine/write shape is kept
// verbatim as an idiom, rewired from the teacher's EVM Instruction/BasicBlock
// types to this package's Function/Block queries (spec.md §6: a printer is a
// pure consumer of the read-only query surface, nothing more).
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders f's entire graph as text.
func Print(f *Function) string {
	p := NewPrinter()
	p.printFunction(f)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) write(format string, args ...interface{}) {
	p.output.WriteString(fmt.Sprintf(format, args...))
}

func (p *Printer) printFunction(f *Function) {
	p.writeLine("fn %s {", f.Ident.String())
	p.indent++
	for _, b := range f.Blocks() {
		p.printBlock(f, b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(f *Function, b Block) {
	args := f.BlockArgs(b)
	argNames := make([]string, len(args))
	for i, a := range args {
		argNames[i] = p.valueName(f, a)
	}
	marker := ""
	if b == f.Entry() {
		marker = " ; entry"
	}
	p.writeLine("block%d(%s):%s", b, strings.Join(argNames, ", "), marker)
	p.indent++
	p.printTerminator(f, b)
	p.indent--
}

func (p *Printer) printTerminator(f *Function, b Block) {
	reads := f.BlockReads(b)
	names := make([]string, len(reads))
	for i, r := range reads {
		names[i] = p.valueName(f, r)
	}
	switch f.BlockKind(b) {
	case OpCallFunction:
		p.writeLine("call_function %s(%s)", f.BlockCallee(b).String(), strings.Join(names, ", "))
	case OpCallControlFlow:
		p.writeLine("call_control_flow %s(%s)", names[0], strings.Join(names[1:], ", "))
	case OpMatch:
		p.writeLine("match %s {", names[0])
		p.indent++
		for _, arm := range f.BlockMatchArms(b) {
			p.printMatchArm(f, arm)
		}
		p.indent--
		p.writeLine("}")
	case OpIfBool:
		p.writeLine("if_bool %s then %s else %s", names[0], names[1], names[2])
	case OpUnpackValueList:
		p.writeLine("unpack_value_list %s[%d] -> %s", names[0], f.BlockUnpackCount(b), names[1])
	case OpMapPut:
		verb := "put"
		if f.BlockMapUpdate(b) {
			verb = "update"
		}
		p.writeLine("map_%s %s[%s] = %s -> %s", verb, names[0], names[1], names[2], names[3])
	case OpTraceCaptureRaw:
		p.writeLine("trace_capture_raw -> %s", names[0])
	case OpTraceConstruct:
		p.writeLine("trace_construct %s -> %s", names[0], names[1])
	case OpUnreachable:
		p.writeLine("unreachable")
	case OpIntrinsic:
		p.writeLine("intrinsic %%%s(%s)", f.BlockOpName(b), strings.Join(names, ", "))
	case OpDyn:
		p.writeLine("dyn %%%s(%s)", f.BlockOpName(b), strings.Join(names, ", "))
	}
}

func (p *Printer) printMatchArm(f *Function, arm MatchArm) {
	target := p.valueName(f, arm.Target)
	switch arm.Kind {
	case MatchArmValue:
		p.writeLine("value %s -> %s", p.constName(f, arm.Literal), target)
	case MatchArmWildcard:
		p.writeLine("_ -> %s", target)
	case MatchArmBinary:
		p.writeLine("binary(%s) -> %s", arm.Binary, target)
	}
}

func (p *Printer) valueName(f *Function, v Value) string {
	if !v.Valid() {
		return "<invalid>"
	}
	kind := f.ValueKind(v)
	switch kind.Tag {
	case ValueKindBlock:
		return fmt.Sprintf("block%d", kind.Block)
	case ValueKindArgument:
		return fmt.Sprintf("%%b%d.%d", kind.Block, kind.Arg)
	case ValueKindConst:
		return p.constName(f, kind.Const)
	case ValueKindPrimOp:
		return p.primOpName(f, kind.PrimOp)
	}
	return "?"
}

func (p *Printer) primOpName(f *Function, op PrimOp) string {
	reads := f.PrimOpReads(op)
	names := make([]string, len(reads))
	for i, r := range reads {
		names[i] = p.valueName(f, r)
	}
	switch f.PrimOpKind(op) {
	case PrimOpValueList:
		return fmt.Sprintf("<%s>", strings.Join(names, ", "))
	case PrimOpTuple:
		return fmt.Sprintf("{%s}", strings.Join(names, ", "))
	case PrimOpListCell:
		return fmt.Sprintf("[%s | %s]", names[0], names[1])
	case PrimOpMap:
		return fmt.Sprintf("%%{%s}", strings.Join(names, ", "))
	case PrimOpBinaryOp:
		return fmt.Sprintf("(%s %s %s)", names[0], f.primops.get(int(op)).Name, names[1])
	case PrimOpCaptureFunction:
		return fmt.Sprintf("&%s", f.primops.get(int(op)).Ident.String())
	}
	return "?primop"
}

func (p *Printer) constName(f *Function, c Const) string {
	switch f.Consts.Kind(c) {
	case ConstAtom:
		return f.Consts.AtomValue(c)
	case ConstInt:
		return fmt.Sprintf("%d", f.Consts.IntValue(c))
	case ConstFloat:
		return fmt.Sprintf("%v", f.Consts.FloatValue(c))
	case ConstTuple:
		parts := make([]string, 0)
		for _, e := range f.Consts.Entries(c) {
			parts = append(parts, p.constName(f, e))
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case ConstList:
		parts := make([]string, 0)
		for _, e := range f.Consts.Entries(c) {
			parts = append(parts, p.constName(f, e))
		}
		tail := f.Consts.ListTail(c)
		if tail.Valid() {
			return fmt.Sprintf("[%s | %s]", strings.Join(parts, ", "), p.constName(f, tail))
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case ConstMap:
		keys, values := f.Consts.MapEntries(c)
		parts := make([]string, len(keys))
		for i := range keys {
			parts[i] = fmt.Sprintf("%s => %s", p.constName(f, keys[i]), p.constName(f, values[i]))
		}
		return fmt.Sprintf("%%{%s}", strings.Join(parts, ", "))
	case ConstBinary:
		return fmt.Sprintf("<<%d bytes>>", len(f.Consts.BinaryValue(c)))
	}
	return "?const"
}
