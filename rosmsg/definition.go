package rosmsg

import (
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/errors"
	"github.com/wippyai/bobject/schema"
)

// Op is a rewrite command.
type Op uint8

const (
	OpReadFixed Op = iota
	OpReadString
	OpReadDynamicData
	OpConstantArray
	OpDynamicArray
)

func (o Op) String() string {
	switch o {
	case OpReadFixed:
		return "ReadFixed"
	case OpReadString:
		return "ReadString"
	case OpReadDynamicData:
		return "ReadDynamicData"
	case OpConstantArray:
		return "ConstantArray"
	case OpDynamicArray:
		return "DynamicArray"
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Command is one step of a definition. Size is the byte count for
// ReadFixed and the element size for the array commands.
type Command struct {
	Op     Op
	Label  string
	Size   uint32
	Length uint32 // ConstantArray only
	Sub    []Command
}

// Definition is the recorded rewrite program of one message type.
type Definition struct {
	TypeName string
	Size     uint32
	Commands []Command

	maxArray int
}

// String renders the command tree, one command per line.
func (d *Definition) String() string {
	var b strings.Builder
	b.WriteString(d.TypeName)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(int(d.Size)))
	b.WriteString(" bytes)\n")
	writeCommands(&b, d.Commands, 1)
	return b.String()
}

func writeCommands(b *strings.Builder, cmds []Command, depth int) {
	for _, c := range cmds {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(c.Op.String())
		switch c.Op {
		case OpReadFixed, OpReadDynamicData, OpDynamicArray:
			b.WriteString(" " + strconv.Itoa(int(c.Size)))
		case OpConstantArray:
			b.WriteString(" " + strconv.Itoa(int(c.Length)) + "x" + strconv.Itoa(int(c.Size)))
		}
		if c.Label != "" {
			b.WriteString(" " + c.Label)
		}
		b.WriteByte('\n')
		writeCommands(b, c.Sub, depth+1)
	}
}

type defKey struct {
	fp       schema.Fingerprint
	typeName string
}

var definitions sync.Map // defKey -> *Definition

// Compile records the definition of typeName using the default codec
// compiler.
func Compile(m schema.Map, typeName string) (*Definition, error) {
	p, err := codec.DefaultCompiler().Compile(m)
	if err != nil {
		return nil, err
	}
	return CompileProgram(p, typeName)
}

// CompileProgram records the definition of typeName against a compiled
// program. Definitions are cached per program fingerprint.
func CompileProgram(p *codec.Program, typeName string) (*Definition, error) {
	key := defKey{fp: p.Fingerprint(), typeName: typeName}
	if cached, ok := definitions.Load(key); ok {
		return cached.(*Definition), nil
	}

	rec := recorder{prog: p, layouts: make(map[string]codec.RecordLayout), active: make(map[string]bool)}
	l, err := rec.layout(typeName)
	if err != nil {
		return nil, err
	}
	cmds, err := rec.record(typeName, "")
	if err != nil {
		return nil, err
	}

	def := &Definition{
		TypeName: typeName,
		Size:     l.Size,
		Commands: optimize(cmds),
		maxArray: p.Options().MaxArrayLength,
	}
	actual, _ := definitions.LoadOrStore(key, def)
	return actual.(*Definition), nil
}

type recorder struct {
	prog    *codec.Program
	layouts map[string]codec.RecordLayout
	active  map[string]bool
}

func (r *recorder) layout(typeName string) (codec.RecordLayout, error) {
	if l, ok := r.layouts[typeName]; ok {
		return l, nil
	}
	l, err := r.prog.Layout(typeName)
	if err != nil {
		return codec.RecordLayout{}, errors.UnknownType(errors.PhaseRewrite, nil, typeName)
	}
	r.layouts[typeName] = l
	return l, nil
}

// fixed reports whether typeName has the same fixed-size bytes in ROS1
// and Bob, and its size.
func (r *recorder) fixed(typeName string) (bool, uint32, error) {
	if size, ok := schema.PrimitiveSize(typeName); ok {
		return !schema.IsStringType(typeName), size, nil
	}
	l, err := r.layout(typeName)
	if err != nil {
		return false, 0, err
	}
	return l.Flat, l.Size, nil
}

func join(label, name string) string {
	if label == "" {
		return name
	}
	return label + "." + name
}

// record returns the commands for one value of typeName.
func (r *recorder) record(typeName, label string) ([]Command, error) {
	switch {
	case typeName == schema.JSON:
		return nil, errors.Unsupported(errors.PhaseRewrite, "json field "+label+" has no ROS1 encoding")
	case typeName == schema.String:
		return []Command{{Op: OpReadString, Label: label}}, nil
	case schema.IsPrimitive(typeName):
		size, _ := schema.PrimitiveSize(typeName)
		return []Command{{Op: OpReadFixed, Label: label, Size: size}}, nil
	}

	l, err := r.layout(typeName)
	if err != nil {
		return nil, err
	}
	if l.Flat {
		if l.Size == 0 {
			return nil, nil
		}
		return []Command{{Op: OpReadFixed, Label: label, Size: l.Size}}, nil
	}
	if r.active[typeName] {
		return nil, errors.Unsupported(errors.PhaseRewrite, "recursive type "+typeName+" at "+label)
	}
	r.active[typeName] = true
	defer delete(r.active, typeName)

	var out []Command
	for _, f := range l.Fields {
		if f.IsConstant {
			continue
		}
		var cmds []Command
		if f.IsArray {
			cmds, err = r.array(f, join(label, f.Name))
		} else {
			cmds, err = r.record(f.Type, join(label, f.Name))
		}
		if err != nil {
			return nil, err
		}
		out = append(out, cmds...)
	}
	return out, nil
}

func (r *recorder) array(f codec.FieldLayout, label string) ([]Command, error) {
	fixed, size, err := r.fixed(f.Type)
	if err != nil {
		return nil, err
	}

	if f.FixedLen >= 0 {
		cmd := Command{Op: OpConstantArray, Label: label, Size: size, Length: uint32(f.FixedLen)}
		if fixed {
			if n := size * uint32(f.FixedLen); n > 0 {
				cmd.Sub = []Command{{Op: OpReadFixed, Label: label, Size: n}}
			}
			return []Command{cmd}, nil
		}
		elem, err := r.record(f.Type, label)
		if err != nil {
			return nil, err
		}
		for range f.FixedLen {
			cmd.Sub = append(cmd.Sub, elem...)
		}
		return []Command{cmd}, nil
	}

	if fixed {
		return []Command{{Op: OpReadDynamicData, Label: label, Size: size}}, nil
	}
	elem, err := r.record(f.Type, label)
	if err != nil {
		return nil, err
	}
	return []Command{{Op: OpDynamicArray, Label: label, Size: size, Sub: elem}}, nil
}

// optimize merges adjacent fixed reads at every level.
func optimize(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))
	for _, c := range cmds {
		switch c.Op {
		case OpReadFixed:
			if n := len(out); n > 0 && out[n-1].Op == OpReadFixed {
				out[n-1].Size += c.Size
				out[n-1].Label += "+" + c.Label
				continue
			}
		case OpConstantArray, OpDynamicArray:
			c.Sub = optimize(c.Sub)
		}
		out = append(out, c)
	}
	return out
}
