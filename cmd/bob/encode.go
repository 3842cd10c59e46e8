package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/rosmsg"
)

type outputFlags struct {
	inputPath string
	format    string
	stats     bool
}

func (o *outputFlags) flagSet(c *common, name string) *pflag.FlagSet {
	fs := newFlagSet(name, c)
	fs.StringVarP(&o.inputPath, "input", "i", "", "input file (default stdin)")
	fs.StringVarP(&o.format, "format", "f", "json", "output format: json, yaml or cbor")
	fs.BoolVar(&o.stats, "stats", true, "print block statistics to stderr")
	return fs
}

func runEncode(args []string) error {
	var (
		c   common
		out outputFlags
	)
	fs := out.flagSet(&c, "encode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(&c, true); err != nil {
		return err
	}
	if err := checkFormat(out.format); err != nil {
		return err
	}

	compiler, err := c.setup()
	if err != nil {
		return err
	}
	m, err := loadSchema(c.schemaPath, c.typeName)
	if err != nil {
		return err
	}
	p, err := compiler.Compile(m)
	if err != nil {
		return err
	}

	values, err := readInputValues(out.inputPath)
	if err != nil {
		return err
	}
	block, err := p.Encode(c.typeName, values...)
	if err != nil {
		return err
	}
	return emit(p, block, out)
}

func runRewrite(args []string) error {
	var (
		c   common
		out outputFlags
	)
	fs := out.flagSet(&c, "rewrite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(&c, true); err != nil {
		return err
	}
	if err := checkFormat(out.format); err != nil {
		return err
	}

	compiler, err := c.setup()
	if err != nil {
		return err
	}
	m, err := loadSchema(c.schemaPath, c.typeName)
	if err != nil {
		return err
	}
	p, err := compiler.Compile(m)
	if err != nil {
		return err
	}
	def, err := rosmsg.CompileProgram(p, c.typeName)
	if err != nil {
		return err
	}

	in, err := openInput(out.inputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	frames, err := readFrames(in)
	if err != nil {
		return err
	}

	block, err := rewriteFrames(def, frames)
	if err != nil {
		return err
	}
	return emit(p, block, out)
}

func rewriteFrames(def *rosmsg.Definition, frames [][]byte) (bobject.Block, error) {
	rw := rosmsg.NewRewriter()
	defer rw.Release()

	total := 0
	for _, f := range frames {
		total += len(f)
	}
	rw.Reserve(def, len(frames), total)

	for i, f := range frames {
		if _, err := rw.Write(def, f); err != nil {
			return bobject.Block{}, fmt.Errorf("message %d: %w", i+1, err)
		}
	}
	return rw.Finish(), nil
}

func readInputValues(path string) ([]any, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return readValues(in)
}

func checkFormat(format string) error {
	switch format {
	case "json", "yaml", "cbor":
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

// emit decodes every message of block and writes the materialized values.
func emit(p *codec.Program, block bobject.Block, out outputFlags) error {
	values, err := materializeBlock(p, block)
	if err != nil {
		return err
	}
	if out.stats {
		printStats(os.Stderr, p, block)
	}
	return writeValues(os.Stdout, out.format, values)
}

func materializeBlock(p *codec.Program, block bobject.Block) ([]any, error) {
	if block.Len() == 0 {
		return []any{}, nil
	}
	accessors, err := p.DecodeBlock(block)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(accessors))
	for i, a := range accessors {
		values[i], err = codec.MaterializeWide(a)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i+1, err)
		}
	}
	return values, nil
}

func printStats(w io.Writer, p *codec.Program, block bobject.Block) {
	fmt.Fprintf(w, "schema %s: %d messages of %s, buffer %d bytes, table %d bytes\n",
		p.Fingerprint().Short(), block.Len(), block.TypeName, len(block.Buffer), len(block.Table))
}

func writeValues(w io.Writer, format string, values []any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		data, err := cbor.Marshal(values)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
}
