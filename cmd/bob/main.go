package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/rosmsg"
)

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

var commands = []command{
	{"layout", "print record sizes and field offsets", runLayout},
	{"encode", "encode JSON values, decode them back and print them", runEncode},
	{"rewrite", "rewrite length-prefixed ROS1 messages and print them", runRewrite},
	{"browse", "browse encoded messages interactively", runBrowse},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	for _, c := range commands {
		if c.name == name {
			if err := c.run(os.Args[2:]); err != nil {
				if err == pflag.ErrHelp {
					return
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if name != "-h" && name != "--help" && name != "help" {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	}
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: bob <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'bob <command> --help' for command flags.")
}

// common holds the flags every command accepts.
type common struct {
	schemaPath string
	typeName   string
	configPath string
	verbose    bool
}

func (c *common) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.schemaPath, "schema", "s", "", "schema file (.yaml, .json or ROS1 .msg)")
	fs.StringVarP(&c.typeName, "type", "t", "", "record type name")
	fs.StringVar(&c.configPath, "config", "", "YAML file with codec options")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging to stderr")
}

// setup installs the logger and builds the compiler the command uses.
func (c *common) setup() (*codec.Compiler, error) {
	if c.verbose {
		l, err := newLogger()
		if err != nil {
			return nil, err
		}
		codec.SetLogger(l)
		rosmsg.SetLogger(l)
	}

	opts, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	return codec.NewCompiler(opts), nil
}

// newLogger returns a console logger on a terminal and JSON otherwise.
func newLogger() (*zap.Logger, error) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return cfg.Build()
}

func newFlagSet(name string, c *common) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	c.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bob %s [flags]\n\n", name)
		fs.PrintDefaults()
	}
	return fs
}

func requireFlags(c *common, needType bool) error {
	if c.schemaPath == "" {
		return fmt.Errorf("--schema is required")
	}
	if needType && c.typeName == "" {
		return fmt.Errorf("--type is required")
	}
	return nil
}
