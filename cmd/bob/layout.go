package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// styler renders through lipgloss on a terminal and as plain text
// otherwise.
type styler bool

func newStyler(w io.Writer) styler {
	f, ok := w.(*os.File)
	return styler(ok && term.IsTerminal(int(f.Fd())))
}

func (s styler) render(st lipgloss.Style, text string) string {
	if !s {
		return text
	}
	return st.Render(text)
}

func runLayout(args []string) error {
	var c common
	fs := newFlagSet("layout", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(&c, false); err != nil {
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

	names := p.TypeNames()
	if c.typeName != "" {
		names, err = schema.Closure(p.Schema(), c.typeName)
		if err != nil {
			return err
		}
	}
	return printLayouts(os.Stdout, p, names)
}

func printLayouts(w io.Writer, p *codec.Program, names []string) error {
	st := newStyler(w)
	fmt.Fprintf(w, "schema %s\n\n", p.Fingerprint().Short())
	for _, name := range names {
		l, err := p.Layout(name)
		if err != nil {
			return err
		}
		fmt.Fprint(w, formatLayout(st, l))
		fmt.Fprintln(w)
	}
	return nil
}

func formatLayout(st styler, l codec.RecordLayout) string {
	var b strings.Builder
	b.WriteString(st.render(titleStyle, l.Name))
	fmt.Fprintf(&b, " %d bytes", l.Size)
	if l.Ident != l.Name {
		b.WriteString(" ident=" + l.Ident)
	}
	if l.Flat {
		b.WriteString(" flat")
	}
	b.WriteByte('\n')

	for _, f := range l.Fields {
		typ := f.Type
		if f.IsArray {
			if f.FixedLen >= 0 {
				typ += "[" + strconv.Itoa(f.FixedLen) + "]"
			} else {
				typ += "[]"
			}
		}
		where := fmt.Sprintf("@%-4d %3d", f.Offset, f.Size)
		if f.IsConstant {
			where = "const    "
		}
		fmt.Fprintf(&b, "  %s  %s %s\n",
			where,
			st.render(fieldStyle, fmt.Sprintf("%-20s", f.Name)),
			st.render(typeStyle, typ))
	}
	return b.String()
}
