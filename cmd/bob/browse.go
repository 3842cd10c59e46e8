package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/bobject"
	"github.com/wippyai/bobject/codec"
	"github.com/wippyai/bobject/schema"
)

func runBrowse(args []string) error {
	var (
		c         common
		inputPath string
	)
	fs := newFlagSet("browse", &c)
	fs.StringVarP(&inputPath, "input", "i", "", "input file with JSON values (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(&c, true); err != nil {
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
	values, err := readInputValues(inputPath)
	if err != nil {
		return err
	}
	block, err := p.Encode(c.typeName, values...)
	if err != nil {
		return err
	}
	msgs, err := p.DecodeBlock(block)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(newBrowseModel(c.schemaPath, p, msgs), tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

// frame is one level of the browse path. value is a []bobject.Accessor at
// the root, then an Accessor or an ArrayView.
type frame struct {
	label    string
	value    any
	selected int
}

// row is one line of the current frame.
type row struct {
	name     string
	typ      string
	preview  string
	child    any
	field    *schema.Field
	editable bool
	err      error
}

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
)

type browseModel struct {
	prog     *codec.Program
	filename string
	status   string
	stack    []frame
	input    textinput.Model
	state    modelState
}

func newBrowseModel(filename string, p *codec.Program, msgs []bobject.Accessor) *browseModel {
	return &browseModel{
		prog:     p,
		filename: filename,
		stack:    []frame{{label: "messages", value: msgs}},
		state:    stateBrowse,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) top() *frame {
	return &m.stack[len(m.stack)-1]
}

func (m *browseModel) rows() []row {
	return rowsOf(m.top().value)
}

func rowsOf(v any) []row {
	switch x := v.(type) {
	case []bobject.Accessor:
		rows := make([]row, len(x))
		for i, a := range x {
			rows[i] = row{name: "[" + strconv.Itoa(i) + "]", typ: a.TypeName(), preview: "{...}", child: a}
		}
		return rows

	case bobject.Accessor:
		fields := x.Fields()
		rows := make([]row, 0, len(fields))
		for i := range fields {
			f := &fields[i]
			val, err := x.GetWide(f.Name)
			r := row{name: f.Name, typ: fieldType(f), field: f, err: err}
			if err == nil {
				r.preview, r.child = preview(val)
				r.editable = !f.IsConstant && !f.IsArray && schema.IsPrimitive(f.Type)
			}
			rows = append(rows, r)
		}
		return rows

	case bobject.ArrayView:
		rows := make([]row, x.Len())
		for i := range rows {
			val, err := x.AtWide(i)
			rows[i] = row{name: "[" + strconv.Itoa(i) + "]", typ: x.ElemType(), err: err}
			if err == nil {
				rows[i].preview, rows[i].child = preview(val)
			}
		}
		return rows
	}
	return nil
}

func fieldType(f *schema.Field) string {
	switch {
	case f.IsFixedArray():
		return f.Type + "[" + strconv.Itoa(*f.ArrayLength) + "]"
	case f.IsArray:
		return f.Type + "[]"
	case f.IsConstant:
		return "const " + f.Type
	}
	return f.Type
}

// preview renders a short value and reports whether it can be entered.
func preview(v any) (string, any) {
	switch x := v.(type) {
	case bobject.Accessor:
		return "{...}", x
	case bobject.ArrayView:
		return "[" + strconv.Itoa(x.Len()) + " items]", x
	case []byte:
		return fmt.Sprintf("%d bytes % x", len(x), truncateBytes(x)), nil
	case []int8:
		return fmt.Sprintf("%d int8 %v", len(x), x[:min(len(x), 8)]), nil
	case string:
		return strconv.Quote(x), nil
	case nil:
		return "null", nil
	}
	if data, err := json.Marshal(v); err == nil {
		return string(data), nil
	}
	return fmt.Sprint(v), nil
}

func truncateBytes(b []byte) []byte {
	return b[:min(len(b), 8)]
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateEdit {
		return m.updateEdit(key)
	}

	rows := m.rows()
	fr := m.top()
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if fr.selected > 0 {
			fr.selected--
		}

	case "down", "j":
		if fr.selected < len(rows)-1 {
			fr.selected++
		}

	case "enter", "right", "l":
		if fr.selected < len(rows) && rows[fr.selected].child != nil {
			r := rows[fr.selected]
			m.stack = append(m.stack, frame{label: r.name, value: r.child})
			m.status = ""
		}

	case "esc", "backspace", "left", "h":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.status = ""
		}

	case "e":
		if fr.selected < len(rows) && rows[fr.selected].editable {
			r := rows[fr.selected]
			ti := textinput.New()
			ti.Prompt = r.name + ": "
			ti.Placeholder = r.typ
			ti.Width = 40
			switch text, err := strconv.Unquote(r.preview); {
			case err == nil:
				ti.SetValue(text)
			case r.preview != "null":
				ti.SetValue(r.preview)
			}
			ti.Focus()
			m.input = ti
			m.state = stateEdit
		}
	}
	return m, nil
}

func (m *browseModel) updateEdit(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateBrowse
		return m, nil
	case "enter":
		m.state = stateBrowse
		if err := m.applyEdit(m.input.Value()); err != nil {
			m.status = errorStyle.Render("Error: " + err.Error())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// applyEdit overlays the selected field with text and replaces the
// accessors on the path up to the nearest array or the message list.
func (m *browseModel) applyEdit(text string) error {
	fr := m.top()
	a, ok := fr.value.(bobject.Accessor)
	if !ok {
		return fmt.Errorf("not a record")
	}
	r := m.rows()[fr.selected]
	val, err := parseValue(text, r.field.Type)
	if err != nil {
		return err
	}

	updated, err := codec.Overlay(a, map[string]any{r.field.Name: val})
	if err != nil {
		return err
	}
	fr.value = updated

	for i := len(m.stack) - 2; i >= 0; i-- {
		parent := &m.stack[i]
		child := m.stack[i+1]
		switch pv := parent.value.(type) {
		case bobject.Accessor:
			updated, err = codec.Overlay(pv, map[string]any{child.label: updated})
			if err != nil {
				return err
			}
			parent.value = updated
		case []bobject.Accessor:
			msgs := append([]bobject.Accessor(nil), pv...)
			msgs[parent.selected] = updated
			parent.value = msgs
			m.status = valueStyle.Render("updated " + r.field.Name)
			return nil
		default:
			m.status = helpStyle.Render("updated " + r.field.Name + " (array elements keep their own copy)")
			return nil
		}
	}
	m.status = valueStyle.Render("updated " + r.field.Name)
	return nil
}

// parseValue converts edit text to a plain value for a field of typ.
func parseValue(text, typ string) (any, error) {
	switch schema.Canonical(typ) {
	case schema.String:
		return text, nil
	case schema.JSON:
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return v, nil
	case schema.Bool:
		return strconv.ParseBool(text)
	case schema.Float32, schema.Float64:
		return strconv.ParseFloat(text, 64)
	case schema.Uint8, schema.Uint16, schema.Uint32, schema.Uint64:
		return strconv.ParseUint(text, 10, 64)
	default:
		return strconv.ParseInt(text, 10, 64)
	}
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("bob browse"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(m.prog.Fingerprint().Short()))
	b.WriteString("\n")

	labels := make([]string, len(m.stack))
	for i, f := range m.stack {
		labels[i] = f.label
	}
	b.WriteString(typeStyle.Render(strings.Join(labels, " > ")))
	b.WriteString("\n\n")

	fr := m.top()
	for i, r := range m.rows() {
		line := fmt.Sprintf("%-20s %-24s ", r.name, r.typ)
		value := r.preview
		if r.err != nil {
			value = errorStyle.Render(r.err.Error())
		}
		if i == fr.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + fieldStyle.Render(line))
		}
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state == stateEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
		return b.String()
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • esc back • e edit • q quit"))
	return b.String()
}
