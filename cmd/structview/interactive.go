package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/wippyai/structbuf/binding"
	"github.com/wippyai/structbuf/buffer"
	"github.com/wippyai/structbuf/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxValueWidth = 48

// frame is one level of the struct tree being browsed.
type frame struct {
	inst   *binding.Instance
	label  string
	cursor int
}

type interactiveModel struct {
	err      error
	filename string
	stack    []frame
	table    table.Model
}

func newInteractiveModel(inst *binding.Instance, filename string) *interactiveModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Field", Width: 16},
			{Title: "Kind", Width: 8},
			{Title: "Offset", Width: 8},
			{Title: "Value", Width: maxValueWidth},
		}),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#666666")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Bold(false)
	t.SetStyles(s)

	m := &interactiveModel{
		filename: filename,
		table:    t,
		stack:    []frame{{inst: inst, label: inst.Layout().Name()}},
	}
	m.refresh()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) current() *frame {
	return &m.stack[len(m.stack)-1]
}

// refresh rebuilds the rows of the current frame.
func (m *interactiveModel) refresh() {
	inst := m.current().inst
	rows := make([]table.Row, 0, inst.Layout().NumFields())
	for _, f := range inst.Layout().Fields() {
		var value string
		if v, err := inst.Read(f.Name); err != nil {
			value = "error: " + err.Error()
		} else {
			value = formatValue(v)
		}
		rows = append(rows, table.Row{
			f.Name,
			f.Kind.String(),
			strconv.Itoa(inst.Offset() + f.Offset),
			truncate(value, maxValueWidth),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(m.current().cursor)
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "enter":
			m.descend()
			return m, nil

		case "backspace", "esc":
			if len(m.stack) > 1 {
				m.stack = m.stack[:len(m.stack)-1]
				m.err = nil
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.current().cursor = m.table.Cursor()
	return m, cmd
}

// descend enters the selected struct field, or the first element of an array
// of structs.
func (m *interactiveModel) descend() {
	cur := m.current()
	fields := cur.inst.Layout().Fields()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(fields) {
		return
	}
	f := fields[idx]
	if f.Kind != schema.KindStruct {
		return
	}

	zeros := make([]int, len(f.Dims()))
	sub, err := cur.inst.Sub(f.Name, zeros...)
	if err != nil {
		m.err = err
		return
	}
	cur.cursor = idx
	label := f.Name
	for range zeros {
		label += "[0]"
	}
	m.stack = append(m.stack, frame{inst: sub, label: label})
	m.err = nil
	m.refresh()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Struct Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	labels := make([]string, len(m.stack))
	for i, f := range m.stack {
		labels[i] = f.label
	}
	cur := m.current().inst
	b.WriteString(pathStyle.Render(strings.Join(labels, ".")))
	b.WriteString(fmt.Sprintf("  %d bytes @%d, %s\n\n", cur.Layout().Size(), cur.Offset(), cur.Endianness()))

	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open struct • backspace up • q quit"))
	return b.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case *binding.Instance:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case []byte:
		return strconv.Quote(string(v))
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// truncate cuts s to n terminal cells, rune- and escape-aware.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}

func runInteractive(opts options) error {
	l, err := loadLayout(opts)
	if err != nil {
		return err
	}
	if opts.dataFile == "" {
		return fmt.Errorf("interactive mode needs -data")
	}
	m, err := buffer.Map(opts.dataFile, 0, false)
	if err != nil {
		return err
	}
	defer m.Close()

	inst, err := bind(l, m, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newInteractiveModel(inst, opts.dataFile), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
