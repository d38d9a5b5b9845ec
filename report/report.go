// Package report renders compiled layouts and bound instances as tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/structbuf/binding"
	"github.com/wippyai/structbuf/schema"
)

// Info describes a struct layout at a given offset. Key is the layout's
// canonical declaration key, which tells apart structs that share a name.
type Info struct {
	Name       string
	Key        string
	ByteOrder  string
	Fields     []FieldInfo
	Size       int
	Offset     int
	Endianness schema.Endianness
}

// FieldInfo describes one field. Offset is absolute: the owning struct's
// offset plus the field's offset within it.
type FieldInfo struct {
	Sub    *Info
	Name   string
	GoType string
	Dims   schema.Shape
	Offset int
	Size   int
	Count  int
	Kind   schema.Kind
}

// Describe reports l as if bound at offset 0. With includeSubs, struct
// fields carry the description of their first element.
func Describe(l *schema.Layout, includeSubs bool) Info {
	return describe(l, l.Endianness(), 0, includeSubs)
}

// DescribeInstance reports the layout of inst at its absolute offset and with
// its effective byte order.
func DescribeInstance(inst *binding.Instance, includeSubs bool) Info {
	return describe(inst.Layout(), inst.Endianness(), inst.Offset(), includeSubs)
}

func describe(l *schema.Layout, e schema.Endianness, offset int, includeSubs bool) Info {
	order := "big"
	if e.IsLittle() {
		order = "little"
	}
	info := Info{
		Name:       l.Name(),
		Key:        l.Key(),
		Endianness: e,
		ByteOrder:  order,
		Size:       l.Size(),
		Offset:     offset,
	}
	for _, f := range l.Fields() {
		fi := FieldInfo{
			Name:   f.Name,
			Offset: offset + f.Offset,
			Size:   f.Size,
			Kind:   f.Kind,
			Dims:   f.Dims(),
			Count:  f.Count(),
			GoType: goType(f),
		}
		if includeSubs && f.Kind == schema.KindStruct {
			sub := describe(f.Struct, e, offset+f.Offset, true)
			fi.Sub = &sub
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

// goType renders the Go value a field reads as, outermost dimension first.
func goType(f schema.Field) string {
	var b strings.Builder
	dims := f.Dims()
	for i := len(dims) - 1; i >= 0; i-- {
		b.WriteString("[" + strconv.Itoa(dims[i]) + "]")
	}
	switch f.Kind {
	case schema.KindStruct:
		b.WriteString(f.Struct.Name())
	case schema.KindText:
		fmt.Fprintf(&b, "string(%d)", f.Capacity())
	default:
		b.WriteString(f.Kind.GoType())
	}
	return b.String()
}

// Options controls rendering.
type Options struct {
	// Plain disables colors and uses ASCII borders.
	Plain bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	structStyle = cellStyle.
			Foreground(lipgloss.Color("#87CEEB"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var headers = []string{"Field", "Offset", "Size", "Kind", "Shape", "Go type"}

// Render draws info as a table. Each distinct nested layout described in info
// gets one table, in first-seen order, after the outer table.
func Render(info Info, opts Options) string {
	var b strings.Builder
	seen := make(map[string]bool)
	queue := []*Info{&info}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur.Key] {
			continue
		}
		seen[cur.Key] = true

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderOne(cur, opts))
		b.WriteString("\n")
		for i := range cur.Fields {
			if sub := cur.Fields[i].Sub; sub != nil {
				queue = append(queue, sub)
			}
		}
	}
	return b.String()
}

func renderOne(info *Info, opts Options) string {
	title := fmt.Sprintf("%s @%d  %d bytes  %s (%s)", info.Name, info.Offset, info.Size, info.Endianness, info.ByteOrder)

	rows := make([][]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		rows = append(rows, []string{
			f.Name,
			strconv.Itoa(f.Offset),
			strconv.Itoa(f.Size),
			f.Kind.String(),
			f.Dims.String(),
			f.GoType,
		})
	}

	t := table.New().Headers(headers...).Rows(rows...)
	if opts.Plain {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle })
		return title + "\n" + t.String()
	}

	t = t.Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(info.Fields) && info.Fields[row].Kind == schema.KindStruct:
				return structStyle
			default:
				return cellStyle
			}
		})
	return titleStyle.Render(title) + "\n" + t.String()
}
