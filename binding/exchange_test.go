package binding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/structbuf/buffer"
	sberrors "github.com/wippyai/structbuf/errors"
	"github.com/wippyai/structbuf/schema"
)

func TestRawBytesAliases(t *testing.T) {
	data := make([]byte, 12)
	inst := mustBind(t, pointLayout(t), data, WithOffset(2))

	raw, err := inst.RawBytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 8 {
		t.Fatalf("len = %d, want 8", len(raw))
	}
	raw[0] = 5
	if x, _ := Get[int32](inst, "x"); x != 5 {
		t.Errorf("write through RawBytes not visible: x = %d", x)
	}
	if data[2] != 5 {
		t.Errorf("RawBytes does not alias the buffer: %v", data)
	}
}

func TestClear(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 10)
	inst := mustBind(t, pointLayout(t), data, WithOffset(1))
	if err := inst.Clear(); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0xAA}, make([]byte, 8)...)
	want = append(want, 0xAA)
	if !bytes.Equal(data, want) {
		t.Errorf("after Clear: %x", data)
	}
}

func TestFillFrom(t *testing.T) {
	src := mustBind(t, pathLayout(t), make([]byte, 17))
	if err := src.FillFromMap(map[string]any{
		"n":   3,
		"pts": []any{map[string]any{"x": 1, "y": 2}, map[string]any{"x": -3, "y": 4}},
	}, false); err != nil {
		t.Fatal(err)
	}

	// compiled separately, same declaration
	other := schema.NewCompiler()
	point, err := schema.New("Point", schema.Little).
		Field("x", schema.KindS32).
		Field("y", schema.KindS32).
		CompileWith(other)
	if err != nil {
		t.Fatal(err)
	}
	path, err := schema.New("Path", schema.Little).
		Field("n", schema.KindU8).
		Struct("pts", point, 2).
		CompileWith(other)
	if err != nil {
		t.Fatal(err)
	}

	dstData := bytes.Repeat([]byte{0xFF}, 20)
	dst := mustBind(t, path, dstData, WithOffset(3))
	if err := dst.FillFrom(src); err != nil {
		t.Fatalf("FillFrom: %v", err)
	}
	srcRaw, _ := src.RawBytes()
	dstRaw, _ := dst.RawBytes()
	if !bytes.Equal(srcRaw, dstRaw) {
		t.Errorf("bytes differ:\nsrc %x\ndst %x", srcRaw, dstRaw)
	}
	if !bytes.Equal(dstData[:3], []byte{0xFF, 0xFF, 0xFF}) {
		t.Errorf("FillFrom wrote outside the instance: %x", dstData)
	}

	t.Run("layout mismatch", func(t *testing.T) {
		p := mustBind(t, pointLayout(t), make([]byte, 8))
		if err := p.FillFrom(src); !errors.Is(err, sberrors.ErrTypeMismatch) {
			t.Errorf("got %v", err)
		}
	})
	t.Run("byte order mismatch", func(t *testing.T) {
		big := mustBind(t, pathLayout(t), make([]byte, 17), WithEndianness(schema.Big))
		if err := big.FillFrom(src); !errors.Is(err, sberrors.ErrTypeMismatch) {
			t.Errorf("got %v", err)
		}
	})
	t.Run("read-only destination", func(t *testing.T) {
		ro, err := Bind(pathLayout(t), buffer.ReadOnly(make([]byte, 17)))
		if err != nil {
			t.Fatal(err)
		}
		if err := ro.FillFrom(src); !errors.Is(err, sberrors.ErrImmutableBuffer) {
			t.Errorf("got %v", err)
		}
	})
}

func TestToMap(t *testing.T) {
	l := mustCompile(t, schema.New("Rec", schema.Little).
		Field("id", schema.KindU16).
		Text("name", 4).
		Field("m", schema.KindU8, 2, 2).
		Struct("pts", pointLayout(t), 2))
	data := []byte{
		7, 0,
		'a', 'b', 0, 0,
		1, 2, 3, 4,
		1, 0, 0, 0, 2, 0, 0, 0,
		3, 0, 0, 0, 4, 0, 0, 0,
	}
	inst := mustBind(t, l, data)

	got, err := inst.ToMap()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"id":   uint16(7),
		"name": "ab",
		"m":    []any{[]any{uint8(1), uint8(2)}, []any{uint8(3), uint8(4)}},
		"pts": []any{
			map[string]any{"x": int32(1), "y": int32(2)},
			map[string]any{"x": int32(3), "y": int32(4)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToMap mismatch (-want +got):\n%s", diff)
	}

	// the map form writes back to identical bytes
	copyData := make([]byte, len(data))
	dst := mustBind(t, l, copyData)
	if err := dst.FillFromMap(got, true); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(copyData, data) {
		t.Errorf("round trip through map:\n got %v\nwant %v", copyData, data)
	}
}

func TestFillFromMap(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		data := make([]byte, 17)
		inst := mustBind(t, pathLayout(t), data)
		if err := inst.Write("n", 9); err != nil {
			t.Fatal(err)
		}
		err := inst.FillFromMap(map[string]any{
			"pts":     []any{map[string]any{"x": 1}, map[string]any{"y": 2}},
			"ignored": "unknown keys are skipped",
		}, false)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := inst.ToMap()
		want := map[string]any{
			"n": uint8(9),
			"pts": []any{
				map[string]any{"x": int32(1), "y": int32(0)},
				map[string]any{"x": int32(0), "y": int32(2)},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("clear unset", func(t *testing.T) {
		data := bytes.Repeat([]byte{0x11}, 17)
		inst := mustBind(t, pathLayout(t), data)
		if err := inst.FillFromMap(map[string]any{"n": 1}, true); err != nil {
			t.Fatal(err)
		}
		want := append([]byte{1}, make([]byte, 16)...)
		if !bytes.Equal(data, want) {
			t.Errorf("bytes = %v", data)
		}
	})

	tests := []struct {
		m    map[string]any
		want error
		name string
	}{
		{
			name: "bad nested value",
			m: map[string]any{
				"n":   5,
				"pts": []any{map[string]any{"x": 1}, map[string]any{"x": "bad"}},
			},
			want: sberrors.ErrTypeMismatch,
		},
		{
			name: "struct value not a map",
			m:    map[string]any{"n": 5, "pts": []any{map[string]any{}, 3}},
			want: sberrors.ErrTypeMismatch,
		},
		{
			name: "wrong struct array length",
			m:    map[string]any{"pts": []any{map[string]any{}}},
			want: sberrors.ErrDimension,
		},
		{
			name: "scalar out of range",
			m:    map[string]any{"n": 256},
			want: sberrors.ErrRange,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0x11}, 17)
			inst := mustBind(t, pathLayout(t), data)
			err := inst.FillFromMap(tc.m, true)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if !bytes.Equal(data, bytes.Repeat([]byte{0x11}, 17)) {
				t.Errorf("failed fill changed bytes: %v", data)
			}
		})
	}
}

func TestToYAML(t *testing.T) {
	l := mustCompile(t, schema.New("Rec", schema.Little).
		Field("id", schema.KindU16).
		Field("c", schema.KindChar).
		Text("name", 4).
		Field("v", schema.KindF32, 2).
		Struct("at", pointLayout(t)))
	inst := mustBind(t, l, make([]byte, l.Size()))
	err := inst.FillFromMap(map[string]any{
		"id":   1,
		"c":    []byte("q"),
		"name": "ab",
		"v":    []float32{0.5, 2.5},
		"at":   map[string]any{"x": -1, "y": 3},
	}, false)
	if err != nil {
		t.Fatal(err)
	}

	node, err := inst.ToYAML()
	if err != nil {
		t.Fatal(err)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		t.Fatal(err)
	}
	want := "id: 1\nc: q\nname: ab\nv: [0.5, 2.5]\nat:\n    x: -1\n    y: 3\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}
