package buffer

import (
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"

	sberrors "github.com/wippyai/structbuf/errors"
)

// memoryModule is a module that defines and exports one page of memory as
// "memory" and nothing else.
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export memory 0
}

func TestWasmMemory(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, memoryModule)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	mem := mod.Memory()
	w := Wasm(mem)

	if w.Len() != 65536 {
		t.Errorf("Len = %d, want one page", w.Len())
	}
	if !w.Writable() {
		t.Error("linear memory should be writable")
	}

	view, err := w.Bytes(100, 4)
	if err != nil {
		t.Fatal(err)
	}
	copy(view, []byte{1, 2, 3, 4})
	if v, ok := mem.ReadUint32Le(100); !ok || v != 0x04030201 {
		t.Errorf("guest sees %#x, %v", v, ok)
	}

	if _, err := w.Bytes(65534, 4); !errors.Is(err, sberrors.ErrOutOfBounds) {
		t.Errorf("got %v, want out of bounds", err)
	}
}
