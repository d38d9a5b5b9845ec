package buffer

import (
	"github.com/tetratelabs/wazero/api"

	structbuf "github.com/wippyai/structbuf"
	"github.com/wippyai/structbuf/errors"
)

// WasmMemory is a Buffer over WebAssembly linear memory. Views come straight
// from wazero and alias the guest memory; a memory.grow may move the backing
// array, so views are only valid until the guest runs again.
type WasmMemory struct {
	mem api.Memory
}

// Wasm wraps a wazero memory, typically api.Module.Memory().
func Wasm(mem api.Memory) *WasmMemory {
	return &WasmMemory{mem: mem}
}

func (w *WasmMemory) Len() int {
	if w.mem == nil {
		return 0
	}
	return int(w.mem.Size())
}

func (w *WasmMemory) Bytes(offset, length int) ([]byte, error) {
	size := w.Len()
	if err := checkRange(offset, length, size); err != nil {
		return nil, err
	}
	data, ok := w.mem.Read(uint32(offset), uint32(length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, offset, length, size)
	}
	return data, nil
}

func (w *WasmMemory) Writable() bool { return true }

var _ structbuf.Buffer = (*WasmMemory)(nil)
