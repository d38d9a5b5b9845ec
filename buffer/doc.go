// Package buffer provides structbuf.Buffer implementations over the memory
// regions a layout is usually bound to: Go byte slices, memory-mapped files,
// shared-memory segments and WebAssembly linear memory.
//
// Every provider hands out views that alias its storage. None of them copies
// or owns data on behalf of a binding; closing or unmapping a provider is the
// caller's responsibility, after detaching the instances bound to it.
package buffer
