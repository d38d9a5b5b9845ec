package structbuf

// Buffer is an externally owned, contiguous byte region a layout can be bound to.
type Buffer interface {
	// Len returns the size of the region in bytes.
	Len() int
	// Bytes returns a view of length bytes starting at offset. The view aliases
	// the region: writes through it are visible to every holder of the region.
	Bytes(offset, length int) ([]byte, error)
	// Writable reports whether the accessor may write through views.
	Writable() bool
}

// Closer is implemented by providers that hold OS resources (mappings, descriptors).
type Closer interface {
	Close() error
}
