// Package writer exposes sinks for serialized tree dumps.
package writer

// Sink receives a complete serialized dump.
type Sink interface {
	WriteDump(buf []byte) error
}

// MemWriter captures dump bytes in memory.
type MemWriter struct {
	Buf []byte
}

// WriteDump replaces the captured buffer with a copy of buf.
func (w *MemWriter) WriteDump(buf []byte) error {
	w.Buf = append(w.Buf[:0], buf...)
	return nil
}
