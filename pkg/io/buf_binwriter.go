package io

import "bytes"

// BufBinWriter is a BinWriter that writes to an internal byte buffer so that
// the result can be extracted once writing is done, without the caller
// having to manage a bytes.Buffer directly.
type BufBinWriter struct {
	*BinWriter
	buf *bytes.Buffer
}

// NewBufBinWriter creates a new BufBinWriter.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	return &BufBinWriter{
		BinWriter: NewBinWriterFromIO(b),
		buf:       b,
	}
}

// Bytes returns the bytes written so far. The BufBinWriter shouldn't be used
// after this call unless Reset is called first.
func (w *BufBinWriter) Bytes() []byte {
	if w.Err != nil {
		return nil
	}
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *BufBinWriter) Len() int {
	return w.buf.Len()
}

// Reset resets the buffer and error, allowing the writer to be reused.
func (w *BufBinWriter) Reset() {
	w.Err = nil
	w.buf.Reset()
}
