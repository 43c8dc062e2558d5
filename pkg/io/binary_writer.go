package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// BinWriter is a convenient wrapper around an io.Writer and an error value,
// mirroring BinReader: every Write* method is a no-op once Err is set.
type BinWriter struct {
	w  io.Writer
	uv [9]byte

	Err error
}

// NewBinWriterFromIO makes a BinWriter from an io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// WriteU64LE writes u64 in little-endian form.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	binary.LittleEndian.PutUint64(w.uv[:8], u64)
	w.WriteBytes(w.uv[:8])
}

// WriteU32LE writes u32 in little-endian form.
func (w *BinWriter) WriteU32LE(u32 uint32) {
	binary.LittleEndian.PutUint32(w.uv[:4], u32)
	w.WriteBytes(w.uv[:4])
}

// WriteU16LE writes u16 in little-endian form.
func (w *BinWriter) WriteU16LE(u16 uint16) {
	binary.LittleEndian.PutUint16(w.uv[:2], u16)
	w.WriteBytes(w.uv[:2])
}

// WriteI64LE writes i64 in little-endian form.
func (w *BinWriter) WriteI64LE(i64 int64) {
	w.WriteU64LE(uint64(i64))
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(u8 byte) {
	w.uv[0] = u8
	w.WriteBytes(w.uv[:1])
}

// WriteBool writes a boolean as a single byte, 0 or 1.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteBytes writes b as-is, with no length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.w.Write(b)
}

// PutVarUint encodes val into data (which must have capacity for at least 9
// bytes) in the shortest valid varint form and returns the number of bytes
// written.
func PutVarUint(data []byte, val uint64) int {
	_ = data[8]
	switch {
	case val < 0xfd:
		data[0] = byte(val)
		return 1
	case val <= 0xffff:
		data[0] = 0xfd
		binary.LittleEndian.PutUint16(data[1:], uint16(val))
		return 3
	case val <= 0xffffffff:
		data[0] = 0xfe
		binary.LittleEndian.PutUint32(data[1:], uint32(val))
		return 5
	default:
		data[0] = 0xff
		binary.LittleEndian.PutUint64(data[1:], val)
		return 9
	}
}

// WriteVarUint writes val using the shortest valid variable-length encoding.
func (w *BinWriter) WriteVarUint(val uint64) {
	if w.Err != nil {
		return
	}
	n := PutVarUint(w.uv[:], val)
	w.WriteBytes(w.uv[:n])
}

// WriteVarBytes writes a varint length prefix followed by b.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s as varbytes-prefixed UTF-8.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteFixedString writes s as UTF-8 padded with zero bytes to exactly n
// bytes. It fails (sets Err) if the UTF-8 encoding of s is longer than n.
func (w *BinWriter) WriteFixedString(s string, n int) {
	if w.Err != nil {
		return
	}
	b := []byte(s)
	if len(b) > n {
		w.Err = fmt.Errorf("fixed-width string overflow: %d bytes does not fit in %d", len(b), n)
		return
	}
	buf := make([]byte, n)
	copy(buf, b)
	w.WriteBytes(buf)
}

// WriteArray writes a List<T>: a varint count followed by each element's
// EncodeBinary.
func WriteArray[T encodable](w *BinWriter, arr []T) {
	w.WriteVarUint(uint64(len(arr)))
	for _, el := range arr {
		el.EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}

// Grow tries to increase the underlying buffer's capacity so that at least n
// more bytes can be written without reallocation. No-op if the writer isn't
// backed by a bytes.Buffer.
func (w *BinWriter) Grow(n int) {
	if b, ok := w.w.(*bytes.Buffer); ok {
		b.Grow(n)
	}
}
