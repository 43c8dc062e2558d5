package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// maxArraySize is the maximum size of a List<T> that can be decoded absent a
// caller-supplied, tighter bound.
const maxArraySize = 0x1000000

// BinReader is a convenient wrapper around an io.Reader and an error value.
// It's used to simplify error handling when reading a struct with many
// fields: every Read* method is a no-op once Err is set, so a decoder can
// chain calls and check Err exactly once at the end.
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReaderFromIO makes a BinReader from an io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from a byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

// ReadU64LE reads a little-endian uint64 from the underlying reader.
func (r *BinReader) ReadU64LE() uint64 {
	var v uint64
	r.readLE(&v)
	return v
}

// ReadU32LE reads a little-endian uint32 from the underlying reader.
func (r *BinReader) ReadU32LE() uint32 {
	var v uint32
	r.readLE(&v)
	return v
}

// ReadU16LE reads a little-endian uint16 from the underlying reader.
func (r *BinReader) ReadU16LE() uint16 {
	var v uint16
	r.readLE(&v)
	return v
}

// ReadI64LE reads a little-endian int64 from the underlying reader.
func (r *BinReader) ReadI64LE() int64 {
	var v int64
	r.readLE(&v)
	return v
}

// ReadB reads a single byte from the underlying reader.
func (r *BinReader) ReadB() byte {
	if r.Err != nil {
		return 0
	}
	var b [1]byte
	_, r.Err = io.ReadFull(r.r, b[:])
	return b[0]
}

// ReadBool reads a byte and interprets it as a boolean (non-zero is true).
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

func (r *BinReader) readLE(v interface{}) {
	if r.Err != nil {
		return
	}
	r.Err = binary.Read(r.r, binary.LittleEndian, v)
}

// ReadBytes reads exactly len(b) bytes into b.
func (r *BinReader) ReadBytes(b []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, b)
}

// ReadVarUint reads a variable-length-encoded unsigned integer: values below
// 0xFD are stored as a single byte, 0xFD/0xFE/0xFF prefix a following
// u16/u32/u64.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}
	b := r.ReadB()
	switch b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a varint-prefixed byte slice, bounded by maxSize (or
// maxArraySize if not given).
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	ms := maxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(ms) {
		r.Err = fmt.Errorf("byte array exceeds the limit of %d", ms)
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	return b
}

// ReadString reads a varbytes-prefixed UTF-8 string, bounded by maxSize.
func (r *BinReader) ReadString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

// ReadArray reads a List<T> into dst, which must be a pointer to a slice of
// a type implementing Serializable (or a pointer to one). fn constructs a
// fresh element and is called once per entry before it is decoded; this
// keeps ReadArray allocation-free of reflection at the cost of an explicit
// constructor, matching Go's lack of generic methods.
func ReadArray[T decodable](r *BinReader, newElem func() T, maxSize ...int) []T {
	ms := maxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(ms) {
		r.Err = fmt.Errorf("array is too big (%d)", n)
		return nil
	}
	out := make([]T, n)
	for i := range out {
		out[i] = newElem()
		out[i].DecodeBinary(r)
		if r.Err != nil {
			return out
		}
	}
	return out
}
