// Package nef implements the NEO Executable Format (NEF3), the on-chain
// container for a compiled contract's bytecode, compiler identity and
// method token table.
package nef

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
)

const (
	// Magic is the fixed NEF3 magic number, the little-endian bytes of
	// "NEF3".
	Magic uint32 = 0x3346454E

	compilerFieldSize = 64
	// MaxScriptLength bounds the Script field to 512 KiB.
	MaxScriptLength = 512 * 1024
	checksumSize    = 4
)

// File is a parsed NEF3 container.
type File struct {
	Compiler     string
	MethodTokens []MethodToken
	Script       []byte
	Checksum     uint32
}

// NewFile builds a File from its contents and computes its checksum.
// compiler must encode to at most 64 UTF-8 bytes.
func NewFile(compiler string, script []byte, tokens []MethodToken) (*File, error) {
	if len(compiler) > compilerFieldSize {
		return nil, fmt.Errorf("compiler identifier exceeds %d bytes", compilerFieldSize)
	}
	if len(script) == 0 {
		return nil, errors.New("script can't be empty")
	}
	if len(script) > MaxScriptLength {
		return nil, fmt.Errorf("script exceeds the maximum length of %d bytes", MaxScriptLength)
	}
	f := &File{Compiler: compiler, MethodTokens: tokens, Script: script}
	f.Checksum = f.computeChecksum()
	return f, nil
}

// EncodeBinary implements io.Serializable.
func (f *File) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(Magic)
	w.WriteFixedString(f.Compiler, compilerFieldSize)
	w.WriteU16LE(0) // reserved
	writeMethodTokens(w, f.MethodTokens)
	w.WriteU16LE(0) // reserved
	w.WriteVarBytes(f.Script)
	var cs [4]byte
	putUint32LE(cs[:], f.Checksum)
	w.WriteBytes(cs[:])
}

// DecodeBinary implements io.Serializable. It verifies the magic number,
// the reserved fields, and the checksum.
func (f *File) DecodeBinary(r *io.BinReader) {
	magic := r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if magic != Magic {
		r.Err = errors.New("wrong magic number in NEF file")
		return
	}
	compilerBytes := make([]byte, compilerFieldSize)
	r.ReadBytes(compilerBytes)
	if r.Err != nil {
		return
	}
	f.Compiler = trimTrailingZero(compilerBytes)

	if reserved := r.ReadU16LE(); reserved != 0 {
		r.Err = errors.New("reserved bytes before method tokens must be 0")
		return
	}
	f.MethodTokens = readMethodTokens(r)
	if r.Err != nil {
		return
	}
	if reserved := r.ReadU16LE(); reserved != 0 {
		r.Err = errors.New("reserved bytes before script must be 0")
		return
	}
	f.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(f.Script) == 0 {
		r.Err = errors.New("script can't be empty in NEF file")
		return
	}
	csBytes := make([]byte, checksumSize)
	r.ReadBytes(csBytes)
	if r.Err != nil {
		return
	}
	f.Checksum = uint32(csBytes[0]) | uint32(csBytes[1])<<8 | uint32(csBytes[2])<<16 | uint32(csBytes[3])<<24

	if want := f.computeChecksum(); f.Checksum != want {
		r.Err = errors.New("NEF file checksum mismatch")
		return
	}
}

// Bytes serializes the file.
func (f *File) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	f.EncodeBinary(w.BinWriter)
	return w.Bytes(), w.Err
}

// FileFromBytes parses and validates a NEF file.
func FileFromBytes(b []byte) (*File, error) {
	r := io.NewBinReaderFromBuf(b)
	f := new(File)
	f.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return f, nil
}

// computeChecksum returns the first 4 bytes of the double-SHA256 of the
// file's serialization up to (excluding) the checksum field.
func (f *File) computeChecksum() uint32 {
	w := io.NewBufBinWriter()
	w.WriteU32LE(Magic)
	w.WriteFixedString(f.Compiler, compilerFieldSize)
	w.WriteU16LE(0)
	writeMethodTokens(w.BinWriter, f.MethodTokens)
	w.WriteU16LE(0)
	w.WriteVarBytes(f.Script)
	return hash.ChecksumUint32(w.Bytes())
}

func writeMethodTokens(w *io.BinWriter, tokens []MethodToken) {
	w.WriteVarUint(uint64(len(tokens)))
	for i := range tokens {
		tokens[i].EncodeBinary(w)
	}
}

func readMethodTokens(r *io.BinReader) []MethodToken {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	out := make([]MethodToken, n)
	for i := range out {
		out[i].DecodeBinary(r)
		if r.Err != nil {
			return out
		}
	}
	return out
}

func trimTrailingZero(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return string(b[:i])
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
