// Package emit provides low-level helpers for writing NeoVM bytecode
// instructions to a binary stream. It is used both by the interactive
// script builder and by the compiler's code generator.
package emit

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/opcode"
)

// InteropNameToID computes the 4-byte interop method ID NeoVM's SYSCALL
// instruction addresses, the first 4 bytes of SHA-256(name).
func InteropNameToID(name []byte) uint32 {
	h := sha256.Sum256(name)
	return binary.LittleEndian.Uint32(h[:4])
}

// Instruction writes an opcode followed by a raw operand.
func Instruction(w *io.BinWriter, op opcode.Opcode, operand []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(operand)
}

// Opcode writes a bare opcode with no operand.
func Opcode(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool emits PUSHT or PUSHF.
func Bool(w *io.BinWriter, b bool) {
	if b {
		Opcode(w, opcode.PUSHT)
	} else {
		Opcode(w, opcode.PUSHF)
	}
}

// Int emits the shortest PUSHINT* form (or PUSHM1/PUSH0-16 for small
// values) that represents the given integer, using two's-complement,
// little-endian encoding sized to 1, 2, 4, 8, 16 or 32 bytes.
func Int(w *io.BinWriter, n int64) {
	BigInt(w, big.NewInt(n))
}

// BigInt emits a minimal-width PUSHINT* (falling back to PUSH0-16/PUSHM1
// for small values) that pushes the given arbitrary-precision integer.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() {
		v := n.Int64()
		if v >= -1 && v <= 16 {
			if v == -1 {
				Opcode(w, opcode.PUSHM1)
			} else {
				Opcode(w, opcode.Opcode(int(opcode.PUSH0)+int(v)))
			}
			return
		}
	}
	b := bigIntBytes(n)
	switch {
	case len(b) <= 1:
		Instruction(w, opcode.PUSHINT8, pad(b, 1))
	case len(b) <= 2:
		Instruction(w, opcode.PUSHINT16, pad(b, 2))
	case len(b) <= 4:
		Instruction(w, opcode.PUSHINT32, pad(b, 4))
	case len(b) <= 8:
		Instruction(w, opcode.PUSHINT64, pad(b, 8))
	case len(b) <= 16:
		Instruction(w, opcode.PUSHINT128, pad(b, 16))
	case len(b) <= 32:
		Instruction(w, opcode.PUSHINT256, pad(b, 32))
	default:
		w.Err = errTooBig
	}
}

var errTooBig = errIntTooBig{}

type errIntTooBig struct{}

func (errIntTooBig) Error() string { return "integer does not fit into 256 bits" }

// bigIntBytes returns the minimal little-endian two's-complement
// representation of n.
func bigIntBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	size := n.BitLen()/8 + 1
	b := make([]byte, size)
	if n.Sign() < 0 {
		m := new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), uint(size*8)))
		bs := m.Bytes()
		copy(b[size-len(bs):], bs)
	} else {
		bs := n.Bytes()
		copy(b[size-len(bs):], bs)
	}
	reverse(b)
	return trimSign(b)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// trimSign drops redundant most-significant (last, little-endian) bytes
// that only restate the sign of the preceding byte.
func trimSign(b []byte) []byte {
	for len(b) > 1 {
		last, prev := b[len(b)-1], b[len(b)-2]
		if (last == 0x00 && prev < 0x80) || (last == 0xff && prev >= 0x80) {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}

func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		for i := len(b); i < n; i++ {
			out[i] = 0xff
		}
	}
	return out
}

// String emits a PUSHDATA of the UTF-8 encoding of s.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits the shortest PUSHDATA1/2/4 form for b.
func Bytes(w *io.BinWriter, b []byte) {
	var ln [4]byte
	switch {
	case len(b) < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(len(b))})
	case len(b) < 0x10000:
		binary.LittleEndian.PutUint16(ln[:2], uint16(len(b)))
		Instruction(w, opcode.PUSHDATA2, ln[:2])
	default:
		binary.LittleEndian.PutUint32(ln[:], uint32(len(b)))
		Instruction(w, opcode.PUSHDATA4, ln[:])
	}
	w.WriteBytes(b)
}

// Array emits a sequence of values pushed in reverse order followed by
// PACK, producing a NeoVM array with the given elements in order.
func Array(w *io.BinWriter, elems ...any) {
	if len(elems) == 0 {
		Opcode(w, opcode.NEWARRAY0)
		return
	}
	for i := len(elems) - 1; i >= 0; i-- {
		switch v := elems[i].(type) {
		case int64:
			Int(w, v)
		case int:
			Int(w, int64(v))
		case []byte:
			Bytes(w, v)
		case string:
			String(w, v)
		case bool:
			Bool(w, v)
		case util.Uint160:
			Bytes(w, v.BytesLE())
		default:
			w.Err = errUnsupportedArrayElem
		}
	}
	Int(w, int64(len(elems)))
	Opcode(w, opcode.PACK)
}

var errUnsupportedArrayElem = errUnsupported{"unsupported array element type"}

type errUnsupported struct{ msg string }

func (e errUnsupported) Error() string { return e.msg }

// Syscall emits a SYSCALL instruction for the given 4-byte interop
// method hash.
func Syscall(w *io.BinWriter, hash uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], hash)
	Instruction(w, opcode.SYSCALL, b[:])
}

// Call emits a CALL/CALL_L to a relative offset, choosing the short form
// when the offset fits in a signed byte.
func Call(w *io.BinWriter, offset int32) {
	if offset >= -128 && offset <= 127 {
		Instruction(w, opcode.CALL, []byte{byte(int8(offset))})
		return
	}
	Jmp(w, opcode.CALL_L, offset)
}

// Jmp emits a jump-family opcode (which must already be the long `_L`
// form, or a short form when the offset is known to fit) with a relative
// offset operand.
func Jmp(w *io.BinWriter, op opcode.Opcode, offset int32) {
	switch op {
	case opcode.JMP, opcode.JMPIF, opcode.JMPIFNOT, opcode.JMPEQ, opcode.JMPNE,
		opcode.JMPGT, opcode.JMPGE, opcode.JMPLT, opcode.JMPLE, opcode.CALL:
		Instruction(w, op, []byte{byte(int8(offset))})
	default:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(offset))
		Instruction(w, op, b[:])
	}
}

// AppCall emits a contract call: push arguments array, push call flags,
// push method name, push contract hash, SYSCALL System.Contract.Call.
func AppCall(w *io.BinWriter, contract util.Uint160, method string, flags byte, args ...any) {
	Array(w, args...)
	Instruction(w, opcode.PUSHINT8, []byte{flags})
	String(w, method)
	Bytes(w, contract.BytesLE())
	Syscall(w, SystemContractCall)
}

// SystemContractCall is the interop method hash for System.Contract.Call,
// computed as the first 4 bytes of SHA-256("System.Contract.Call") per the
// NeoVM interop service naming convention.
const SystemContractCall uint32 = 0x525b7d62
