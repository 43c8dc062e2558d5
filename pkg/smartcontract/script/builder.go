// Package script builds NeoVM invocation and verification scripts.
package script

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/emit"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/opcode"
)

// Builder composes arbitrary invocation scripts out of the methods it
// provides. It's mostly used for transaction entry scripts, so every
// call it emits uses callflag.All.
type Builder struct {
	bw *io.BufBinWriter
}

// NewBuilder creates a new script Builder.
func NewBuilder() *Builder {
	return &Builder{bw: io.NewBufBinWriter()}
}

// InvokeMethod packs params into an array and emits a call to the given
// contract method.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, params ...any) {
	emit.AppCall(b.bw.BinWriter, contract, method, byte(callflag.All), params...)
}

// Assert emits ASSERT, aborting the transaction unless the top stack
// item is true.
func (b *Builder) Assert() {
	emit.Opcode(b.bw.BinWriter, opcode.ASSERT)
}

// InvokeWithAssert is InvokeMethod followed by Assert, for the common
// pattern of NEP-17/NEP-11 boolean-returning methods.
func (b *Builder) InvokeWithAssert(contract util.Uint160, method string, params ...any) {
	b.InvokeMethod(contract, method, params...)
	b.Assert()
}

// PushInt emits the minimal PUSHINT*/PUSH0-16 encoding of n.
func (b *Builder) PushInt(n int64) {
	emit.Int(b.bw.BinWriter, n)
}

// PushBool emits PUSHT/PUSHF.
func (b *Builder) PushBool(v bool) {
	emit.Bool(b.bw.BinWriter, v)
}

// PushData emits the minimal PUSHDATA1/2/4 encoding of data.
func (b *Builder) PushData(data []byte) {
	emit.Bytes(b.bw.BinWriter, data)
}

// Script returns the accumulated script, or the first error encountered
// while building it.
func (b *Builder) Script() ([]byte, error) {
	return b.bw.Bytes(), b.bw.Err
}

// Reset clears the builder's buffer for reuse.
func (b *Builder) Reset() {
	b.bw.Reset()
}

// BuildVerificationScript returns the single-signature verification
// script for pub.
func BuildVerificationScript(pub *keys.PublicKey) []byte {
	return pub.GetVerificationScript()
}

// BuildMultiSigVerificationScript returns an m-of-n multi-signature
// verification script: PUSH m, PUSHDATA1 <pubkey> for each of the n keys
// sorted ascending, PUSH n, SYSCALL CheckMultisig. m must satisfy
// 1 <= m <= n <= 1024.
func BuildMultiSigVerificationScript(m int, pubs keys.PublicKeys) ([]byte, error) {
	n := len(pubs)
	if n == 0 || n > 1024 {
		return nil, fmt.Errorf("invalid multi-sig key count: %d", n)
	}
	if m < 1 || m > n {
		return nil, fmt.Errorf("invalid signing threshold %d for %d keys", m, n)
	}
	sorted := make(keys.PublicKeys, n)
	copy(sorted, pubs)
	sortPublicKeys(sorted)

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	for _, pub := range sorted {
		emit.Bytes(buf.BinWriter, pub.Bytes())
	}
	emit.Int(buf.BinWriter, int64(n))
	emit.Syscall(buf.BinWriter, keys.SystemCryptoCheckMultisig)
	return buf.Bytes(), buf.Err
}

func sortPublicKeys(pubs keys.PublicKeys) {
	for i := 1; i < len(pubs); i++ {
		for j := i; j > 0 && pubs[j-1].Cmp(pubs[j]) > 0; j-- {
			pubs[j-1], pubs[j] = pubs[j], pubs[j-1]
		}
	}
}

// SigningThreshold computes the default BFT-safe signing threshold m for
// n participants: m = n - (n-1)/3.
func SigningThreshold(n int) int {
	if n <= 0 {
		return 0
	}
	return n - (n-1)/3
}

// ErrNotVerificationScript is returned by ParseVerificationScript when
// the input doesn't match a recognized single- or multi-sig shape.
var ErrNotVerificationScript = errors.New("not a recognized verification script")

// ParseVerificationScript recovers the signing threshold and public keys
// encoded in script, recognizing both the single-signature form (m=n=1)
// and the PUSH-m/PUSHDATA-keys/PUSH-n/CheckMultisig multi-sig form.
func ParseVerificationScript(script []byte) (m int, pubs keys.PublicKeys, err error) {
	if len(script) == 40 && script[0] == byte(opcode.PUSHDATA1) && script[1] == 33 {
		var pub keys.PublicKey
		if err := pub.DecodeBytes(script[2:35]); err != nil {
			return 0, nil, err
		}
		return 1, keys.PublicKeys{&pub}, nil
	}

	pos := 0
	mVal, n, err := readPushInt(script, &pos)
	if err != nil {
		return 0, nil, err
	}
	_ = n

	var collected keys.PublicKeys
	for pos < len(script) && script[pos] == byte(opcode.PUSHDATA1) {
		if pos+2 > len(script) || script[pos+1] != 33 || pos+2+33 > len(script) {
			return 0, nil, ErrNotVerificationScript
		}
		var pub keys.PublicKey
		if err := pub.DecodeBytes(script[pos+2 : pos+2+33]); err != nil {
			return 0, nil, err
		}
		collected = append(collected, &pub)
		pos += 2 + 33
	}

	nVal, consumed, err := readPushInt(script, &pos)
	if err != nil {
		return 0, nil, err
	}
	_ = consumed
	if pos+5 > len(script) || script[pos] != byte(opcode.SYSCALL) {
		return 0, nil, ErrNotVerificationScript
	}
	if int(nVal) != len(collected) {
		return 0, nil, ErrNotVerificationScript
	}
	return int(mVal), collected, nil
}

// readPushInt reads one PUSH0-16/PUSHM1/PUSHINT8/PUSHINT16 instruction
// starting at script[*pos], advances *pos past it, and returns its value.
func readPushInt(script []byte, pos *int) (value int64, newPos int, err error) {
	if *pos >= len(script) {
		return 0, *pos, ErrNotVerificationScript
	}
	op := script[*pos]
	switch {
	case op == byte(opcode.PUSHM1):
		*pos++
		return -1, *pos, nil
	case op >= byte(opcode.PUSH0) && op <= byte(opcode.PUSH16):
		*pos++
		return int64(op) - int64(opcode.PUSH0), *pos, nil
	case op == byte(opcode.PUSHINT8):
		if *pos+2 > len(script) {
			return 0, *pos, ErrNotVerificationScript
		}
		v := int64(int8(script[*pos+1]))
		*pos += 2
		return v, *pos, nil
	case op == byte(opcode.PUSHINT16):
		if *pos+3 > len(script) {
			return 0, *pos, ErrNotVerificationScript
		}
		v := int64(int16(script[*pos+1]) | int16(script[*pos+2])<<8)
		*pos += 3
		return v, *pos, nil
	default:
		return 0, *pos, ErrNotVerificationScript
	}
}
