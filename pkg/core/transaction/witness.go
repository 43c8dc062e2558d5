package transaction

import (
	"bytes"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

const (
	// MaxInvocationScript bounds the invocation script, sized to fit an
	// 11-of-21 multisig (the largest committee shape).
	MaxInvocationScript = 1024
	// MaxVerificationScript bounds the verification script for the same
	// reason.
	MaxVerificationScript = 1024
)

// Witness is the pair of scripts proving a signer authorized a
// transaction: the invocation script pushes signatures, the verification
// script checks them.
type Witness struct {
	InvocationScript   []byte `json:"invocation"`
	VerificationScript []byte `json:"verification"`
}

// DecodeBinary implements io.Serializable.
func (w *Witness) DecodeBinary(r *io.BinReader) {
	w.InvocationScript = r.ReadVarBytes(MaxInvocationScript)
	w.VerificationScript = r.ReadVarBytes(MaxVerificationScript)
}

// EncodeBinary implements io.Serializable.
func (w *Witness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteVarBytes(w.InvocationScript)
	bw.WriteVarBytes(w.VerificationScript)
}

// ScriptHash returns the account identity proven by this witness.
func (w Witness) ScriptHash() util.Uint160 {
	return hash.Hash160(w.VerificationScript)
}

// Copy returns a deep copy of w.
func (w Witness) Copy() Witness {
	return Witness{
		InvocationScript:   bytes.Clone(w.InvocationScript),
		VerificationScript: bytes.Clone(w.VerificationScript),
	}
}
