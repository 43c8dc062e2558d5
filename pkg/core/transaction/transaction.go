package transaction

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MaxScriptLength bounds a transaction's script.
const MaxScriptLength = 65535

// Transaction is a signed request to execute a script against the chain
// state, paying system and network fees and authorized by one or more
// signers' witnesses.
type Transaction struct {
	Version         uint8
	Nonce           uint32
	SystemFee       int64
	NetworkFee      int64
	ValidUntilBlock uint32
	Signers         []Signer
	Attributes      []Attribute
	Script          []byte
	Scripts         []Witness

	hash   *util.Uint256
	hashOK bool
}

// New builds an unsigned transaction wrapping script, with Version 0 and
// no signers, fees, or attributes set yet.
func New(script []byte) *Transaction {
	return &Transaction{Script: script}
}

// Sender returns the first signer, by convention the account paying fees.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		return util.Uint160{}
	}
	return t.Signers[0].Account
}

// HasSigner reports whether h appears among the transaction's signers.
func (t *Transaction) HasSigner(h util.Uint160) bool {
	for i := range t.Signers {
		if t.Signers[i].Account == h {
			return true
		}
	}
	return false
}

// HasAttribute reports whether an attribute of type typ is present.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns every attribute of type typ, in order.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var out []Attribute
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			out = append(out, t.Attributes[i])
		}
	}
	return out
}

// Validate checks the structural invariants of a transaction before it is
// signed or broadcast: signer/attribute budget, uniqueness, script
// presence, and per-attribute multiplicity rules.
func (t *Transaction) Validate() error {
	if len(t.Signers) == 0 {
		return errors.New("transaction must have at least one signer")
	}
	if len(t.Signers) > MaxAttributes {
		return fmt.Errorf("too many signers: %d", len(t.Signers))
	}
	seen := make(map[util.Uint160]struct{}, len(t.Signers))
	for _, s := range t.Signers {
		if _, ok := seen[s.Account]; ok {
			return fmt.Errorf("duplicate signer account: %s", s.Account.StringLE())
		}
		seen[s.Account] = struct{}{}
	}
	if len(t.Signers)+len(t.Attributes) > MaxAttributes {
		return fmt.Errorf("signers + attributes exceeds %d", MaxAttributes)
	}
	highPriorityCount := 0
	seenOnce := make(map[AttrType]struct{})
	for _, a := range t.Attributes {
		if a.Type == HighPriorityT {
			highPriorityCount++
		}
		if !a.Type.allowsMultiple() {
			if _, ok := seenOnce[a.Type]; ok {
				return fmt.Errorf("attribute %s may appear at most once", a.Type)
			}
			seenOnce[a.Type] = struct{}{}
		}
	}
	if highPriorityCount > 1 {
		return errors.New("HighPriority attribute may appear at most once")
	}
	if len(t.Script) == 0 {
		return errors.New("transaction script must not be empty")
	}
	if len(t.Script) > MaxScriptLength {
		return fmt.Errorf("script exceeds maximum length %d", MaxScriptLength)
	}
	return nil
}

// signablePart writes everything that contributes to the network
// signature hash: version through script, but not the witnesses list.
func (t *Transaction) signablePart(w *io.BinWriter) {
	w.WriteB(t.Version)
	w.WriteU32LE(t.Nonce)
	w.WriteI64LE(t.SystemFee)
	w.WriteI64LE(t.NetworkFee)
	w.WriteU32LE(t.ValidUntilBlock)
	w.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
	w.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
	w.WriteVarBytes(t.Script)
}

// SignableHash implements hash.Hashable: the serialized bytes preceding
// the witnesses list, which is what gets network-magic-scoped and signed.
func (t *Transaction) SignableHash() []byte {
	bw := io.NewBufBinWriter()
	t.signablePart(bw.BinWriter)
	return bw.Bytes()
}

// Hash returns the transaction's identifying hash, computed on the first
// call and cached. Nothing clears the cache: after a Transaction is
// mutated, Hash keeps returning the hash of its earlier contents.
func (t *Transaction) Hash() util.Uint256 {
	if t.hashOK {
		return *t.hash
	}
	h := hash.Hash256(t.SignableHash())
	t.hash = &h
	t.hashOK = true
	return h
}

// EncodeBinary implements io.Serializable.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.signablePart(w)
	if w.Err != nil {
		return
	}
	w.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}

// DecodeBinary implements io.Serializable.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Version = r.ReadB()
	t.Nonce = r.ReadU32LE()
	t.SystemFee = r.ReadI64LE()
	t.NetworkFee = r.ReadI64LE()
	t.ValidUntilBlock = r.ReadU32LE()
	if r.Err != nil {
		return
	}

	nSigners := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nSigners == 0 {
		r.Err = errors.New("transaction must have at least one signer")
		return
	}
	if nSigners > MaxAttributes {
		r.Err = fmt.Errorf("too many signers: %d", nSigners)
		return
	}
	t.Signers = make([]Signer, nSigners)
	for i := range t.Signers {
		t.Signers[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	nAttrs := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nAttrs+nSigners > MaxAttributes {
		r.Err = fmt.Errorf("signers + attributes exceeds %d", MaxAttributes)
		return
	}
	t.Attributes = make([]Attribute, nAttrs)
	for i := range t.Attributes {
		t.Attributes[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	t.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(t.Script) == 0 {
		r.Err = errors.New("transaction script must not be empty")
		return
	}

	nScripts := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nScripts > MaxAttributes {
		r.Err = fmt.Errorf("too many witnesses: %d", nScripts)
		return
	}
	t.Scripts = make([]Witness, nScripts)
	for i := range t.Scripts {
		t.Scripts[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
}
