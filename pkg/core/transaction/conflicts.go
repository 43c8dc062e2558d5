package transaction

import (
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// Conflicts names a transaction hash this transaction invalidates if both
// land in the same block, used to replace an unconfirmed transaction.
type Conflicts struct {
	Hash util.Uint256 `json:"hash"`
}

// DecodeBinary implements io.Serializable.
func (c *Conflicts) DecodeBinary(br *io.BinReader) {
	b := br.ReadVarBytes(util.Uint256Size)
	if br.Err != nil {
		return
	}
	h, err := util.Uint256DecodeBytesLE(b)
	if err != nil {
		br.Err = err
		return
	}
	c.Hash = h
}

// EncodeBinary implements io.Serializable.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(c.Hash.BytesLE())
}

func (c *Conflicts) toJSONMap(m map[string]any) {
	m["hash"] = c.Hash
}

// Copy implements AttrValue.
func (c *Conflicts) Copy() AttrValue {
	cp := *c
	return &cp
}
