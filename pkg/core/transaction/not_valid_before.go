package transaction

import "github.com/nspcc-dev/neow3j-go/pkg/io"

// NotValidBefore marks a transaction invalid until the chain reaches the
// given block height.
type NotValidBefore struct {
	Height uint32 `json:"height"`
}

// DecodeBinary implements io.Serializable.
func (n *NotValidBefore) DecodeBinary(br *io.BinReader) {
	n.Height = br.ReadU32LE()
}

// EncodeBinary implements io.Serializable.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

func (n *NotValidBefore) toJSONMap(m map[string]any) {
	m["height"] = n.Height
}

// Copy implements AttrValue.
func (n *NotValidBefore) Copy() AttrValue {
	cp := *n
	return &cp
}
