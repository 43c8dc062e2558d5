package transaction

import "github.com/nspcc-dev/neow3j-go/pkg/io"

// NotaryAssisted records how many extra on-chain witnesses a notary
// service must collect for this transaction.
type NotaryAssisted struct {
	NKeys uint8 `json:"nkeys"`
}

// DecodeBinary implements io.Serializable.
func (n *NotaryAssisted) DecodeBinary(br *io.BinReader) {
	n.NKeys = br.ReadB()
}

// EncodeBinary implements io.Serializable.
func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) {
	w.WriteB(n.NKeys)
}

func (n *NotaryAssisted) toJSONMap(m map[string]any) {
	m["nkeys"] = n.NKeys
}

// Copy implements AttrValue.
func (n *NotaryAssisted) Copy() AttrValue {
	cp := *n
	return &cp
}
