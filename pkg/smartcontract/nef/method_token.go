package nef

import (
	"errors"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MethodToken represents a static call to another contract, referenced
// by a NeoVM script via CALLT.
type MethodToken struct {
	Hash            util.Uint160
	Method          string
	ParametersCount uint16
	HasReturnValue  bool
	CallFlags       callflag.CallFlag
}

// EncodeBinary implements io.Serializable.
func (t *MethodToken) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(t.Hash.BytesLE())
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParametersCount)
	w.WriteBool(t.HasReturnValue)
	w.WriteB(byte(t.CallFlags))
}

// DecodeBinary implements io.Serializable.
func (t *MethodToken) DecodeBinary(r *io.BinReader) {
	hashBytes := make([]byte, util.Uint160Size)
	r.ReadBytes(hashBytes)
	if r.Err != nil {
		return
	}
	h, err := util.Uint160DecodeBytesLE(hashBytes)
	if err != nil {
		r.Err = err
		return
	}
	t.Hash = h
	t.Method = r.ReadString()
	t.ParametersCount = r.ReadU16LE()
	t.HasReturnValue = r.ReadBool()
	cf := callflag.CallFlag(r.ReadB())
	if r.Err != nil {
		return
	}
	if cf&^callflag.All != 0 {
		r.Err = errors.New("method token: call flags outside the defined range")
		return
	}
	t.CallFlags = cf
}
