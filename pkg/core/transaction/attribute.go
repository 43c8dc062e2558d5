package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
)

// MaxAttributes bounds the combined count of signers and attributes on a
// transaction.
const MaxAttributes = 16

// AttrValue is the payload of an Attribute: every concrete attribute kind
// (HighPriority, OracleResponse, ...) implements it.
type AttrValue interface {
	io.Serializable
	toJSONMap(map[string]any)
	Copy() AttrValue
}

// Attribute is a typed, bounded piece of metadata attached to a
// transaction.
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// DecodeBinary implements io.Serializable.
func (attr *Attribute) DecodeBinary(br *io.BinReader) {
	attr.Type = AttrType(br.ReadB())
	if br.Err != nil {
		return
	}
	switch attr.Type {
	case HighPriorityT:
		attr.Value = new(HighPriority)
	case OracleResponseT:
		attr.Value = new(OracleResponse)
	case NotValidBeforeT:
		attr.Value = new(NotValidBefore)
	case ConflictsT:
		attr.Value = new(Conflicts)
	case NotaryAssistedT:
		attr.Value = new(NotaryAssisted)
	default:
		br.Err = fmt.Errorf("unknown transaction attribute type: 0x%02x", byte(attr.Type))
		return
	}
	attr.Value.DecodeBinary(br)
}

// EncodeBinary implements io.Serializable.
func (attr *Attribute) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(attr.Type))
	attr.Value.EncodeBinary(w)
}

// MarshalJSON implements json.Marshaler, flattening the attribute's type
// tag and payload fields into one object.
func (attr *Attribute) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": attr.Type.String()}
	attr.Value.toJSONMap(m)
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (attr *Attribute) UnmarshalJSON(data []byte) error {
	var aux struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch aux.Type {
	case HighPriorityT.String():
		attr.Type = HighPriorityT
		attr.Value = new(HighPriority)
		return nil
	case OracleResponseT.String():
		attr.Type = OracleResponseT
		v := new(OracleResponse)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		attr.Value = v
		return nil
	case NotValidBeforeT.String():
		attr.Type = NotValidBeforeT
		v := new(NotValidBefore)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		attr.Value = v
		return nil
	case ConflictsT.String():
		attr.Type = ConflictsT
		v := new(Conflicts)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		attr.Value = v
		return nil
	case NotaryAssistedT.String():
		attr.Type = NotaryAssistedT
		v := new(NotaryAssisted)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		attr.Value = v
		return nil
	default:
		return fmt.Errorf("unknown transaction attribute type: %q", aux.Type)
	}
}

// Copy returns a deep copy of attr.
func (attr *Attribute) Copy() *Attribute {
	if attr == nil {
		return nil
	}
	return &Attribute{Type: attr.Type, Value: attr.Value.Copy()}
}
