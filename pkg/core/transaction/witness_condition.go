package transaction

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MaxConditionChildren bounds the number of sub-conditions of an And/Or
// node.
const MaxConditionChildren = 16

// MaxConditionNesting bounds the depth of a WitnessCondition tree; the
// root node is depth 0 and the children of a Not/And/Or node are one
// level deeper than it.
const MaxConditionNesting = 2

// WitnessConditionType is the 1-byte discriminant preceding a
// WitnessCondition's payload on the wire.
type WitnessConditionType byte

const (
	ConditionBooleanType          WitnessConditionType = 0x00
	ConditionNotType              WitnessConditionType = 0x01
	ConditionAndType              WitnessConditionType = 0x02
	ConditionOrType               WitnessConditionType = 0x03
	ConditionScriptHashType       WitnessConditionType = 0x18
	ConditionGroupType            WitnessConditionType = 0x19
	ConditionCalledByEntryType    WitnessConditionType = 0x20
	ConditionCalledByContractType WitnessConditionType = 0x28
	ConditionCalledByGroupType    WitnessConditionType = 0x29
)

func (t WitnessConditionType) String() string {
	switch t {
	case ConditionBooleanType:
		return "Boolean"
	case ConditionNotType:
		return "Not"
	case ConditionAndType:
		return "And"
	case ConditionOrType:
		return "Or"
	case ConditionScriptHashType:
		return "ScriptHash"
	case ConditionGroupType:
		return "Group"
	case ConditionCalledByEntryType:
		return "CalledByEntry"
	case ConditionCalledByContractType:
		return "CalledByContract"
	case ConditionCalledByGroupType:
		return "CalledByGroup"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", byte(t))
	}
}

// WitnessCondition is a node in the boolean expression tree a WitnessRule
// evaluates against the calling context.
type WitnessCondition interface {
	Type() WitnessConditionType
	EncodeBinary(w *io.BinWriter)
	// decodePayload decodes everything after the discriminant byte; depth
	// is the nesting depth of this node (0 at the root).
	decodePayload(r *io.BinReader, depth int)
	MarshalJSON() ([]byte, error)
}

// ConditionBoolean is a leaf holding a constant truth value.
type ConditionBoolean bool

func (c *ConditionBoolean) Type() WitnessConditionType { return ConditionBooleanType }
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBool(bool(*c))
}
func (c *ConditionBoolean) decodePayload(r *io.BinReader, depth int) {
	*c = ConditionBoolean(r.ReadBool())
}
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Expression bool   `json:"expression"`
	}{c.Type().String(), bool(*c)})
}

// ConditionNot negates a single child condition.
type ConditionNot struct{ Condition WitnessCondition }

func (c *ConditionNot) Type() WitnessConditionType { return ConditionNotType }
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}
func (c *ConditionNot) decodePayload(r *io.BinReader, depth int) {
	c.Condition = decodeCondition(r, depth+1)
}
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string          `json:"type"`
		Expression json.RawMessage `json:"expression"`
	}{c.Type().String(), marshalConditionJSON(c.Condition)})
}

// ConditionAnd requires every child condition to hold.
type ConditionAnd struct{ Conditions []WitnessCondition }

func (c *ConditionAnd) Type() WitnessConditionType { return ConditionAndType }
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, c.Conditions)
}
func (c *ConditionAnd) decodePayload(r *io.BinReader, depth int) {
	c.Conditions = decodeConditionList(r, depth+1)
}
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return marshalConditionList(c.Type(), c.Conditions)
}

// ConditionOr requires at least one child condition to hold.
type ConditionOr struct{ Conditions []WitnessCondition }

func (c *ConditionOr) Type() WitnessConditionType { return ConditionOrType }
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	encodeConditionList(w, c.Conditions)
}
func (c *ConditionOr) decodePayload(r *io.BinReader, depth int) {
	c.Conditions = decodeConditionList(r, depth+1)
}
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return marshalConditionList(c.Type(), c.Conditions)
}

// ConditionScriptHash holds iff the calling script's hash matches.
type ConditionScriptHash util.Uint160

func (c *ConditionScriptHash) Type() WitnessConditionType { return ConditionScriptHashType }
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(util.Uint160(*c).BytesLE())
}
func (c *ConditionScriptHash) decodePayload(r *io.BinReader, depth int) {
	b := make([]byte, util.Uint160Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	u, err := util.Uint160DecodeBytesLE(b)
	if err != nil {
		r.Err = err
		return
	}
	*c = ConditionScriptHash(u)
}
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Expression string `json:"expression"`
	}{c.Type().String(), "0x" + hex.EncodeToString(util.Uint160(*c).BytesBE())})
}

// ConditionGroup holds iff the calling contract belongs to a group.
type ConditionGroup struct{ Group *keys.PublicKey }

func (c *ConditionGroup) Type() WitnessConditionType { return ConditionGroupType }
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Group.EncodeBinary(w)
}
func (c *ConditionGroup) decodePayload(r *io.BinReader, depth int) {
	c.Group = new(keys.PublicKey)
	c.Group.DecodeBinary(r)
}
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Expression string `json:"expression"`
	}{c.Type().String(), hex.EncodeToString(c.Group.Bytes())})
}

// ConditionCalledByEntry holds iff the entry script is the calling script.
type ConditionCalledByEntry struct{}

func (c *ConditionCalledByEntry) Type() WitnessConditionType { return ConditionCalledByEntryType }
func (c *ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
}
func (c *ConditionCalledByEntry) decodePayload(r *io.BinReader, depth int) {}
func (c *ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{c.Type().String()})
}

// ConditionCalledByContract holds iff the calling script hash matches.
type ConditionCalledByContract util.Uint160

func (c *ConditionCalledByContract) Type() WitnessConditionType { return ConditionCalledByContractType }
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	w.WriteBytes(util.Uint160(*c).BytesLE())
}
func (c *ConditionCalledByContract) decodePayload(r *io.BinReader, depth int) {
	b := make([]byte, util.Uint160Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	u, err := util.Uint160DecodeBytesLE(b)
	if err != nil {
		r.Err = err
		return
	}
	*c = ConditionCalledByContract(u)
}
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Expression string `json:"expression"`
	}{c.Type().String(), "0x" + hex.EncodeToString(util.Uint160(*c).BytesBE())})
}

// ConditionCalledByGroup holds iff the calling contract belongs to a group.
type ConditionCalledByGroup struct{ Group *keys.PublicKey }

func (c *ConditionCalledByGroup) Type() WitnessConditionType { return ConditionCalledByGroupType }
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(c.Type()))
	c.Group.EncodeBinary(w)
}
func (c *ConditionCalledByGroup) decodePayload(r *io.BinReader, depth int) {
	c.Group = new(keys.PublicKey)
	c.Group.DecodeBinary(r)
}
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string `json:"type"`
		Expression string `json:"expression"`
	}{c.Type().String(), hex.EncodeToString(c.Group.Bytes())})
}

func encodeConditionList(w *io.BinWriter, conds []WitnessCondition) {
	w.WriteVarUint(uint64(len(conds)))
	for _, c := range conds {
		c.EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}

func decodeConditionList(r *io.BinReader, depth int) []WitnessCondition {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n == 0 {
		r.Err = errors.New("condition list must have at least one item")
		return nil
	}
	if n > MaxConditionChildren {
		r.Err = fmt.Errorf("condition list too long: %d", n)
		return nil
	}
	out := make([]WitnessCondition, n)
	for i := range out {
		out[i] = decodeCondition(r, depth)
		if r.Err != nil {
			return out
		}
	}
	return out
}

func marshalConditionJSON(c WitnessCondition) json.RawMessage {
	data, err := c.MarshalJSON()
	if err != nil {
		return json.RawMessage("null")
	}
	return json.RawMessage(data)
}

func marshalConditionList(t WitnessConditionType, conds []WitnessCondition) ([]byte, error) {
	exprs := make([]json.RawMessage, len(conds))
	for i, c := range conds {
		exprs[i] = marshalConditionJSON(c)
	}
	return json.Marshal(struct {
		Type       string            `json:"type"`
		Expression []json.RawMessage `json:"expression"`
	}{t.String(), exprs})
}

// decodeCondition reads the 1-byte discriminant and dispatches to the
// matching WitnessCondition implementation, enforcing the nesting-depth
// budget along the way.
func decodeCondition(r *io.BinReader, depth int) WitnessCondition {
	if depth > MaxConditionNesting {
		r.Err = fmt.Errorf("witness condition nesting exceeds %d", MaxConditionNesting)
		return nil
	}
	t := WitnessConditionType(r.ReadB())
	if r.Err != nil {
		return nil
	}
	var c WitnessCondition
	switch t {
	case ConditionBooleanType:
		c = new(ConditionBoolean)
	case ConditionNotType:
		c = new(ConditionNot)
	case ConditionAndType:
		c = new(ConditionAnd)
	case ConditionOrType:
		c = new(ConditionOr)
	case ConditionScriptHashType:
		c = new(ConditionScriptHash)
	case ConditionGroupType:
		c = new(ConditionGroup)
	case ConditionCalledByEntryType:
		c = new(ConditionCalledByEntry)
	case ConditionCalledByContractType:
		c = new(ConditionCalledByContract)
	case ConditionCalledByGroupType:
		c = new(ConditionCalledByGroup)
	default:
		r.Err = fmt.Errorf("unknown witness condition type: 0x%02x", byte(t))
		return nil
	}
	c.decodePayload(r, depth)
	return c
}

// DecodeCondition decodes a WitnessCondition tree from the root.
func DecodeCondition(r *io.BinReader) WitnessCondition {
	return decodeCondition(r, 0)
}

type conditionJSON struct {
	Type       string          `json:"type"`
	Expression json.RawMessage `json:"expression"`
}

// UnmarshalConditionJSON parses a WitnessCondition from its discriminated
// JSON form.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	return unmarshalConditionJSON(data, 0)
}

func unmarshalConditionJSON(data []byte, depth int) (WitnessCondition, error) {
	if depth > MaxConditionNesting {
		return nil, fmt.Errorf("witness condition nesting exceeds %d", MaxConditionNesting)
	}
	var aux conditionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}
	switch aux.Type {
	case ConditionBooleanType.String():
		var b bool
		if err := json.Unmarshal(aux.Expression, &b); err != nil {
			return nil, err
		}
		cb := ConditionBoolean(b)
		return &cb, nil
	case ConditionNotType.String():
		inner, err := unmarshalConditionJSON(aux.Expression, depth+1)
		if err != nil {
			return nil, err
		}
		return &ConditionNot{Condition: inner}, nil
	case ConditionAndType.String(), ConditionOrType.String():
		var rawList []json.RawMessage
		if err := json.Unmarshal(aux.Expression, &rawList); err != nil {
			return nil, err
		}
		if len(rawList) == 0 {
			return nil, errors.New("condition list must have at least one item")
		}
		if len(rawList) > MaxConditionChildren {
			return nil, fmt.Errorf("condition list too long: %d", len(rawList))
		}
		children := make([]WitnessCondition, len(rawList))
		for i, raw := range rawList {
			child, err := unmarshalConditionJSON(raw, depth+1)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		if aux.Type == ConditionAndType.String() {
			return &ConditionAnd{Conditions: children}, nil
		}
		return &ConditionOr{Conditions: children}, nil
	case ConditionScriptHashType.String(), ConditionCalledByContractType.String():
		var s string
		if err := json.Unmarshal(aux.Expression, &s); err != nil {
			return nil, err
		}
		s = trimHexPrefix(s)
		u, err := util.Uint160DecodeStringBE(s)
		if err != nil {
			return nil, err
		}
		if aux.Type == ConditionScriptHashType.String() {
			c := ConditionScriptHash(u)
			return &c, nil
		}
		c := ConditionCalledByContract(u)
		return &c, nil
	case ConditionGroupType.String(), ConditionCalledByGroupType.String():
		var s string
		if err := json.Unmarshal(aux.Expression, &s); err != nil {
			return nil, err
		}
		pub, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return nil, err
		}
		if aux.Type == ConditionGroupType.String() {
			return &ConditionGroup{Group: pub}, nil
		}
		return &ConditionCalledByGroup{Group: pub}, nil
	case ConditionCalledByEntryType.String():
		return &ConditionCalledByEntry{}, nil
	default:
		return nil, fmt.Errorf("unknown witness condition type: %q", aux.Type)
	}
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && s[1] == 'x' {
		return s[2:]
	}
	return s
}
