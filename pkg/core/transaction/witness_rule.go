package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
)

// WitnessRuleAction is the outcome a WitnessRule applies when its condition
// holds.
type WitnessRuleAction byte

const (
	WitnessDeny  WitnessRuleAction = 0
	WitnessAllow WitnessRuleAction = 1
)

func (a WitnessRuleAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("Unknown(%d)", byte(a))
	}
}

// WitnessRule pairs an Allow/Deny outcome with the condition that triggers
// it, used by signers scoped with WitnessRules.
type WitnessRule struct {
	Action    WitnessRuleAction
	Condition WitnessCondition
}

// EncodeBinary implements io.Serializable.
func (r *WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (r *WitnessRule) DecodeBinary(br *io.BinReader) {
	action := WitnessRuleAction(br.ReadB())
	if br.Err != nil {
		return
	}
	if action != WitnessAllow && action != WitnessDeny {
		br.Err = fmt.Errorf("unknown witness rule action: %d", byte(action))
		return
	}
	r.Action = action
	r.Condition = decodeCondition(br, 0)
}

type witnessRuleJSON struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON implements json.Marshaler.
func (r *WitnessRule) MarshalJSON() ([]byte, error) {
	cond, err := r.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(witnessRuleJSON{Action: r.Action.String(), Condition: cond})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var aux witnessRuleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch aux.Action {
	case "Allow":
		r.Action = WitnessAllow
	case "Deny":
		r.Action = WitnessDeny
	default:
		return fmt.Errorf("unknown witness rule action: %q", aux.Action)
	}
	if len(aux.Condition) == 0 {
		return fmt.Errorf("missing witness rule condition")
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	r.Condition = cond
	return nil
}
