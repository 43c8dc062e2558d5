package transaction

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/stretchr/testify/require"
)

func encodeCondition(t *testing.T, c WitnessCondition) []byte {
	bw := io.NewBufBinWriter()
	c.EncodeBinary(bw.BinWriter)
	require.NoError(t, bw.Err)
	return bw.Bytes()
}

func TestConditionBooleanRoundTrip(t *testing.T) {
	b := ConditionBoolean(true)
	data := encodeCondition(t, &b)
	r := io.NewBinReaderFromBuf(data)
	decoded := DecodeCondition(r)
	require.NoError(t, r.Err)
	require.Equal(t, &b, decoded)
}

func TestConditionAndOrBudget(t *testing.T) {
	t.Run("empty list rejected", func(t *testing.T) {
		and := &ConditionAnd{}
		data := encodeCondition(t, and)
		r := io.NewBinReaderFromBuf(data)
		DecodeCondition(r)
		require.Error(t, r.Err)
	})

	t.Run("too many children rejected", func(t *testing.T) {
		children := make([]WitnessCondition, MaxConditionChildren+1)
		for i := range children {
			b := ConditionBoolean(true)
			children[i] = &b
		}
		and := &ConditionAnd{Conditions: children}
		data := encodeCondition(t, and)
		r := io.NewBinReaderFromBuf(data)
		DecodeCondition(r)
		require.Error(t, r.Err)
	})
}

func TestConditionNestingDepth(t *testing.T) {
	b := ConditionBoolean(true)
	inner := &ConditionNot{Condition: &b}
	mid := &ConditionNot{Condition: inner}
	outer := &ConditionNot{Condition: mid}

	data := encodeCondition(t, outer)
	r := io.NewBinReaderFromBuf(data)
	DecodeCondition(r)
	require.Error(t, r.Err)
}

func TestConditionCalledByEntryJSON(t *testing.T) {
	c := &ConditionCalledByEntry{}
	data, err := c.MarshalJSON()
	require.NoError(t, err)
	decoded, err := UnmarshalConditionJSON(data)
	require.NoError(t, err)
	require.IsType(t, &ConditionCalledByEntry{}, decoded)
}

func TestConditionScriptHashJSONRoundTrip(t *testing.T) {
	var sh ConditionScriptHash
	data, err := sh.MarshalJSON()
	require.NoError(t, err)
	decoded, err := UnmarshalConditionJSON(data)
	require.NoError(t, err)
	require.Equal(t, &sh, decoded)
}

func TestWitnessRuleSerDes(t *testing.T) {
	b := ConditionBoolean(true)
	expected := &WitnessRule{Action: WitnessAllow, Condition: &b}
	actual := &WitnessRule{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestWitnessRuleSerDesBadAction(t *testing.T) {
	b := ConditionBoolean(true)
	bad := &WitnessRule{Action: 0xff, Condition: &b}
	data, err := testserdes.EncodeBinary(bad)
	require.NoError(t, err)
	require.Error(t, testserdes.DecodeBinary(data, &WitnessRule{}))
}

func TestWitnessRuleJSON(t *testing.T) {
	b := ConditionBoolean(false)
	expected := &WitnessRule{Action: WitnessDeny, Condition: &b}
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	actual := &WitnessRule{}
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected.Action, actual.Action)
	require.Equal(t, expected.Condition, actual.Condition)
}

func TestWitnessRuleBadJSON(t *testing.T) {
	cases := []string{
		`{}`,
		`[]`,
		`{"action":"Allow"}`,
		`{"action":"Unknown","condition":{"type":"Boolean","expression":true}}`,
		`{"action":"Allow","condition":{"type":"Boolean","expression":42}}`,
	}
	for _, c := range cases {
		actual := &WitnessRule{}
		require.Error(t, json.Unmarshal([]byte(c), actual))
	}
}
