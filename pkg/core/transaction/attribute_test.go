package transaction

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAttributeHighPriorityRoundTrip(t *testing.T) {
	expected := &Attribute{Type: HighPriorityT, Value: &HighPriority{}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestAttributeOracleResponseRoundTrip(t *testing.T) {
	expected := &Attribute{Type: OracleResponseT, Value: &OracleResponse{ID: 7, Code: Success, Result: []byte{1, 2, 3}}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestOracleResponseRejectsNonEmptyResultOnFailure(t *testing.T) {
	bad := &OracleResponse{ID: 1, Code: NotFound, Result: []byte{1}}
	data, err := testserdes.EncodeBinary(bad)
	require.NoError(t, err)
	require.Error(t, testserdes.DecodeBinary(data, &OracleResponse{}))
}

func TestOracleResponseCodeJSON(t *testing.T) {
	data, err := json.Marshal(Success)
	require.NoError(t, err)
	require.Equal(t, `"Success"`, string(data))

	var c OracleResponseCode
	require.NoError(t, json.Unmarshal([]byte(`"NotFound"`), &c))
	require.Equal(t, NotFound, c)

	require.Error(t, json.Unmarshal([]byte(`"bogus"`), &c))
}

func TestAttributeConflictsAllowsMultiple(t *testing.T) {
	tx := newTestTx(t)
	tx.Attributes = []Attribute{
		{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{1}}},
		{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{2}}},
	}
	require.NoError(t, tx.Validate())
}

func TestAttributeNotValidBeforeRoundTrip(t *testing.T) {
	expected := &Attribute{Type: NotValidBeforeT, Value: &NotValidBefore{Height: 100}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestAttributeNotaryAssistedRoundTrip(t *testing.T) {
	expected := &Attribute{Type: NotaryAssistedT, Value: &NotaryAssisted{NKeys: 3}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestAttributeUnknownTypeRejected(t *testing.T) {
	data, err := testserdes.EncodeBinary(&Attribute{Type: HighPriorityT, Value: &HighPriority{}})
	require.NoError(t, err)
	data[0] = 0x99
	require.Error(t, testserdes.DecodeBinary(data, &Attribute{}))
}

func TestAttributeJSONRoundTrip(t *testing.T) {
	expected := &Attribute{Type: OracleResponseT, Value: &OracleResponse{ID: 9, Code: Success, Result: []byte{9}}}
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	actual := &Attribute{}
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected.Type, actual.Type)
	require.Equal(t, expected.Value, actual.Value)
}
