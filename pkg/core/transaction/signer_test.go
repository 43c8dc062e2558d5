package transaction

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestScopeCombine(t *testing.T) {
	require.Equal(t, WitnessScope(0x11), CalledByEntry|CustomContracts)
	require.Equal(t, WitnessScope(0x80), Global)
}

func TestSignerCalledByEntryRoundTrip(t *testing.T) {
	expected := &Signer{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestSignerCustomContractsRoundTrip(t *testing.T) {
	expected := &Signer{
		Account:          util.Uint160{1, 2, 3},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{4, 5, 6}, {7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestSignerCustomGroupsRoundTrip(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	expected := &Signer{
		Account:       util.Uint160{1, 2, 3},
		Scopes:        CustomGroups,
		AllowedGroups: []*keys.PublicKey{priv.PublicKey()},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestSignerWitnessRulesRoundTrip(t *testing.T) {
	b := ConditionBoolean(true)
	expected := &Signer{
		Account: util.Uint160{1, 2, 3},
		Scopes:  WitnessRules,
		Rules:   []WitnessRule{{Action: WitnessAllow, Condition: &b}},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, expected, actual)
}

func TestSignerGlobalExclusive(t *testing.T) {
	bw := io.NewBufBinWriter()
	s := &Signer{Account: util.Uint160{1, 2, 3}, Scopes: Global | CalledByEntry}
	bw.WriteBytes(s.Account.BytesLE())
	bw.WriteB(byte(s.Scopes))
	require.NoError(t, bw.Err)

	r := io.NewBinReaderFromBuf(bw.Bytes())
	decoded := &Signer{}
	decoded.DecodeBinary(r)
	require.Error(t, r.Err)
}

func TestSignerUnknownScopeBits(t *testing.T) {
	bw := io.NewBufBinWriter()
	bw.WriteBytes(util.Uint160{1, 2, 3}.BytesLE())
	bw.WriteB(0x08)
	require.NoError(t, bw.Err)

	r := io.NewBinReaderFromBuf(bw.Bytes())
	decoded := &Signer{}
	decoded.DecodeBinary(r)
	require.Error(t, r.Err)
}
