package keys

import (
	"crypto/sha256"
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/encoding/address"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	restored, err := NewPrivateKeyFromBytes(priv.Bytes())
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().Bytes(), restored.PublicKey().Bytes())
}

func TestWIFRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	wif := priv.WIF()
	restored, err := NewPrivateKeyFromWIF(wif)
	require.NoError(t, err)
	require.Equal(t, priv.Bytes(), restored.Bytes())
}

func TestSignAndVerify(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	msg := []byte("neow3j-go transaction payload")
	sig := priv.Sign(msg)
	require.Len(t, sig, 64)

	digest := sha256.Sum256(msg)
	require.True(t, priv.PublicKey().Verify(sig, digest[:]))
}

func TestAddressHasNeo3Prefix(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	addr := priv.Address()
	u, err := address.StringToUint160(addr, address.NEO3Prefix)
	require.NoError(t, err)
	require.Equal(t, priv.GetScriptHash(), u)
}
