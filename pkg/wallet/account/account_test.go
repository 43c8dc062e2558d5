package account

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

func TestNewFromPrivateKey(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	acc := NewFromPrivateKey(priv)
	require.Equal(t, priv.PublicKey().GetScriptHash(), acc.ScriptHash)
	require.Equal(t, priv.PublicKey().Bytes(), acc.PublicKey().Bytes())
}

func TestNewFromWIF(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	acc, err := NewFromWIF(priv.WIF())
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey().GetScriptHash(), acc.ScriptHash)
}

func TestNewFromWIFInvalid(t *testing.T) {
	_, err := NewFromWIF("not-a-wif")
	require.Error(t, err)
}
