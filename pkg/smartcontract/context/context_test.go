package context

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

const testNet = uint32(0x4F454E)

func TestPartialSigningContextSingleSig(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	tx := transaction.New([]byte{0x40})
	tx.ValidUntilBlock = 1000
	tx.Signers = []transaction.Signer{{Account: priv.GetScriptHash(), Scopes: transaction.CalledByEntry}}

	ctx := NewPartialSigningContext(testNet, tx)
	sig := priv.SignHashable(testNet, tx)
	require.NoError(t, ctx.AddSignature(priv.GetScriptHash(), priv.PublicKey(), sig))

	w, err := ctx.GetWitness(priv.GetScriptHash(), priv.PublicKey())
	require.NoError(t, err)
	require.Equal(t, priv.GetScriptHash(), w.ScriptHash())

	digest := hash.NetSha256(testNet, tx)
	require.True(t, priv.PublicKey().Verify(sig, digest[:]))
}

func TestPartialSigningContextRejectsBadSignature(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	other, err := keys.NewPrivateKey()
	require.NoError(t, err)

	tx := transaction.New([]byte{0x40})
	tx.ValidUntilBlock = 1000
	tx.Signers = []transaction.Signer{{Account: priv.GetScriptHash(), Scopes: transaction.CalledByEntry}}

	ctx := NewPartialSigningContext(testNet, tx)
	badSig := other.SignHashable(testNet, tx)
	require.Error(t, ctx.AddSignature(priv.GetScriptHash(), priv.PublicKey(), badSig))
}

func TestPartialSigningContextMultiSig(t *testing.T) {
	priv1, err := keys.NewPrivateKey()
	require.NoError(t, err)
	priv2, err := keys.NewPrivateKey()
	require.NoError(t, err)
	priv3, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pubs := keys.PublicKeys{priv1.PublicKey(), priv2.PublicKey(), priv3.PublicKey()}

	tx := transaction.New([]byte{0x40})
	tx.ValidUntilBlock = 1000
	account := priv1.GetScriptHash()
	tx.Signers = []transaction.Signer{{Account: account, Scopes: transaction.CalledByEntry}}

	ctx := NewPartialSigningContext(testNet, tx)

	_, err = ctx.GetMultiSigWitness(account, 2, pubs)
	require.Error(t, err)

	sig1 := priv1.SignHashable(testNet, tx)
	require.NoError(t, ctx.AddSignature(account, priv1.PublicKey(), sig1))
	_, err = ctx.GetMultiSigWitness(account, 2, pubs)
	require.Error(t, err)

	sig2 := priv2.SignHashable(testNet, tx)
	require.NoError(t, ctx.AddSignature(account, priv2.PublicKey(), sig2))

	w, err := ctx.GetMultiSigWitness(account, 2, pubs)
	require.NoError(t, err)
	require.NotEmpty(t, w.InvocationScript)
	require.NotEmpty(t, w.VerificationScript)
}

func TestPartialSigningContextJSONRoundTrip(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	tx := transaction.New([]byte{0x40})
	tx.ValidUntilBlock = 1000
	tx.Signers = []transaction.Signer{{Account: priv.GetScriptHash(), Scopes: transaction.CalledByEntry}}

	ctx := NewPartialSigningContext(testNet, tx)
	sig := priv.SignHashable(testNet, tx)
	require.NoError(t, ctx.AddSignature(priv.GetScriptHash(), priv.PublicKey(), sig))

	data, err := ctx.MarshalJSON()
	require.NoError(t, err)

	actual := &PartialSigningContext{}
	require.NoError(t, actual.UnmarshalJSON(data))
	require.Equal(t, ctx.Network, actual.Network)
	require.Equal(t, ctx.Tx.Hash(), actual.Tx.Hash())

	w, err := actual.GetWitness(priv.GetScriptHash(), priv.PublicKey())
	require.NoError(t, err)
	require.Equal(t, priv.GetScriptHash(), w.ScriptHash())
}
