package transaction

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func newTestTx(t *testing.T) *Transaction {
	tx := New([]byte{0x40})
	tx.Version = 0
	tx.Nonce = 42
	tx.SystemFee = 984060
	tx.NetworkFee = 1230610
	tx.ValidUntilBlock = 1000
	tx.Signers = []Signer{{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}}
	tx.Attributes = []Attribute{{Type: HighPriorityT, Value: &HighPriority{}}}
	tx.Scripts = []Witness{{InvocationScript: []byte{1, 2}, VerificationScript: []byte{3, 4}}}
	return tx
}

func TestTransactionEncodeDecodeBinary(t *testing.T) {
	tx := newTestTx(t)
	actual := new(Transaction)
	testserdes.EncodeDecodeBinary(t, tx, actual)
	require.Equal(t, tx.Script, actual.Script)
	require.Equal(t, tx.Signers, actual.Signers)
}

func TestTransactionValidate(t *testing.T) {
	tx := newTestTx(t)
	require.NoError(t, tx.Validate())

	noSigners := newTestTx(t)
	noSigners.Signers = nil
	require.Error(t, noSigners.Validate())

	dup := newTestTx(t)
	dup.Signers = append(dup.Signers, Signer{Account: dup.Signers[0].Account, Scopes: CalledByEntry})
	require.Error(t, dup.Validate())

	emptyScript := newTestTx(t)
	emptyScript.Script = nil
	require.Error(t, emptyScript.Validate())

	dupHighPrio := newTestTx(t)
	dupHighPrio.Attributes = append(dupHighPrio.Attributes, Attribute{Type: HighPriorityT, Value: &HighPriority{}})
	require.Error(t, dupHighPrio.Validate())
}

func TestTransactionSignAndVerify(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	tx := New([]byte{0x40})
	tx.ValidUntilBlock = 1000
	tx.Signers = []Signer{{Account: priv.GetScriptHash(), Scopes: CalledByEntry}}

	const net = uint32(0x4F454E)
	sig := priv.SignHashable(net, tx)

	verif := priv.PublicKey().GetVerificationScript()
	tx.Scripts = []Witness{{InvocationScript: append([]byte{0x0c, 0x40}, sig...), VerificationScript: verif}}

	require.Equal(t, priv.GetScriptHash(), tx.Scripts[0].ScriptHash())
	digest := hash.NetSha256(net, tx)
	require.True(t, priv.PublicKey().Verify(sig, digest[:]))
}
