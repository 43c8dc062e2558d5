package actor

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/core/fee"
	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/neow3j-go/pkg/wallet/account"
	"github.com/stretchr/testify/require"
)

const testNetwork = 860833102 // mainnet magic, used only to exercise the code path

type stubClient struct {
	blockCount     uint32
	invokeGas      int64
	invokeFault    string
	networkFee     int64
	balance        int64
	committee      keys.PublicKeys
	committeeErr   error
	sendErr        error
	lastRawTx      []byte
	appLog         *result.ApplicationLog
	invokeFuncArgs []interface{}
}

func (s *stubClient) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	inv := &result.Invoke{State: "HALT", GasConsumed: s.invokeGas}
	if s.invokeFault != "" {
		inv.State = "FAULT"
		inv.FaultException = s.invokeFault
	}
	return inv, nil
}

func (s *stubClient) InvokeFunction(ctx context.Context, hash util.Uint160, method string, args []interface{}, signers []transaction.Signer) (*result.Invoke, error) {
	s.invokeFuncArgs = args
	return &result.Invoke{
		State: "HALT",
		Stack: []result.StackItem{{Type: "Integer", Value: []byte(`"` + itoa(s.balance) + `"`)}},
	}, nil
}

func (s *stubClient) CalculateNetworkFee(ctx context.Context, rawTx []byte) (int64, error) {
	s.lastRawTx = rawTx
	return s.networkFee, nil
}

func (s *stubClient) GetBlockCount(ctx context.Context) (uint32, error) {
	return s.blockCount, nil
}

func (s *stubClient) SendRawTransaction(ctx context.Context, rawTx []byte) (util.Uint256, error) {
	if s.sendErr != nil {
		return util.Uint256{}, s.sendErr
	}
	return util.Uint256{0x01}, nil
}

func (s *stubClient) GetApplicationLog(ctx context.Context, txHash util.Uint256) (*result.ApplicationLog, error) {
	return s.appLog, nil
}

func (s *stubClient) GetCommittee(ctx context.Context) (keys.PublicKeys, error) {
	return s.committee, s.committeeErr
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func newTestAccount(t *testing.T) *account.Account {
	t.Helper()
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	return account.NewFromPrivateKey(priv)
}

func TestBuilderAddSignerRejectsDuplicates(t *testing.T) {
	b := New(&stubClient{}, testNetwork, Options{})
	acc := newTestAccount(t)
	signer := transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}

	require.NoError(t, b.AddSigner(signer, acc))
	err := b.AddSigner(signer, acc)
	require.Error(t, err)
	require.ErrorContains(t, err, "concerning the same account")
}

func TestBuilderSetAttributesRejectsDuplicateHighPriority(t *testing.T) {
	b := New(&stubClient{}, testNetwork, Options{})
	err := b.SetAttributes(
		transaction.Attribute{Type: transaction.HighPriorityT, Value: &transaction.HighPriority{}},
		transaction.Attribute{Type: transaction.HighPriorityT, Value: &transaction.HighPriority{}},
	)
	require.Error(t, err)
}

func TestBuilderSetFirstSignerMovesSignerToFront(t *testing.T) {
	b := New(&stubClient{}, testNetwork, Options{})
	acc1, acc2 := newTestAccount(t), newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc1.ScriptHash, Scopes: transaction.CalledByEntry}, acc1))
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc2.ScriptHash, Scopes: transaction.CalledByEntry}, acc2))

	require.NoError(t, b.SetFirstSigner(acc2.ScriptHash))
	require.Equal(t, acc2.ScriptHash, b.signers[0].Account)
}

func TestBuilderSetFirstSignerRejectsFeeOnlyScope(t *testing.T) {
	b := New(&stubClient{}, testNetwork, Options{})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.None}, acc))

	err := b.SetFirstSigner(acc.ScriptHash)
	require.Error(t, err)
}

func TestBuilderBuildFillsNonceAndFees(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeGas: 500, networkFee: 200}
	b := New(client, testNetwork, Options{})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}, acc))
	b.SetScript([]byte{0x01, 0x02})

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NotZero(t, tx.Nonce)
	require.Equal(t, uint32(100+DefaultMaxValidUntilBlockIncrement-1), tx.ValidUntilBlock)
	require.Equal(t, int64(500), tx.SystemFee)
	require.Equal(t, int64(200), tx.NetworkFee)
	require.Nil(t, tx.Scripts)
}

func TestBuilderBuildPropagatesFault(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeFault: "boom"}
	b := New(client, testNetwork, Options{})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}, acc))
	b.SetScript([]byte{0x01})

	_, err := b.Build(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "boom")
}

func TestBuilderBuildRejectsInsufficientBalance(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeGas: 1000, networkFee: 1000, balance: 500}
	b := New(client, testNetwork, Options{FeePolicy: fee.Supplier{}})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}, acc))
	b.SetScript([]byte{0x01})

	_, err := b.Build(context.Background())
	require.Error(t, err)
}

func TestBuilderSignProducesWitnessPerSigner(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeGas: 100, networkFee: 100}
	b := New(client, testNetwork, Options{})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}, acc))
	b.SetScript([]byte{0x01})

	tx, err := b.Build(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Sign(tx))
	require.Len(t, tx.Scripts, 1)
	require.NotEmpty(t, tx.Scripts[0].InvocationScript)
	require.NotEmpty(t, tx.Scripts[0].VerificationScript)
}

func TestBuilderSignUsesContractSignerInvocationScriptVerbatim(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeGas: 100, networkFee: 100}
	b := New(client, testNetwork, Options{})
	contractHash := util.Uint160{0xAA}
	require.NoError(t, b.AddContractSigner(
		transaction.Signer{Account: contractHash, Scopes: transaction.CalledByEntry},
		ContractSigner{Account: contractHash, InvocationScript: []byte{0x11, 0x22}},
	))
	b.SetScript([]byte{0x01})

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Sign(tx))
	require.Equal(t, []byte{0x11, 0x22}, tx.Scripts[0].InvocationScript)
	require.Empty(t, tx.Scripts[0].VerificationScript)
}

func TestBuilderSend(t *testing.T) {
	client := &stubClient{blockCount: 100, invokeGas: 100, networkFee: 100}
	b := New(client, testNetwork, Options{})
	acc := newTestAccount(t)
	require.NoError(t, b.AddSigner(transaction.Signer{Account: acc.ScriptHash, Scopes: transaction.CalledByEntry}, acc))
	b.SetScript([]byte{0x01})

	tx, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Sign(tx))

	tracked, err := b.Send(context.Background(), tx, "", 100)
	require.NoError(t, err)
	require.Equal(t, util.Uint256{0x01}, tracked.Hash)
}
