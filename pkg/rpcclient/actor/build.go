package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/neow3j-go/pkg/core/fee"
	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// gasHash is the GAS native contract's script hash, used for the
// sender-balance check a fee.Consumer or fee.Supplier policy requests.
var gasHash util.Uint160

func init() {
	var err error
	gasHash, err = util.Uint160DecodeStringBE("0xd2a4cff31913016155e38e474a2c06d08be276cf")
	if err != nil {
		panic(err)
	}
}

// dummyInvocationLen is the size of a single-sig witness's invocation
// script once it carries a real signature: one PUSHDATA1 opcode, one byte
// of length and 64 bytes of signature.
const dummyInvocationLen = 66

// Build runs the fee-estimation pipeline and returns an unsigned, but
// otherwise complete, transaction: nonce and ValidUntilBlock are filled in
// if unset, SystemFee comes from invoke_script, NetworkFee from
// calculate_network_fee against dummy witnesses, and the sender's GAS
// balance is checked against the configured fee policy.
func (b *Builder) Build(ctx context.Context) (*transaction.Transaction, error) {
	if len(b.script) == 0 {
		return nil, errNoScript
	}
	if len(b.signers) == 0 {
		return nil, errNoSigners
	}

	tx := transaction.New(b.script)
	tx.Version = b.version
	tx.Signers = b.signers
	tx.Attributes = b.attributes

	nonce := b.nonce
	if nonce == nil {
		n, err := randomNonce()
		if err != nil {
			return nil, fmt.Errorf("drawing nonce: %w", err)
		}
		nonce = &n
	}
	tx.Nonce = *nonce

	vub := b.vub
	if vub == nil {
		height, err := b.client.GetBlockCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting block count: %w", err)
		}
		h := height + b.opts.MaxValidUntilBlockIncrement - 1
		vub = &h
	}
	tx.ValidUntilBlock = *vub

	inv, err := b.client.InvokeScript(ctx, tx.Script, tx.Signers)
	if err != nil {
		return nil, fmt.Errorf("estimating system fee: %w", err)
	}
	if inv.Failed() {
		return nil, fmt.Errorf("script faulted during system fee estimation: %s", inv.FaultException)
	}
	tx.SystemFee = inv.GasConsumed + b.additionalSystemFee

	if err := b.attachDummyWitnesses(tx); err != nil {
		return nil, err
	}
	raw, err := encodeTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("encoding transaction for network fee estimation: %w", err)
	}
	netFee, err := b.client.CalculateNetworkFee(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("estimating network fee: %w", err)
	}
	tx.NetworkFee = netFee + b.additionalNetworkFee
	tx.Scripts = nil

	if fee.HasBalanceCheck(b.opts.FeePolicy) {
		balance, err := b.senderBalance(ctx, tx.Sender())
		if err != nil {
			return nil, fmt.Errorf("checking sender balance: %w", err)
		}
		if err := fee.Apply(b.opts.FeePolicy, tx.SystemFee+tx.NetworkFee, balance); err != nil {
			return nil, err
		}
	}

	if tx.HasAttribute(transaction.HighPriorityT) {
		if err := b.checkHighPriority(ctx, tx.Sender()); err != nil {
			return nil, err
		}
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// checkHighPriority verifies, when the configured NodeClient can report
// the current committee, that sender is actually one of its members;
// a HighPriority attribute from anyone else is silently dropped by every
// node on the network. The check is skipped, not failed, when the client
// can't answer it.
func (b *Builder) checkHighPriority(ctx context.Context, sender util.Uint160) error {
	cc, ok := b.client.(CommitteeClient)
	if !ok {
		return nil
	}
	committee, err := cc.GetCommittee(ctx)
	if err != nil {
		return fmt.Errorf("checking committee membership for HighPriority: %w", err)
	}
	for _, pub := range committee {
		if pub.GetScriptHash().Equals(sender) {
			return nil
		}
	}
	return fmt.Errorf("sender %s carries a HighPriority attribute but isn't a committee member", sender.StringLE())
}

var (
	errNoScript  = fmt.Errorf("transaction script not set")
	errNoSigners = fmt.Errorf("transaction has no signers")
)

// attachDummyWitnesses fills tx.Scripts with placeholder witnesses sized
// like the real ones Sign will later produce, so CalculateNetworkFee
// charges for the verification cost the node will actually pay.
func (b *Builder) attachDummyWitnesses(tx *transaction.Transaction) error {
	tx.Scripts = make([]transaction.Witness, len(tx.Signers))
	for i, s := range tx.Signers {
		if cs, ok := b.contractSigners[s.Account]; ok {
			tx.Scripts[i] = transaction.Witness{InvocationScript: cs.InvocationScript}
			continue
		}
		acc, ok := b.accounts[s.Account]
		if !ok {
			return fmt.Errorf("no account or contract invocation script registered for signer %s", s.Account.StringLE())
		}
		tx.Scripts[i] = transaction.Witness{
			InvocationScript:   make([]byte, dummyInvocationLen),
			VerificationScript: acc.PublicKey().GetVerificationScript(),
		}
	}
	return nil
}

func encodeTransaction(tx *transaction.Transaction) ([]byte, error) {
	w := io.NewBufBinWriter()
	tx.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// senderBalance queries the GAS native contract's balanceOf for sender.
func (b *Builder) senderBalance(ctx context.Context, sender util.Uint160) (int64, error) {
	inv, err := b.client.InvokeFunction(ctx, gasHash, "balanceOf", []interface{}{sender}, nil)
	if err != nil {
		return 0, err
	}
	if inv.Failed() {
		return 0, fmt.Errorf("balanceOf faulted: %s", inv.FaultException)
	}
	if len(inv.Stack) == 0 {
		return 0, fmt.Errorf("balanceOf returned an empty stack")
	}
	return decodeIntegerStackItem(inv.Stack[0])
}

// decodeIntegerStackItem reads a NeoVM Integer stack item as rendered by
// invoke_function's JSON result: a decimal string in the "value" field.
func decodeIntegerStackItem(item result.StackItem) (int64, error) {
	if item.Type != "Integer" {
		return 0, fmt.Errorf("expected an Integer stack item, got %s", item.Type)
	}
	var s string
	if err := json.Unmarshal(item.Value, &s); err != nil {
		return 0, fmt.Errorf("decoding integer stack item: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing integer stack item %q: %w", s, err)
	}
	return n, nil
}
