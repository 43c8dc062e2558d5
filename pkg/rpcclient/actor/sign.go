package actor

import (
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/script"
)

// Sign produces a witness for every signer on tx, in signer order: a
// key-pair account signs tx's network-scoped sighash and witnesses with
// its signature and verification script; a contract-backed signer gets
// the invocation script it was registered with, verbatim. A signer backed
// by a multi-sig verification script is rejected — the caller must
// assemble that witness itself and pass it in as a contract signer.
func (b *Builder) Sign(tx *transaction.Transaction) error {
	scripts := make([]transaction.Witness, len(tx.Signers))
	for i, s := range tx.Signers {
		if cs, ok := b.contractSigners[s.Account]; ok {
			scripts[i] = transaction.Witness{InvocationScript: cs.InvocationScript}
			continue
		}
		acc, ok := b.accounts[s.Account]
		if !ok {
			return fmt.Errorf("no account registered for signer %s", s.Account.StringLE())
		}
		verification := acc.PublicKey().GetVerificationScript()
		if m, _, err := script.ParseVerificationScript(verification); err == nil && m > 1 {
			return fmt.Errorf("signer %s is backed by a multi-sig account: assemble its witness explicitly and add it via AddContractSigner", s.Account.StringLE())
		}
		sig := acc.PrivateKey.SignHashable(b.network, tx)
		invocation, err := singleSigInvocationScript(sig)
		if err != nil {
			return fmt.Errorf("building invocation script for signer %s: %w", s.Account.StringLE(), err)
		}
		scripts[i] = transaction.Witness{InvocationScript: invocation, VerificationScript: verification}
	}
	tx.Scripts = scripts
	return nil
}

func singleSigInvocationScript(sig []byte) ([]byte, error) {
	b := script.NewBuilder()
	b.PushData(sig)
	return b.Script()
}
