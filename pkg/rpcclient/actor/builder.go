// Package actor implements the transaction builder: the component that
// takes a script, a signer set and a fee policy and turns them into a
// signed, broadcastable transaction by consulting a Node Client for fee
// estimation and, optionally, a sender-balance check.
package actor

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/core/fee"
	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/neow3j-go/pkg/wallet/account"
)

// DefaultMaxValidUntilBlockIncrement mirrors Neo N3's default
// MaxValidUntilBlockIncrement protocol setting (24h of 15s blocks); it's
// the span a transaction stays valid for when ValidUntilBlock isn't set
// explicitly.
const DefaultMaxValidUntilBlockIncrement = 5760

// MaxTransactionAttributes bounds signers and attributes combined.
const MaxTransactionAttributes = 16

// ContractSigner is a signer backed by a deployed contract rather than a
// key pair: Build leaves its witness's invocation script as the
// caller-supplied parameter push sequence instead of a signature.
type ContractSigner struct {
	Account          util.Uint160
	InvocationScript []byte
}

// Options configures a Builder.
type Options struct {
	// MaxValidUntilBlockIncrement overrides DefaultMaxValidUntilBlockIncrement.
	MaxValidUntilBlockIncrement uint32
	// FeePolicy governs what happens when the sender's GAS balance can't
	// cover the estimated fees. Defaults to fee.Default (no check) when
	// unset.
	FeePolicy fee.Policy
}

// Builder assembles one transaction at a time; it isn't safe for
// concurrent use on the same instance, but independent Builders share no
// mutable state.
type Builder struct {
	client  NodeClient
	network uint32
	opts    Options

	version byte
	nonce   *uint32
	vub     *uint32
	script  []byte

	signers    []transaction.Signer
	attributes []transaction.Attribute

	additionalSystemFee  int64
	additionalNetworkFee int64

	accounts        map[util.Uint160]*account.Account
	contractSigners map[util.Uint160]*ContractSigner

	firstSigner *util.Uint160
}

// New creates a Builder that talks to client on the given network magic.
func New(client NodeClient, network uint32, opts Options) *Builder {
	if opts.MaxValidUntilBlockIncrement == 0 {
		opts.MaxValidUntilBlockIncrement = DefaultMaxValidUntilBlockIncrement
	}
	if opts.FeePolicy == nil {
		opts.FeePolicy = fee.Default{}
	}
	return &Builder{
		client:          client,
		network:         network,
		opts:            opts,
		version:         0,
		accounts:        make(map[util.Uint160]*account.Account),
		contractSigners: make(map[util.Uint160]*ContractSigner),
	}
}

// SetNonce fixes the transaction's nonce instead of drawing one at random
// in Build.
func (b *Builder) SetNonce(n uint32) *Builder {
	b.nonce = &n
	return b
}

// SetValidUntilBlock fixes ValidUntilBlock instead of deriving it in Build
// from the current block count.
func (b *Builder) SetValidUntilBlock(h uint32) *Builder {
	b.vub = &h
	return b
}

// SetScript sets the invocation script the transaction executes.
func (b *Builder) SetScript(script []byte) *Builder {
	b.script = script
	return b
}

// SetAdditionalSystemFee adds extra GAS on top of the system fee Build
// estimates via invoke_script.
func (b *Builder) SetAdditionalSystemFee(fee int64) *Builder {
	b.additionalSystemFee = fee
	return b
}

// SetAdditionalNetworkFee adds extra GAS on top of the network fee Build
// estimates via calculate_network_fee.
func (b *Builder) SetAdditionalNetworkFee(fee int64) *Builder {
	b.additionalNetworkFee = fee
	return b
}

// AddSigner appends signer to the signer set and, for a key-pair account,
// registers acc so Sign can auto-witness it. acc is nil when called from
// AddContractSigner; Build and Sign reject a signer that has neither an
// account nor a contract invocation script.
func (b *Builder) AddSigner(signer transaction.Signer, acc *account.Account) error {
	for _, s := range b.signers {
		if s.Account.Equals(signer.Account) {
			return fmt.Errorf("duplicate signer for account %s: concerning the same account", signer.Account.StringLE())
		}
	}
	if len(b.signers)+1 > MaxTransactionAttributes {
		return errors.New("too many signers")
	}
	b.signers = append(b.signers, signer)
	if acc != nil {
		b.accounts[signer.Account] = acc
	}
	return nil
}

// AddContractSigner appends a contract-backed signer whose witness
// invocation script is supplied verbatim at Sign time.
func (b *Builder) AddContractSigner(signer transaction.Signer, cs ContractSigner) error {
	if err := b.AddSigner(signer, nil); err != nil {
		return err
	}
	b.contractSigners[signer.Account] = &cs
	return nil
}

// SetAttributes sets the transaction's attribute list, replacing any
// previous one.
func (b *Builder) SetAttributes(attrs ...transaction.Attribute) error {
	if len(attrs)+len(b.signers) > MaxTransactionAttributes {
		return errors.New("too many attributes")
	}
	highPriority := 0
	for _, a := range attrs {
		if a.Type == transaction.HighPriorityT {
			highPriority++
		}
	}
	if highPriority > 1 {
		return errors.New("HighPriority attribute may appear at most once")
	}
	b.attributes = attrs
	return nil
}

// SetFirstSigner moves the signer for account to index 0, matching the
// sender the node expects to pay fees. It fails if no such signer exists
// or if it carries the fee-only None scope.
func (b *Builder) SetFirstSigner(acct util.Uint160) error {
	idx := -1
	for i, s := range b.signers {
		if s.Account.Equals(acct) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("first-signer account %s not present", acct.StringLE())
	}
	if b.signers[idx].Scopes == transaction.None {
		return fmt.Errorf("first-signer account %s has fee-only scope", acct.StringLE())
	}
	if idx != 0 {
		b.signers[0], b.signers[idx] = b.signers[idx], b.signers[0]
	}
	b.firstSigner = &acct
	return nil
}

func randomNonce() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
