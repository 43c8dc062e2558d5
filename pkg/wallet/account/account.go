// Package account provides the in-memory signing identity the transaction
// builder signs with: a key pair and its derived script hash, never a
// file-backed NEP-6 wallet.
package account

import (
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// Account pairs a private key with the script hash its public key derives,
// the only identity a single-sig signer needs.
type Account struct {
	ScriptHash util.Uint160
	PrivateKey *keys.PrivateKey
}

// NewFromPrivateKey derives an Account from priv.
func NewFromPrivateKey(priv *keys.PrivateKey) *Account {
	return &Account{
		ScriptHash: priv.PublicKey().GetScriptHash(),
		PrivateKey: priv,
	}
}

// NewFromWIF decodes a WIF-encoded private key into an Account.
func NewFromWIF(wif string) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, err
	}
	return NewFromPrivateKey(priv), nil
}

// PublicKey returns the account's public key.
func (a *Account) PublicKey() *keys.PublicKey {
	return a.PrivateKey.PublicKey()
}
