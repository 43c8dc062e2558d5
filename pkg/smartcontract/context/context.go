// Package context carries a transaction and the signatures collected for
// it across processes, so a multi-signature transaction can be cosigned
// offline by several parties before being assembled into witnesses.
package context

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/script"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

func encodeTx(tx *transaction.Transaction) ([]byte, error) {
	bw := io.NewBufBinWriter()
	tx.EncodeBinary(bw.BinWriter)
	if bw.Err != nil {
		return nil, bw.Err
	}
	return bw.Bytes(), nil
}

func decodeTx(data []byte) (*transaction.Transaction, error) {
	tx := new(transaction.Transaction)
	r := io.NewBinReaderFromBuf(data)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return tx, nil
}

// PartialSigningContext tracks the signatures collected so far for every
// signer account on a transaction, so offline cosigners can exchange a
// single value until enough signatures exist to build the final
// witnesses.
type PartialSigningContext struct {
	Network uint32
	Tx      *transaction.Transaction
	// Signatures maps a signer account to the signatures collected for
	// the public keys in its verification script, keyed by the public
	// key's compressed encoding (hex).
	Signatures map[util.Uint160]map[string][]byte
}

// NewPartialSigningContext creates an empty context for tx under the given
// network magic.
func NewPartialSigningContext(network uint32, tx *transaction.Transaction) *PartialSigningContext {
	return &PartialSigningContext{
		Network:    network,
		Tx:         tx,
		Signatures: make(map[util.Uint160]map[string][]byte),
	}
}

// AddSignature records a cosigner's signature over the context's
// transaction, verifying it against pub before accepting it.
func (c *PartialSigningContext) AddSignature(account util.Uint160, pub *keys.PublicKey, sig []byte) error {
	digest := hash.NetSha256(c.Network, c.Tx)
	if !pub.Verify(sig, digest[:]) {
		return errors.New("signature does not verify under the given public key")
	}
	sigs, ok := c.Signatures[account]
	if !ok {
		sigs = make(map[string][]byte)
		c.Signatures[account] = sigs
	}
	sigs[hex.EncodeToString(pub.Bytes())] = sig
	return nil
}

// GetWitness assembles the witness for a single-signature account once its
// one required signature has been collected.
func (c *PartialSigningContext) GetWitness(account util.Uint160, pub *keys.PublicKey) (*transaction.Witness, error) {
	sigs, ok := c.Signatures[account]
	if !ok {
		return nil, fmt.Errorf("no signatures collected for account %s", account.StringLE())
	}
	sig, ok := sigs[hex.EncodeToString(pub.Bytes())]
	if !ok {
		return nil, fmt.Errorf("no signature from %s for account %s", pub.String(), account.StringLE())
	}
	return &transaction.Witness{
		InvocationScript:   append([]byte{0x0c, 0x40}, sig...),
		VerificationScript: script.BuildVerificationScript(pub),
	}, nil
}

// GetMultiSigWitness assembles the witness for an m-of-n multi-signature
// account once at least m of the n public keys' signatures have been
// collected, ordering them to match the ascending key order of the
// verification script.
func (c *PartialSigningContext) GetMultiSigWitness(account util.Uint160, m int, pubs keys.PublicKeys) (*transaction.Witness, error) {
	sigs, ok := c.Signatures[account]
	if !ok {
		return nil, fmt.Errorf("no signatures collected for account %s", account.StringLE())
	}
	verif, err := script.BuildMultiSigVerificationScript(m, pubs)
	if err != nil {
		return nil, err
	}

	ordered := make(keys.PublicKeys, len(pubs))
	copy(ordered, pubs)
	sort.Sort(ordered)

	var invocation []byte
	collected := 0
	for _, pub := range ordered {
		sig, ok := sigs[hex.EncodeToString(pub.Bytes())]
		if !ok {
			continue
		}
		invocation = append(invocation, 0x0c, 0x40)
		invocation = append(invocation, sig...)
		collected++
		if collected == m {
			break
		}
	}
	if collected < m {
		return nil, fmt.Errorf("collected %d of %d required signatures for account %s", collected, m, account.StringLE())
	}
	return &transaction.Witness{
		InvocationScript:   invocation,
		VerificationScript: verif,
	}, nil
}

type partialSigningContextJSON struct {
	Network    uint32                       `json:"network"`
	Tx         []byte                       `json:"tx"`
	Signatures map[string]map[string]string `json:"signatures"`
}

// MarshalJSON implements json.Marshaler, so a PartialSigningContext can be
// handed off to another process for cosigning.
func (c *PartialSigningContext) MarshalJSON() ([]byte, error) {
	txData, err := encodeTx(c.Tx)
	if err != nil {
		return nil, err
	}
	sigs := make(map[string]map[string]string, len(c.Signatures))
	for account, byPub := range c.Signatures {
		m := make(map[string]string, len(byPub))
		for pub, sig := range byPub {
			m[pub] = hex.EncodeToString(sig)
		}
		sigs["0x"+account.StringBE()] = m
	}
	return json.Marshal(partialSigningContextJSON{
		Network:    c.Network,
		Tx:         txData,
		Signatures: sigs,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *PartialSigningContext) UnmarshalJSON(data []byte) error {
	var aux partialSigningContextJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	tx, err := decodeTx(aux.Tx)
	if err != nil {
		return err
	}
	sigs := make(map[util.Uint160]map[string][]byte, len(aux.Signatures))
	for acctStr, byPub := range aux.Signatures {
		acct, err := util.Uint160DecodeStringBE(strings.TrimPrefix(acctStr, "0x"))
		if err != nil {
			return err
		}
		m := make(map[string][]byte, len(byPub))
		for pub, sigHex := range byPub {
			sig, err := hex.DecodeString(sigHex)
			if err != nil {
				return err
			}
			m[pub] = sig
		}
		sigs[acct] = m
	}
	c.Network = aux.Network
	c.Tx = tx
	c.Signatures = sigs
	return nil
}
