package transaction

import (
	"errors"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MaxSignerSubitems bounds AllowedContracts, AllowedGroups and Rules.
const MaxSignerSubitems = 16

// Signer attaches a witness scope to an account taking part in a
// transaction.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// EncodeBinary implements io.Serializable.
func (s *Signer) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(s.Account.BytesLE())
	w.WriteB(byte(s.Scopes))
	if s.Scopes&CustomContracts != 0 {
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, c := range s.AllowedContracts {
			w.WriteBytes(c.BytesLE())
		}
	}
	if s.Scopes&CustomGroups != 0 {
		io.WriteArray(w, s.AllowedGroups)
	}
	if s.Scopes&WitnessRules != 0 {
		w.WriteVarUint(uint64(len(s.Rules)))
		for i := range s.Rules {
			s.Rules[i].EncodeBinary(w)
			if w.Err != nil {
				return
			}
		}
	}
}

// DecodeBinary implements io.Serializable.
func (s *Signer) DecodeBinary(r *io.BinReader) {
	b := make([]byte, util.Uint160Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	account, err := util.Uint160DecodeBytesLE(b)
	if err != nil {
		r.Err = err
		return
	}
	s.Account = account
	s.Scopes = WitnessScope(r.ReadB())
	if r.Err != nil {
		return
	}
	if s.Scopes&^(Global|CalledByEntry|CustomContracts|CustomGroups|WitnessRules|None) != 0 {
		r.Err = errors.New("unknown witness scope bits set")
		return
	}
	if s.Scopes&Global != 0 && s.Scopes != Global {
		r.Err = errors.New("global scope cannot be combined with other scopes")
		return
	}
	if s.Scopes&CustomContracts != 0 {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxSignerSubitems {
			r.Err = errors.New("too many allowed contracts")
			return
		}
		s.AllowedContracts = make([]util.Uint160, n)
		for i := range s.AllowedContracts {
			cb := make([]byte, util.Uint160Size)
			r.ReadBytes(cb)
			if r.Err != nil {
				return
			}
			u, err := util.Uint160DecodeBytesLE(cb)
			if err != nil {
				r.Err = err
				return
			}
			s.AllowedContracts[i] = u
		}
	}
	if s.Scopes&CustomGroups != 0 {
		s.AllowedGroups = io.ReadArray(r, func() *keys.PublicKey { return new(keys.PublicKey) }, MaxSignerSubitems)
	}
	if s.Scopes&WitnessRules != 0 {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxSignerSubitems {
			r.Err = errors.New("too many witness rules")
			return
		}
		s.Rules = make([]WitnessRule, n)
		for i := range s.Rules {
			s.Rules[i].DecodeBinary(r)
			if r.Err != nil {
				return
			}
		}
	}
}
