package manifest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// PermissionType identifies which contracts a Permission restricts calls to.
type PermissionType uint8

const (
	// PermissionWildcard allows calling any contract.
	PermissionWildcard PermissionType = 0
	// PermissionHash restricts calls to a contract with a specific hash.
	PermissionHash PermissionType = 1
	// PermissionGroup restricts calls to contracts belonging to a group
	// identified by a public key.
	PermissionGroup PermissionType = 2
)

// PermissionDesc identifies the target of a Permission.
type PermissionDesc struct {
	Type  PermissionType
	Value interface{}
}

// Permission describes which contracts and methods a contract is allowed
// to invoke.
type Permission struct {
	Contract PermissionDesc `json:"contract"`
	Methods  WildStrings    `json:"methods"`
}

// Permissions is a list of Permission.
type Permissions []Permission

type permissionAux struct {
	Contract PermissionDesc `json:"contract"`
	Methods  WildStrings    `json:"methods"`
}

// NewPermission builds a Permission of the given type. args holds the
// PermissionDesc payload: none for PermissionWildcard, a util.Uint160 for
// PermissionHash, a *keys.PublicKey for PermissionGroup.
func NewPermission(typ PermissionType, args ...interface{}) *Permission {
	return &Permission{
		Contract: *newPermissionDesc(typ, args...),
		Methods:  WildStrings{Value: nil},
	}
}

func newPermissionDesc(typ PermissionType, args ...interface{}) *PermissionDesc {
	desc := &PermissionDesc{Type: typ}
	switch typ {
	case PermissionWildcard:
		if len(args) != 0 {
			panic("wildcard permission has no arguments")
		}
	case PermissionHash:
		if len(args) == 0 {
			panic("hash permission requires an argument")
		} else if u, ok := args[0].(util.Uint160); !ok {
			panic("hash permission requires a util.Uint160 argument")
		} else {
			desc.Value = u
		}
	case PermissionGroup:
		if len(args) == 0 {
			panic("group permission requires an argument")
		} else if pub, ok := args[0].(*keys.PublicKey); !ok {
			panic("group permission requires a public key argument")
		} else {
			desc.Value = pub
		}
	}
	return desc
}

// Hash returns the target hash for a hash-typed PermissionDesc.
func (d *PermissionDesc) Hash() util.Uint160 {
	return d.Value.(util.Uint160)
}

// Group returns the target public key for a group-typed PermissionDesc.
func (d *PermissionDesc) Group() *keys.PublicKey {
	return d.Value.(*keys.PublicKey)
}

// Equals reports whether two PermissionDesc values target the same contract.
func (d *PermissionDesc) Equals(v PermissionDesc) bool {
	if d.Type != v.Type {
		return false
	}
	switch d.Type {
	case PermissionHash:
		return d.Hash() == v.Hash()
	case PermissionGroup:
		return d.Group().Cmp(v.Group()) == 0
	}
	return true
}

// IsValid checks Permission for consistency: method names are non-empty
// and there are no duplicates.
func (p *Permission) IsValid() error {
	for _, m := range p.Methods.Value {
		if m == "" {
			return errors.New("empty method name")
		}
	}
	if len(p.Methods.Value) < 2 {
		return nil
	}
	seen := make(map[string]struct{}, len(p.Methods.Value))
	for _, m := range p.Methods.Value {
		if _, ok := seen[m]; ok {
			return errors.New("duplicate method names")
		}
		seen[m] = struct{}{}
	}
	return nil
}

// AreValid checks every Permission and ensures no two target the same
// contract descriptor.
func (ps Permissions) AreValid() error {
	for i := range ps {
		if err := ps[i].IsValid(); err != nil {
			return err
		}
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Contract.Equals(ps[j].Contract) {
				return errors.New("duplicate contract permissions")
			}
		}
	}
	return nil
}

// IsAllowed checks whether method on the contract identified by hash may be
// invoked under this permission, given the callee's manifest.
func (p *Permission) IsAllowed(hash util.Uint160, callee *Manifest, method string) bool {
	switch p.Contract.Type {
	case PermissionWildcard:
	case PermissionHash:
		if p.Contract.Hash() != hash {
			return false
		}
	case PermissionGroup:
		g := p.Contract.Group()
		found := false
		for i := range callee.Groups {
			if g.Equal(callee.Groups[i].PublicKey) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	default:
		panic(fmt.Sprintf("unexpected permission type: %d", p.Contract.Type))
	}
	return p.Methods.Contains(method)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Permission) UnmarshalJSON(data []byte) error {
	aux := new(permissionAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	p.Contract = aux.Contract
	p.Methods = aux.Methods
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d PermissionDesc) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case PermissionHash:
		h := d.Hash()
		return json.Marshal("0x" + hex.EncodeToString(h.BytesBE()))
	case PermissionGroup:
		return json.Marshal(hex.EncodeToString(d.Group().Bytes()))
	default:
		return []byte(`"*"`), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *PermissionDesc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	const uint160HexSize = 2 * util.Uint160Size
	switch len(s) {
	case 2 + uint160HexSize:
		if s[0] != '0' || s[1] != 'x' {
			return errors.New("invalid uint160")
		}
		s = s[2:]
		fallthrough
	case uint160HexSize:
		u, err := util.Uint160DecodeStringBE(s)
		if err != nil {
			return err
		}
		d.Type = PermissionHash
		d.Value = u
		return nil
	case 66:
		pub, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return err
		}
		d.Type = PermissionGroup
		d.Value = pub
		return nil
	case 1:
		if s == "*" {
			d.Type = PermissionWildcard
			return nil
		}
	}
	return errors.New("unknown permission descriptor")
}
