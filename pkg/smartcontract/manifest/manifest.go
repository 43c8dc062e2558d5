package manifest

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MaxManifestSize is the maximum encoded size of a valid manifest.
const MaxManifestSize = math.MaxUint16

// NEP standard identifiers recognized in SupportedStandards.
const (
	NEP17StandardName = "NEP-17"
	NEP11StandardName = "NEP-11"
)

// Manifest carries a deployed contract's name, ABI, group memberships,
// call permissions and trust declarations.
type Manifest struct {
	Name               string              `json:"name"`
	ABI                ABI                 `json:"abi"`
	Groups             []Group             `json:"groups"`
	Permissions        Permissions         `json:"permissions"`
	SupportedStandards []string            `json:"supportedstandards"`
	Trusts             WildPermissionDescs `json:"trusts"`
	Extra              interface{}         `json:"extra"`
}

// NewManifest builds an empty manifest for the contract at hash h.
func NewManifest(h util.Uint160, name string) *Manifest {
	m := &Manifest{
		Name: name,
		ABI: ABI{
			Hash:    h,
			Methods: []Method{},
			Events:  []Event{},
		},
		Groups:             []Group{},
		Permissions:        Permissions{},
		SupportedStandards: []string{},
	}
	m.Trusts.Restrict()
	return m
}

// DefaultManifest builds a manifest that permits calling any contract.
func DefaultManifest(h util.Uint160, name string) *Manifest {
	m := NewManifest(h, name)
	m.Permissions = Permissions{*NewPermission(PermissionWildcard)}
	m.Permissions[0].Methods.Restrict()
	m.Permissions[0].Methods.Value = nil
	return m
}

// CanCall reports whether this contract is permitted to call method on the
// contract described by callee.
func (m *Manifest) CanCall(calleeHash util.Uint160, callee *Manifest, method string) bool {
	for i := range m.Permissions {
		if m.Permissions[i].IsAllowed(calleeHash, callee, method) {
			return true
		}
	}
	return false
}

// IsValid checks the manifest's internal consistency and, if hash is
// non-zero, that group signatures attest to it.
func (m *Manifest) IsValid(hash util.Uint160) error {
	if m.Name == "" {
		return errors.New("empty contract name")
	}
	if err := m.ABI.IsValid(); err != nil {
		return err
	}
	if err := m.Permissions.AreValid(); err != nil {
		return err
	}
	for i := range m.Groups {
		if err := m.Groups[i].IsValid(hash); err != nil {
			return err
		}
	}
	return nil
}

// EncodeBinary implements io.Serializable by JSON-encoding the manifest
// into a length-prefixed byte string.
func (m *Manifest) EncodeBinary(w *io.BinWriter) {
	data, err := json.Marshal(m)
	if err != nil {
		w.Err = err
		return
	}
	w.WriteVarBytes(data)
}

// DecodeBinary implements io.Serializable.
func (m *Manifest) DecodeBinary(r *io.BinReader) {
	data := r.ReadVarBytes(MaxManifestSize)
	if r.Err != nil {
		return
	}
	if err := json.Unmarshal(data, m); err != nil {
		r.Err = err
	}
}
