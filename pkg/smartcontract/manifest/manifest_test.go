package manifest

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestNewPermissionPanics(t *testing.T) {
	require.Panics(t, func() { NewPermission(PermissionHash) })
	require.Panics(t, func() { NewPermission(PermissionHash, 1) })
	require.Panics(t, func() { NewPermission(PermissionGroup) })
	require.Panics(t, func() { NewPermission(PermissionWildcard, util.Uint160{}) })
}

func TestPermissionDescJSONRoundTrip(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		d := PermissionDesc{Type: PermissionWildcard}
		testserdes.MarshalUnmarshalJSON(t, &d, new(PermissionDesc))
	})
	t.Run("hash", func(t *testing.T) {
		d := PermissionDesc{Type: PermissionHash, Value: util.Uint160{1, 2, 3}}
		testserdes.MarshalUnmarshalJSON(t, &d, new(PermissionDesc))
	})
	t.Run("group", func(t *testing.T) {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		d := PermissionDesc{Type: PermissionGroup, Value: priv.PublicKey()}
		testserdes.MarshalUnmarshalJSON(t, &d, new(PermissionDesc))
	})
}

func TestPermissionsAreValid(t *testing.T) {
	ps := Permissions{*NewPermission(PermissionHash, util.Uint160{1}), *NewPermission(PermissionHash, util.Uint160{2})}
	require.NoError(t, ps.AreValid())

	dup := Permissions{*NewPermission(PermissionHash, util.Uint160{1}), *NewPermission(PermissionHash, util.Uint160{1})}
	require.Error(t, dup.AreValid())
}

func TestManifestJSONRoundTrip(t *testing.T) {
	h := util.Uint160{1, 2, 3}
	m := DefaultManifest(h, "TestContract")
	m.ABI.Methods = append(m.ABI.Methods, Method{
		Name:       "transfer",
		Parameters: []Parameter{NewParameter("to", Hash160Type), NewParameter("amount", IntegerType)},
		ReturnType: BoolType,
	})
	m.ABI.Events = append(m.ABI.Events, Event{
		Name:       "Transfer",
		Parameters: []Parameter{NewParameter("from", Hash160Type), NewParameter("to", Hash160Type)},
	})
	m.SupportedStandards = append(m.SupportedStandards, NEP17StandardName)

	testserdes.MarshalUnmarshalJSON(t, m, new(Manifest))
}

func TestManifestBinaryRoundTrip(t *testing.T) {
	h := util.Uint160{9, 9, 9}
	m := DefaultManifest(h, "Roundtrip")
	testserdes.EncodeDecodeBinary(t, m, new(Manifest))
}

func TestManifestIsValid(t *testing.T) {
	h := util.Uint160{1}
	m := DefaultManifest(h, "OK")
	m.ABI.Methods = append(m.ABI.Methods, Method{Name: "main"})
	require.NoError(t, m.IsValid(util.Uint160{}))

	empty := DefaultManifest(h, "")
	require.Error(t, empty.IsValid(util.Uint160{}))
}

func TestManifestCanCall(t *testing.T) {
	callerHash := util.Uint160{1}
	calleeHash := util.Uint160{2}
	caller := NewManifest(callerHash, "Caller")
	caller.Permissions = Permissions{*NewPermission(PermissionHash, calleeHash)}
	caller.Permissions[0].Methods.Add("transfer")

	callee := NewManifest(calleeHash, "Callee")

	require.True(t, caller.CanCall(calleeHash, callee, "transfer"))
	require.False(t, caller.CanCall(calleeHash, callee, "burn"))
}
