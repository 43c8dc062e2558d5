package codegen

import (
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/compiler/pragma"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

func buildManifest(mod *ir.Module, nm *NeoModule, entries []methodEntry) (*manifest.Manifest, error) {
	root := mod.RootClass()

	m := manifest.NewManifest(util.Uint160{}, root.Name)

	for i := range root.Methods {
		src := &root.Methods[i]
		if !src.Public || !src.Static {
			continue
		}
		ne := nm.findMethod(root.Name+"."+src.Name, src)
		if ne == nil {
			return nil, fmt.Errorf("exported method %s has no lowered body", src.Name)
		}
		params := make([]manifest.Parameter, len(src.Params))
		for j, p := range src.Params {
			params[j] = manifest.NewParameter(p.Name, paramTypeOf(p.Type))
		}
		m.ABI.Methods = append(m.ABI.Methods, manifest.Method{
			Name:       src.Name,
			Offset:     addressOf(entries, ne.Name),
			Parameters: params,
			ReturnType: paramTypeOf(src.Return),
			Safe:       src.Safe || pragma.IsSafe(src),
		})
	}

	for _, f := range root.Fields {
		if !f.Static || !pragma.IsEventType(f.Type) {
			continue
		}
		params := make([]manifest.Parameter, len(f.EventParams))
		for j, p := range f.EventParams {
			params[j] = manifest.NewParameter(p.Name, paramTypeOf(p.Type))
		}
		m.ABI.Events = append(m.ABI.Events, manifest.Event{Name: f.Name, Parameters: params})
	}

	perms, err := pragma.PermissionsOf(root)
	if err != nil {
		return nil, err
	}
	m.Permissions = perms

	m.SupportedStandards = pragma.SupportedStandardsOf(root)

	pubs, err := pragma.GroupsOf(root)
	if err != nil {
		return nil, err
	}
	for _, pub := range pubs {
		m.Groups = append(m.Groups, manifest.Group{PublicKey: pub})
	}

	trusts, err := pragma.TrustsOf(root)
	if err != nil {
		return nil, err
	}
	for _, h := range trusts {
		m.Trusts.Add(manifest.PermissionDesc{Type: manifest.PermissionHash, Value: h})
	}

	return m, nil
}

func addressOf(entries []methodEntry, name string) int {
	for _, e := range entries {
		if e.Name == name {
			return e.Address
		}
	}
	return -1
}

func paramTypeOf(t ir.ValueType) manifest.ParamType {
	switch t.Kind {
	case ir.TVoid:
		return manifest.VoidType
	case ir.TInt, ir.TLong:
		return manifest.IntegerType
	case ir.TBoolean:
		return manifest.BoolType
	case ir.TString:
		return manifest.StringType
	case ir.TByteArray:
		return manifest.ByteArrayType
	case ir.THash160:
		return manifest.Hash160Type
	case ir.THash256:
		return manifest.Hash256Type
	case ir.TPublicKey:
		return manifest.PublicKeyType
	case ir.TSignature:
		return manifest.SignatureType
	case ir.TArray:
		return manifest.ArrayType
	case ir.TMap:
		return manifest.MapType
	default:
		return manifest.AnyType
	}
}
