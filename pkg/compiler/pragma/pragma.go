// Package pragma interprets the annotations a compiler source class,
// field or method carries — @ContractHash, @Safe, @Syscall, @Struct,
// @Permission, @Trust, @SupportedStandard — projecting each into the
// typed configuration object the code generator or manifest builder
// actually consumes.
package pragma

import (
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// Annotation names the compiler recognizes. Any other annotation on a
// class, field or method is ignored rather than rejected, so source
// code can carry unrelated JVM annotations without failing the build.
const (
	ContractHash     = "ContractHash"
	Struct           = "Struct"
	Safe             = "Safe"
	Syscall          = "Syscall"
	Instruction      = "Instruction"
	Permission       = "Permission"
	Trust            = "Trust"
	Group            = "Group"
	SupportedStandard = "SupportedStandard"
)

func find(anns []ir.Annotation, name string) *ir.Annotation {
	for i := range anns {
		if anns[i].Name == name {
			return &anns[i]
		}
	}
	return nil
}

func stringArg(a *ir.Annotation, key string) (string, bool) {
	v, ok := a.Args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ContractHashOf returns the script hash a @ContractHash-annotated class
// proxies calls to.
func ContractHashOf(c *ir.Class) (util.Uint160, bool, error) {
	a := find(c.Annotations, ContractHash)
	if a == nil {
		return util.Uint160{}, false, nil
	}
	s, ok := stringArg(a, "value")
	if !ok {
		return util.Uint160{}, false, fmt.Errorf("@%s on %s missing a hash value", ContractHash, c.Name)
	}
	h, err := util.Uint160DecodeStringBE(s)
	if err != nil {
		return util.Uint160{}, false, fmt.Errorf("@%s on %s: %w", ContractHash, c.Name, err)
	}
	return h, true, nil
}

// IsSafe reports whether m carries @Safe, meaning the manifest should
// mark it as making no state changes.
func IsSafe(m *ir.Method) bool {
	return find(m.Annotations, Safe) != nil
}

// IntrinsicKind distinguishes the two ways an annotated method lowers
// to something other than a user call.
type IntrinsicKind int

const (
	NotIntrinsic IntrinsicKind = iota
	IntrinsicSyscall
	IntrinsicOpcode
)

// Intrinsic describes how an @Syscall/@Instruction-annotated method
// lowers: either directly to a SYSCALL of a named interop method, or to
// a literal opcode sequence.
type Intrinsic struct {
	Kind    IntrinsicKind
	Syscall string // interop method name, e.g. "System.Storage.Get"
	Opcode  string // mnemonic, e.g. "SHA256"
}

// IntrinsicOf inspects m's annotations and returns how it lowers, if at
// all.
func IntrinsicOf(m *ir.Method) (Intrinsic, bool) {
	if a := find(m.Annotations, Syscall); a != nil {
		if name, ok := stringArg(a, "value"); ok {
			return Intrinsic{Kind: IntrinsicSyscall, Syscall: name}, true
		}
	}
	if a := find(m.Annotations, Instruction); a != nil {
		if name, ok := stringArg(a, "value"); ok {
			return Intrinsic{Kind: IntrinsicOpcode, Opcode: name}, true
		}
	}
	return Intrinsic{}, false
}

// PermissionsOf builds the manifest permission list a class's
// @Permission annotations declare. An absent annotation set yields no
// permissions, matching the ABI's "calls nothing" default rather than
// the wildcard-allow-all one a deployed contract might separately opt
// into.
func PermissionsOf(c *ir.Class) (manifest.Permissions, error) {
	var perms manifest.Permissions
	for _, a := range c.Annotations {
		if a.Name != Permission {
			continue
		}
		methods, _ := a.Args["methods"].([]string)
		var methodList manifest.WildStrings
		if len(methods) == 0 {
			methodList.Restrict()
		} else {
			methodList.Value = methods
		}
		contract, ok := a.Args["contract"].(string)
		if !ok || contract == "*" {
			p := manifest.NewPermission(manifest.PermissionWildcard)
			p.Methods = methodList
			perms = append(perms, *p)
			continue
		}
		h, err := util.Uint160DecodeStringBE(contract)
		if err != nil {
			return nil, fmt.Errorf("@%s on %s: %w", Permission, c.Name, err)
		}
		p := manifest.NewPermission(manifest.PermissionHash, h)
		p.Methods = methodList
		perms = append(perms, *p)
	}
	return perms, nil
}

// SupportedStandardsOf collects the NEP identifiers a class's
// @SupportedStandard annotations declare.
func SupportedStandardsOf(c *ir.Class) []string {
	var out []string
	for _, a := range c.Annotations {
		if a.Name != SupportedStandard {
			continue
		}
		if s, ok := stringArg(&a, "value"); ok {
			out = append(out, s)
		}
	}
	return out
}

// GroupsOf builds the declared group public keys from a class's @Group
// annotations; the signature over the contract's own hash is supplied
// later, at deployment time, not by the compiler.
func GroupsOf(c *ir.Class) ([]*keys.PublicKey, error) {
	var out []*keys.PublicKey
	for _, a := range c.Annotations {
		if a.Name != Group {
			continue
		}
		s, ok := stringArg(&a, "value")
		if !ok {
			continue
		}
		pub, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return nil, fmt.Errorf("@%s on %s: %w", Group, c.Name, err)
		}
		out = append(out, pub)
	}
	return out, nil
}

// TrustsOf collects the contract hashes a class's @Trust annotations
// declare trusted to receive this contract's tokens without an explicit
// permission check.
func TrustsOf(c *ir.Class) ([]util.Uint160, error) {
	var out []util.Uint160
	for _, a := range c.Annotations {
		if a.Name != Trust {
			continue
		}
		s, ok := stringArg(&a, "value")
		if !ok {
			continue
		}
		h, err := util.Uint160DecodeStringBE(s)
		if err != nil {
			return nil, fmt.Errorf("@%s on %s: %w", Trust, c.Name, err)
		}
		out = append(out, h)
	}
	return out, nil
}

// IsEventType reports whether a field's declared class names one of the
// compiler's recognized Event carrier types (Event0Arg..Event4Args,
// mirroring how many NeoVM args send(...) packs).
func IsEventType(t ir.ValueType) bool {
	return t.Kind == ir.TObject && len(t.ClassName) >= len("Event") && t.ClassName[:len("Event")] == "Event"
}
