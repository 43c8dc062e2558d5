package codegen

import (
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/compiler/pragma"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// MaxSlots bounds the static-field and local-variable/parameter slot
// counts INITSSLOT/INITSLOT can address.
const MaxSlots = 255

// context carries everything lowering needs to resolve a call or field
// reference against the rest of the module.
type context struct {
	mod          *ir.Module
	staticSlots  map[string]int // "Class.field" -> slot, root class only
	contractHash map[string]util.Uint160
	module       *NeoModule
}

// Compile lowers mod into a NEF file and manifest. compilerIdentity is
// recorded in the NEF's Compiler field.
func Compile(mod *ir.Module, compilerIdentity string) (*nef.File, *manifest.Manifest, error) {
	if err := validate(mod); err != nil {
		return nil, nil, err
	}

	root := mod.RootClass()
	ctx := &context{
		mod:          mod,
		staticSlots:  map[string]int{},
		contractHash: map[string]util.Uint160{},
	}
	for i, f := range root.Fields {
		if !f.Static {
			continue
		}
		if i >= MaxSlots {
			return nil, nil, fmt.Errorf("%s: more than %d static fields", root.Name, MaxSlots)
		}
		ctx.staticSlots[root.Name+"."+f.Name] = i
	}
	for i := range mod.Classes {
		c := &mod.Classes[i]
		if h, ok, err := pragma.ContractHashOf(c); err != nil {
			return nil, nil, err
		} else if ok {
			ctx.contractHash[c.Name] = h
		}
	}

	nm := &NeoModule{StaticCount: len(ctx.staticSlots)}
	ctx.module = nm

	var init *NeoMethod
	if nm.StaticCount > 0 {
		init = &NeoMethod{Name: "_initialize"}
		nm.Methods = append(nm.Methods, init)
	}

	for i := range mod.Classes {
		c := &mod.Classes[i]
		if _, proxy := ctx.contractHash[c.Name]; proxy {
			continue // lowered as inline SYSCALLs at the call site, never has a body
		}
		for j := range c.Methods {
			m := &c.Methods[j]
			nm.Methods = append(nm.Methods, &NeoMethod{
				Name:       c.Name + "." + m.Name,
				Source:     m,
				Exported:   c == root && m.Public && m.Static,
				ParamCount: len(m.Params),
				LocalCount: len(m.Locals),
			})
		}
	}

	if init != nil {
		if err := lowerInitialize(ctx, init); err != nil {
			return nil, nil, err
		}
	}
	for _, nmethod := range nm.Methods {
		if nmethod == init {
			continue
		}
		if err := lowerMethod(ctx, nmethod); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", nmethod.Name, err)
		}
	}

	script, entries, err := layout(nm)
	if err != nil {
		return nil, nil, err
	}

	manif, err := buildManifest(mod, nm, entries)
	if err != nil {
		return nil, nil, err
	}

	file, err := nef.NewFile(compilerIdentity, script, nil)
	if err != nil {
		return nil, nil, err
	}
	return file, manif, nil
}

// validate enforces the structural rules every class in the tree must
// satisfy before lowering is attempted.
func validate(mod *ir.Module) error {
	if len(mod.Classes) == 0 {
		return fmt.Errorf("empty module")
	}
	root := mod.RootClass()
	for i := range mod.Classes {
		c := &mod.Classes[i]
		isRoot := c == root
		for _, f := range c.Fields {
			if !f.Static && !c.IsStruct {
				return fmt.Errorf("%s.%s: instance fields are forbidden outside @Struct classes", c.Name, f.Name)
			}
		}
		for _, m := range c.Methods {
			if !m.Static {
				return fmt.Errorf("%s.%s: instance methods are forbidden", c.Name, m.Name)
			}
		}
		if !isRoot && len(c.Fields) > 0 && !c.IsStruct {
			if len(c.Fields) > MaxSlots {
				return fmt.Errorf("%s: more than %d static fields", c.Name, MaxSlots)
			}
		}
	}
	return nil
}
