// Package codegen lowers a compiler IR module into a NeoVM script via a
// two-pass layout (linear per-method emission, then address assignment
// and call/jump fixups) and aggregates the result into a NEF file and a
// manifest.
package codegen

import (
	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/opcode"
)

// NeoInstruction is one emitted NeoVM instruction, still missing a
// resolved address or, for calls and jumps, a resolved operand.
type NeoInstruction struct {
	Op      opcode.Opcode
	Operand []byte

	// Raw, when non-nil, is a pre-encoded run of one or more complete
	// instructions (e.g. an argument array push chain) that needs no
	// further fixup; Op/Operand are unused. Kept as one NeoInstruction
	// so a single source operation stays a single unit for diagnostics,
	// even though it occupies several opcodes in the final script.
	Raw []byte

	// CallTarget, when non-nil, marks this as a call whose operand must
	// be fixed up to target_address - this_address once every method
	// has an address.
	CallTarget *NeoMethod

	// JumpTarget names an intra-method label this jump/try marker
	// targets; resolved against the owning method's label table.
	JumpTarget string
	// IsTry marks this as a TRY/TRY_L marker: it carries a catch-offset
	// operand (to JumpTarget) followed by a finally-offset operand,
	// always 0 here since no distinct finally block is modeled. Kept
	// separate from a plain jump because it needs two operand fields
	// instead of one.
	IsTry bool
	// Long forces the _L (4-byte operand) form even if the final
	// displacement would fit in a byte; set by lowering on CALL_L, which
	// is always long, and flipped by layout on jumps, TRY and ENDTRY
	// whose displacement doesn't fit a byte.
	Long bool
	// ShortOp/LongOp give the opcode to use in each form, for
	// instructions layout may flip between forms. Zero when Op is
	// already fixed (it never needs relaxing).
	ShortOp, LongOp opcode.Opcode

	// Address is filled in by layout.
	Address int

	// label this instruction itself exposes as a jump target, mirroring
	// the source Instruction.Label it was lowered from.
	Label string
}

// size returns this instruction's encoded length: one opcode byte plus
// its operand.
func (in *NeoInstruction) size() int {
	if in.Raw != nil {
		return len(in.Raw)
	}
	n := 1
	if in.IsTry {
		if in.Long {
			return 9
		}
		return 3
	}
	if in.isRelaxable() {
		if in.Long {
			return 5
		}
		return 2
	}
	return n + len(in.Operand)
}

func (in *NeoInstruction) isRelaxable() bool {
	return in.ShortOp != 0 || in.LongOp != 0
}

// NeoMethod is one lowered method: its linear instruction stream plus
// the slot-allocation metadata INITSLOT/INITSSLOT needs.
type NeoMethod struct {
	Name       string
	Source     *ir.Method // nil for the synthetic _initialize method
	Instrs     []*NeoInstruction
	Address    int
	Exported   bool
	ParamCount int
	LocalCount int
	labels     map[string]int // label -> index into Instrs
}

func (m *NeoMethod) labelIndex(label string) (int, bool) {
	i, ok := m.labels[label]
	return i, ok
}

// NeoModule is the whole lowered contract: every method in emission
// order. When the root class declares static fields, the first of them is
// the synthetic _initialize entry; otherwise there is none.
type NeoModule struct {
	Methods     []*NeoMethod
	StaticCount int
}

func (m *NeoModule) findMethod(name string, source *ir.Method) *NeoMethod {
	for _, nm := range m.Methods {
		if nm.Source == source {
			return nm
		}
	}
	return nil
}

func (m *NeoModule) methodByQualifiedName(qualified string) *NeoMethod {
	for _, nm := range m.Methods {
		if nm.Name == qualified {
			return nm
		}
	}
	return nil
}
