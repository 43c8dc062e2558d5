package codegen

import (
	"encoding/binary"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/vm/opcode"
)

// methodEntry records where a lowered method ended up in the final
// script, for the manifest and NEF method-token machinery to consume.
type methodEntry struct {
	Name    string
	Address int
}

// layout assigns every method and instruction an address, relaxes
// intra-method jumps to their shortest valid form, fixes up CALL_L
// operands to cross-method relative offsets, and concatenates the
// result into one script.
func layout(mod *NeoModule) ([]byte, []methodEntry, error) {
	assignAddresses(mod)

	for {
		if !relaxOnce(mod) {
			break
		}
		assignAddresses(mod)
	}

	if err := resolveOperands(mod); err != nil {
		return nil, nil, err
	}

	var script []byte
	entries := make([]methodEntry, len(mod.Methods))
	for i, m := range mod.Methods {
		entries[i] = methodEntry{Name: m.Name, Address: m.Address}
		for _, in := range m.Instrs {
			script = append(script, encode(in)...)
		}
	}
	return script, entries, nil
}

func assignAddresses(mod *NeoModule) {
	addr := 0
	for _, m := range mod.Methods {
		m.Address = addr
		for _, in := range m.Instrs {
			in.Address = addr
			addr += in.size()
		}
	}
}

// relaxOnce flips any short-form jump whose computed displacement no
// longer fits a signed byte to its long form. Returns whether anything
// changed, so the caller can re-run address assignment and try again;
// flips only grow addresses, so this always terminates.
func relaxOnce(mod *NeoModule) bool {
	changed := false
	for _, m := range mod.Methods {
		for _, in := range m.Instrs {
			if !in.isRelaxable() || in.Long {
				continue
			}
			idx, ok := m.labelIndex(in.JumpTarget)
			if !ok {
				continue
			}
			target := m.Instrs[idx]
			disp := target.Address - in.Address
			if disp < -128 || disp > 127 {
				in.Long = true
				changed = true
			}
		}
	}
	return changed
}

func resolveOperands(mod *NeoModule) error {
	for _, m := range mod.Methods {
		for _, in := range m.Instrs {
			switch {
			case in.CallTarget != nil:
				disp := in.CallTarget.Address - in.Address
				in.Op = opcode.CALL_L
				in.Operand = le32(disp)
			case in.IsTry:
				idx, ok := m.labelIndex(in.JumpTarget)
				if !ok {
					return fmt.Errorf("%s: unresolved handler target %q", m.Name, in.JumpTarget)
				}
				target := m.Instrs[idx]
				disp := target.Address - in.Address
				if in.Long {
					in.Op = opcode.TRY_L
					in.Operand = append(le32(disp), le32(0)...)
				} else {
					in.Op = opcode.TRY
					in.Operand = []byte{byte(int8(disp)), 0}
				}
			case in.isRelaxable():
				idx, ok := m.labelIndex(in.JumpTarget)
				if !ok {
					return fmt.Errorf("%s: unresolved jump target %q", m.Name, in.JumpTarget)
				}
				target := m.Instrs[idx]
				disp := target.Address - in.Address
				if in.Long {
					in.Op = in.LongOp
					in.Operand = le32(disp)
				} else {
					in.Op = in.ShortOp
					in.Operand = []byte{byte(int8(disp))}
				}
			}
		}
	}
	return nil
}

func le32(v int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(int32(v)))
	return b[:]
}

func encode(in *NeoInstruction) []byte {
	if in.Raw != nil {
		return in.Raw
	}
	out := make([]byte, 0, 1+len(in.Operand))
	out = append(out, byte(in.Op))
	out = append(out, in.Operand...)
	return out
}
