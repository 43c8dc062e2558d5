package codegen

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/nspcc-dev/neow3j-go/pkg/compiler/pragma"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/emit"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/opcode"
)

func fixed(op opcode.Opcode) *NeoInstruction {
	return &NeoInstruction{Op: op}
}

func withOperand(op opcode.Opcode, operand []byte) *NeoInstruction {
	return &NeoInstruction{Op: op, Operand: operand}
}

func rawFrom(w *io.BufBinWriter) (*NeoInstruction, error) {
	if w.Err != nil {
		return nil, w.Err
	}
	return &NeoInstruction{Raw: w.Bytes()}, nil
}

func pushInt(n int64) (*NeoInstruction, error) {
	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, n)
	return rawFrom(w)
}

func pushStr(s string) (*NeoInstruction, error) {
	w := io.NewBufBinWriter()
	emit.String(w.BinWriter, s)
	return rawFrom(w)
}

func pushBytes(b []byte) (*NeoInstruction, error) {
	w := io.NewBufBinWriter()
	emit.Bytes(w.BinWriter, b)
	return rawFrom(w)
}

func pushBool(b bool) *NeoInstruction {
	if b {
		return fixed(opcode.PUSHT)
	}
	return fixed(opcode.PUSHF)
}

// jump pairs the short-form opcode of a jump family with its long-form
// counterpart, so a single NeoInstruction can start short and flip to
// long if layout finds the displacement doesn't fit a byte.
func jump(short, long opcode.Opcode, target string) *NeoInstruction {
	return &NeoInstruction{ShortOp: short, LongOp: long, JumpTarget: target}
}

// lowerInitialize emits the synthetic contract entry point that only
// allocates the static field slot table; its body never does more than
// that, since Annotations-driven field initializers aren't modeled.
func lowerInitialize(ctx *context, m *NeoMethod) error {
	m.Instrs = append(m.Instrs, withOperand(opcode.INITSSLOT, []byte{byte(ctx.module.StaticCount)}))
	m.Instrs = append(m.Instrs, fixed(opcode.RET))
	return nil
}

func lowerMethod(ctx *context, m *NeoMethod) error {
	src := m.Source
	m.labels = map[string]int{}

	if m.ParamCount > 0 || m.LocalCount > 0 {
		m.Instrs = append(m.Instrs, withOperand(opcode.INITSLOT, []byte{byte(m.LocalCount), byte(m.ParamCount)}))
	}

	regions := indexTryRegions(src)

	for i := range src.Instructions {
		in := &src.Instructions[i]
		// Closing ENDTRYs come first: they end the code before index i,
		// so instruction i's label and a handler starting here lie past them.
		for _, j := range regions.bodyEndsAt[i] {
			m.Instrs = append(m.Instrs, jump(opcode.ENDTRY, opcode.ENDTRY_L, regions.joinLabel(j)))
		}
		for _, j := range regions.handlerEndsAt[i] {
			m.Instrs = append(m.Instrs, jump(opcode.ENDTRY, opcode.ENDTRY_L, regions.joinLabel(j)))
		}
		if in.Label != "" {
			m.labels[in.Label] = len(m.Instrs)
		}
		for _, j := range regions.startsAt[i] {
			m.Instrs = append(m.Instrs, tryMarker(src.TryRegions[j].HandlerLabel))
		}
		for _, j := range regions.handlerStartsAt[i] {
			m.Instrs = append(m.Instrs, catchPrologue(m, &src.TryRegions[j]))
		}
		// Registered last so it lands on whatever resumes normal flow
		// after every marker due at this index, never on a marker
		// itself (an ENDTRY here must not target its own address).
		for _, j := range regions.joinsAt[i] {
			m.labels[regions.joinLabel(j)] = len(m.Instrs)
		}
		if err := lowerOne(ctx, m, in); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	n := len(src.Instructions)
	for _, j := range regions.bodyEndsAt[n] {
		m.Instrs = append(m.Instrs, jump(opcode.ENDTRY, opcode.ENDTRY_L, regions.joinLabel(j)))
	}
	for _, j := range regions.handlerEndsAt[n] {
		m.Instrs = append(m.Instrs, jump(opcode.ENDTRY, opcode.ENDTRY_L, regions.joinLabel(j)))
	}
	for _, j := range regions.joinsAt[n] {
		m.labels[regions.joinLabel(j)] = len(m.Instrs)
	}

	if n := len(m.Instrs); n == 0 || !isTerminal(m.Instrs[n-1]) {
		m.Instrs = append(m.Instrs, fixed(opcode.RET))
	}
	return nil
}

// tryLayout buckets a method's TryRegions by the source instruction
// index at which each marker belongs, so lowerMethod's single forward
// pass can interleave them with the regular lowering of each
// ir.Instruction. Both the guarded body's ENDTRY and the handler's own
// ENDTRY target the same synthetic join label, registered at the
// handler's HandlerEndIndex: that's the address normal completion of
// either the body or the handler resumes at, skipping the other.
type tryLayout struct {
	startsAt        map[int][]int // source index -> TryRegions indices opening there
	bodyEndsAt      map[int][]int // source index -> regions whose guarded body ends there
	handlerStartsAt map[int][]int // source index -> regions whose handler starts there
	handlerEndsAt   map[int][]int // source index -> regions whose handler ends there
	joinsAt         map[int][]int // source index -> regions whose join label sits there
}

func (t *tryLayout) joinLabel(regionIdx int) string {
	return fmt.Sprintf("$try%d$join", regionIdx)
}

func indexTryRegions(src *ir.Method) *tryLayout {
	t := &tryLayout{
		startsAt:        map[int][]int{},
		bodyEndsAt:      map[int][]int{},
		handlerStartsAt: map[int][]int{},
		handlerEndsAt:   map[int][]int{},
		joinsAt:         map[int][]int{},
	}
	for i := range src.TryRegions {
		r := &src.TryRegions[i]
		t.startsAt[r.StartIndex] = append(t.startsAt[r.StartIndex], i)
		t.bodyEndsAt[r.EndIndex] = append(t.bodyEndsAt[r.EndIndex], i)
		for j := range src.Instructions {
			if src.Instructions[j].Label == r.HandlerLabel {
				t.handlerStartsAt[j] = append(t.handlerStartsAt[j], i)
				break
			}
		}
		t.handlerEndsAt[r.HandlerEndIndex] = append(t.handlerEndsAt[r.HandlerEndIndex], i)
		t.joinsAt[r.HandlerEndIndex] = append(t.joinsAt[r.HandlerEndIndex], i)
	}
	return t
}

// tryMarker opens a guarded region: TRY's catch-offset operand targets
// handlerLabel, relaxed to TRY_L the same way a jump is. The
// finally-offset operand is always 0, since no distinct finally block
// is modeled.
func tryMarker(handlerLabel string) *NeoInstruction {
	return &NeoInstruction{IsTry: true, ShortOp: opcode.TRY, LongOp: opcode.TRY_L, JumpTarget: handlerLabel}
}

// catchPrologue binds the exception value NeoVM leaves on the stack
// when a handler is entered, or drops it if the region never binds it.
func catchPrologue(m *NeoMethod, r *ir.TryRegion) *NeoInstruction {
	if r.CaughtVar < 0 {
		return fixed(opcode.DROP)
	}
	if r.CaughtVar < m.ParamCount {
		return slotInstr(opcode.STARG0, opcode.STARG, r.CaughtVar)
	}
	return slotInstr(opcode.STLOC0, opcode.STLOC, r.CaughtVar-m.ParamCount)
}

func isTerminal(in *NeoInstruction) bool {
	return in.Op == opcode.RET || in.Op == opcode.THROW || (in.ShortOp == opcode.JMP && in.LongOp == opcode.JMP_L)
}

func slotInstr(compact0 opcode.Opcode, operandOp opcode.Opcode, slot int) *NeoInstruction {
	if slot < 7 {
		return fixed(compact0 + opcode.Opcode(slot))
	}
	return withOperand(operandOp, []byte{byte(slot)})
}

func lowerOne(ctx *context, m *NeoMethod, in *ir.Instruction) error {
	emitOne := func(i *NeoInstruction, err error) error {
		if err != nil {
			return err
		}
		m.Instrs = append(m.Instrs, i)
		return nil
	}

	switch in.Op {
	case ir.OpPushInt:
		return emitOne(pushInt(in.IntOperand))
	case ir.OpPushStr:
		return emitOne(pushStr(in.StrOperand))
	case ir.OpPushBool:
		m.Instrs = append(m.Instrs, pushBool(in.IntOperand != 0))
		return nil

	case ir.OpLoad:
		if int(in.IntOperand) < m.ParamCount {
			m.Instrs = append(m.Instrs, slotInstr(opcode.LDARG0, opcode.LDARG, int(in.IntOperand)))
		} else {
			m.Instrs = append(m.Instrs, slotInstr(opcode.LDLOC0, opcode.LDLOC, int(in.IntOperand)-m.ParamCount))
		}
		return nil
	case ir.OpStore:
		if int(in.IntOperand) < m.ParamCount {
			m.Instrs = append(m.Instrs, slotInstr(opcode.STARG0, opcode.STARG, int(in.IntOperand)))
		} else {
			m.Instrs = append(m.Instrs, slotInstr(opcode.STLOC0, opcode.STLOC, int(in.IntOperand)-m.ParamCount))
		}
		return nil

	case ir.OpAdd:
		m.Instrs = append(m.Instrs, fixed(opcode.ADD))
	case ir.OpSub:
		m.Instrs = append(m.Instrs, fixed(opcode.SUB))
	case ir.OpMul:
		m.Instrs = append(m.Instrs, fixed(opcode.MUL))
	case ir.OpDiv:
		m.Instrs = append(m.Instrs, fixed(opcode.DIV))
	case ir.OpRem:
		m.Instrs = append(m.Instrs, fixed(opcode.MOD))
	case ir.OpNeg:
		m.Instrs = append(m.Instrs, fixed(opcode.NEGATE))
	case ir.OpShl:
		m.Instrs = append(m.Instrs, fixed(opcode.SHL))
	case ir.OpShr:
		m.Instrs = append(m.Instrs, fixed(opcode.SHR))
	case ir.OpAnd:
		m.Instrs = append(m.Instrs, fixed(opcode.AND))
	case ir.OpOr:
		m.Instrs = append(m.Instrs, fixed(opcode.OR))
	case ir.OpXor:
		m.Instrs = append(m.Instrs, fixed(opcode.XOR))

	case ir.OpCmpEQ:
		m.Instrs = append(m.Instrs, fixed(opcode.NUMEQUAL))
	case ir.OpCmpNE:
		m.Instrs = append(m.Instrs, fixed(opcode.NUMNOTEQUAL))
	case ir.OpCmpLT:
		m.Instrs = append(m.Instrs, fixed(opcode.LT))
	case ir.OpCmpLE:
		m.Instrs = append(m.Instrs, fixed(opcode.LE))
	case ir.OpCmpGT:
		m.Instrs = append(m.Instrs, fixed(opcode.GT))
	case ir.OpCmpGE:
		m.Instrs = append(m.Instrs, fixed(opcode.GE))
	case ir.OpRefEQ:
		m.Instrs = append(m.Instrs, fixed(opcode.EQUAL))
	case ir.OpRefNE:
		m.Instrs = append(m.Instrs, fixed(opcode.NOTEQUAL))

	case ir.OpIfNull:
		m.Instrs = append(m.Instrs, fixed(opcode.ISNULL))
		m.Instrs = append(m.Instrs, jump(opcode.JMPIF, opcode.JMPIF_L, in.Target))
	case ir.OpIfNonNull:
		m.Instrs = append(m.Instrs, fixed(opcode.ISNULL))
		m.Instrs = append(m.Instrs, jump(opcode.JMPIFNOT, opcode.JMPIFNOT_L, in.Target))

	case ir.OpGoto:
		m.Instrs = append(m.Instrs, jump(opcode.JMP, opcode.JMP_L, in.Target))
	case ir.OpIfJmp:
		m.Instrs = append(m.Instrs, jump(opcode.JMPIF, opcode.JMPIF_L, in.Target))

	case ir.OpTableSwitch, ir.OpLookupSwitch:
		for i, v := range in.IntOperands {
			m.Instrs = append(m.Instrs, fixed(opcode.DUP))
			push, err := pushInt(v)
			if err != nil {
				return err
			}
			m.Instrs = append(m.Instrs, push)
			m.Instrs = append(m.Instrs, fixed(opcode.NUMEQUAL))
			m.Instrs = append(m.Instrs, jump(opcode.JMPIF, opcode.JMPIF_L, in.Targets[i]))
		}
		m.Instrs = append(m.Instrs, fixed(opcode.DROP))
		m.Instrs = append(m.Instrs, jump(opcode.JMP, opcode.JMP_L, in.Target))

	case ir.OpNewArray:
		return emitOne(withOperand(opcode.NEWARRAY_T, []byte{stackItemTypeOf(in.Type)}), nil)
	case ir.OpArrayLoad:
		m.Instrs = append(m.Instrs, fixed(opcode.PICKITEM))
	case ir.OpArrayStore:
		m.Instrs = append(m.Instrs, fixed(opcode.SETITEM))
	case ir.OpArrayLength:
		m.Instrs = append(m.Instrs, fixed(opcode.SIZE))

	case ir.OpInvokeStatic:
		return lowerInvoke(ctx, m, in)
	case ir.OpReturn:
		m.Instrs = append(m.Instrs, fixed(opcode.RET))

	case ir.OpGetStatic:
		return lowerGetStatic(ctx, m, in)
	case ir.OpPutStatic:
		slot, err := ctx.staticSlot(in.StrOperand)
		if err != nil {
			return err
		}
		m.Instrs = append(m.Instrs, slotInstr(opcode.STSFLD0, opcode.STSFLD, slot))

	case ir.OpNewStringBuilder:
		return emitOne(pushStr(""))
	case ir.OpStringAppend:
		m.Instrs = append(m.Instrs, fixed(opcode.CAT))
	case ir.OpStringBuilderToString:
		m.Instrs = append(m.Instrs, withOperand(opcode.CONVERT, []byte{byte(stackItemByteString)}))

	case ir.OpNew:
		return lowerNew(ctx, m, in)
	case ir.OpInstanceOf:
		return emitOne(withOperand(opcode.ISTYPE, []byte{stackItemTypeOf(in.Type)}), nil)
	case ir.OpCheckCast:
		// No runtime representation: NeoVM stack items already carry
		// their own type, so a downcast is a compile-time-only fact.
	case ir.OpThrow:
		m.Instrs = append(m.Instrs, fixed(opcode.THROW))
	case ir.OpNewThrowable:
		if in.IntOperand == 0 {
			if err := emitOne(pushStr(in.StrOperand)); err != nil {
				return err
			}
		}

	case ir.OpDup:
		m.Instrs = append(m.Instrs, fixed(opcode.DUP))
	case ir.OpPop:
		m.Instrs = append(m.Instrs, fixed(opcode.DROP))

	case ir.OpNop:
		// no-op markers (e.g. a label with nothing else on it) still
		// need a labels entry, already recorded by the caller.

	default:
		return fmt.Errorf("unsupported instruction category %d", in.Op)
	}
	return nil
}

// staticSlot resolves "Class.field" against the root class's static
// slot table; only the root class is permitted static state.
func (ctx *context) staticSlot(qualified string) (int, error) {
	slot, ok := ctx.staticSlots[qualified]
	if !ok {
		return 0, fmt.Errorf("unresolved static field reference %q", qualified)
	}
	return slot, nil
}

func parseQualified(s string) (class, member string) {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

func lowerGetStatic(ctx *context, m *NeoMethod, in *ir.Instruction) error {
	class, field := parseQualified(in.StrOperand)
	c := ctx.mod.FindClass(class)
	if c != nil {
		for i := range c.Fields {
			if c.Fields[i].Name == field && pragma.IsEventType(c.Fields[i].Type) {
				// The field itself is never loaded: GETSTATIC of an
				// Event is always immediately followed by a call to
				// its send method, lowered as a unit by OpInvokeStatic
				// recognizing the receiver expression. Nothing to push
				// here.
				return nil
			}
		}
	}
	slot, err := ctx.staticSlot(in.StrOperand)
	if err != nil {
		return err
	}
	m.Instrs = append(m.Instrs, slotInstr(opcode.LDSFLD0, opcode.LDSFLD, slot))
	return nil
}

func lowerInvoke(ctx *context, m *NeoMethod, in *ir.Instruction) error {
	class, method := parseQualified(in.StrOperand)

	if c := ctx.mod.FindClass(class); c != nil {
		for i := range c.Fields {
			f := &c.Fields[i]
			if f.Name == method && pragma.IsEventType(f.Type) {
				return lowerNotify(m, f)
			}
		}
	}

	if hash, ok := ctx.contractHash[class]; ok {
		target := ctx.mod.FindClass(class).FindMethod(method, -1)
		if target == nil {
			return fmt.Errorf("unresolved proxy method %s.%s", class, method)
		}
		w := io.NewBufBinWriter()
		n := len(target.Params)
		emit.Int(w.BinWriter, int64(n))
		emit.Opcode(w.BinWriter, opcode.REVERSEN)
		emit.Int(w.BinWriter, int64(n))
		emit.Opcode(w.BinWriter, opcode.PACK)
		emit.Instruction(w.BinWriter, opcode.PUSHINT8, []byte{byte(callflag.All)})
		emit.String(w.BinWriter, method)
		emit.Bytes(w.BinWriter, hash.BytesLE())
		emit.Syscall(w.BinWriter, emit.SystemContractCall)
		if target.Return.Kind == ir.TVoid {
			emit.Opcode(w.BinWriter, opcode.DROP)
		}
		raw, err := rawFrom(w)
		if err != nil {
			return err
		}
		m.Instrs = append(m.Instrs, raw)
		return nil
	}

	targetClass := ctx.mod.FindClass(class)
	if targetClass != nil {
		if src := targetClass.FindMethod(method, -1); src != nil {
			if intr, ok := pragma.IntrinsicOf(src); ok {
				return lowerIntrinsic(m, intr)
			}
		}
	}

	target := ctx.module.methodByQualifiedName(in.StrOperand)
	if target == nil {
		return fmt.Errorf("unresolved call target %s", in.StrOperand)
	}
	m.Instrs = append(m.Instrs, &NeoInstruction{Op: opcode.CALL_L, Long: true, CallTarget: target})
	return nil
}

func lowerIntrinsic(m *NeoMethod, intr pragma.Intrinsic) error {
	switch intr.Kind {
	case pragma.IntrinsicSyscall:
		var b [4]byte
		id := syscallID(intr.Syscall)
		b[0], b[1], b[2], b[3] = byte(id), byte(id>>8), byte(id>>16), byte(id>>24)
		m.Instrs = append(m.Instrs, withOperand(opcode.SYSCALL, b[:]))
	case pragma.IntrinsicOpcode:
		op, ok := opcode.ByName(intr.Opcode)
		if !ok {
			return fmt.Errorf("unrecognized intrinsic opcode %q", intr.Opcode)
		}
		m.Instrs = append(m.Instrs, fixed(op))
	}
	return nil
}

func syscallID(name string) uint32 {
	return emit.InteropNameToID([]byte(name))
}

// lowerNotify packs the arguments already on the stack and fires
// System.Runtime.Notify, the lowering for GETSTATIC of an Event field
// immediately invoked via its send(...) method.
func lowerNotify(m *NeoMethod, f *ir.Field) error {
	w := io.NewBufBinWriter()
	n := len(f.EventParams)
	emit.Int(w.BinWriter, int64(n))
	emit.Opcode(w.BinWriter, opcode.REVERSEN)
	emit.Int(w.BinWriter, int64(n))
	emit.Opcode(w.BinWriter, opcode.PACK)
	emit.String(w.BinWriter, f.Name)
	emit.Syscall(w.BinWriter, syscallID("System.Runtime.Notify"))
	raw, err := rawFrom(w)
	if err != nil {
		return err
	}
	m.Instrs = append(m.Instrs, raw)
	return nil
}

func lowerNew(ctx *context, m *NeoMethod, in *ir.Instruction) error {
	c := ctx.mod.FindClass(in.StrOperand)
	if c == nil {
		return fmt.Errorf("unresolved class %s", in.StrOperand)
	}
	if !c.IsStruct {
		return fmt.Errorf("%s: construction of non-@Struct types is forbidden", in.StrOperand)
	}
	fieldCount, err := countStructFields(ctx.mod, c)
	if err != nil {
		return err
	}

	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, int64(fieldCount))
	emit.Opcode(w.BinWriter, opcode.NEWARRAY)
	emit.Opcode(w.BinWriter, opcode.DUP)
	raw, err := rawFrom(w)
	if err != nil {
		return err
	}
	m.Instrs = append(m.Instrs, raw)

	ctorArgs := len(in.IntOperands)
	if ctorArgs > 0 {
		w2 := io.NewBufBinWriter()
		emit.Int(w2.BinWriter, int64(ctorArgs))
		emit.Opcode(w2.BinWriter, opcode.REVERSEN)
		raw2, err := rawFrom(w2)
		if err != nil {
			return err
		}
		m.Instrs = append(m.Instrs, raw2)
	}

	ctor := c.FindMethod("<init>", -1)
	if ctor == nil {
		return nil
	}
	target := ctx.module.methodByQualifiedName(c.Name + ".<init>")
	if target == nil {
		return fmt.Errorf("unresolved constructor for %s", in.StrOperand)
	}
	m.Instrs = append(m.Instrs, &NeoInstruction{Op: opcode.CALL_L, Long: true, CallTarget: target})
	return nil
}

// countStructFields counts c's own fields plus every @Struct ancestor's,
// rejecting any non-@Struct ancestor other than Object.
func countStructFields(mod *ir.Module, c *ir.Class) (int, error) {
	n := len(c.Fields)
	for c.Super != "" && c.Super != "java.lang.Object" {
		parent := mod.FindClass(c.Super)
		if parent == nil || !parent.IsStruct {
			return 0, fmt.Errorf("%s: ancestor %s is not a @Struct", c.Name, c.Super)
		}
		n += len(parent.Fields)
		c = parent
	}
	return n, nil
}

// NeoVM StackItemType byte values, used by NEWARRAY_T/ISTYPE/CONVERT.
const (
	stackItemAny        = 0x00
	stackItemBoolean    = 0x20
	stackItemInteger    = 0x21
	stackItemByteString = 0x28
	stackItemBuffer     = 0x30
	stackItemArray      = 0x40
	stackItemStruct     = 0x41
	stackItemMap        = 0x48
)

func stackItemTypeOf(t ir.ValueType) byte {
	switch t.Kind {
	case ir.TInt, ir.TLong:
		return stackItemInteger
	case ir.TBoolean:
		return stackItemBoolean
	case ir.TString, ir.TByteArray, ir.THash160, ir.THash256, ir.TPublicKey, ir.TSignature:
		return stackItemByteString
	case ir.TArray:
		return stackItemArray
	case ir.TMap:
		return stackItemMap
	case ir.TObject:
		return stackItemStruct
	default:
		return stackItemAny
	}
}
