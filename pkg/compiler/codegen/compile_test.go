package codegen

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/compiler/ir"
	"github.com/stretchr/testify/require"
)

func intType() ir.ValueType { return ir.ValueType{Kind: ir.TInt} }

func TestCompileSimpleAdd(t *testing.T) {
	mod := &ir.Module{
		Root: 0,
		Classes: []ir.Class{
			{
				Name: "Token",
				Methods: []ir.Method{
					{
						Name:   "add",
						Public: true,
						Static: true,
						Params: []ir.Param{{Name: "a", Type: intType()}, {Name: "b", Type: intType()}},
						Return: intType(),
						Instructions: []ir.Instruction{
							{Op: ir.OpLoad, IntOperand: 0},
							{Op: ir.OpLoad, IntOperand: 1},
							{Op: ir.OpAdd},
							{Op: ir.OpReturn},
						},
					},
				},
			},
		},
	}

	nefFile, manif, err := Compile(mod, "test")
	require.NoError(t, err)
	require.NotEmpty(t, nefFile.Script)

	m := manif.ABI.GetMethod("add", 2)
	require.NotNil(t, m)
	require.Equal(t, 0, m.Offset)
	require.False(t, m.Safe)
}

func TestCompileCallsAnotherMethod(t *testing.T) {
	mod := &ir.Module{
		Root: 0,
		Classes: []ir.Class{
			{
				Name: "Token",
				Methods: []ir.Method{
					{
						Name:   "main",
						Public: true,
						Static: true,
						Return: intType(),
						Instructions: []ir.Instruction{
							{Op: ir.OpPushInt, IntOperand: 1},
							{Op: ir.OpPushInt, IntOperand: 2},
							{Op: ir.OpInvokeStatic, StrOperand: "Token.add"},
							{Op: ir.OpReturn},
						},
					},
					{
						Name:   "add",
						Static: true,
						Params: []ir.Param{{Name: "a", Type: intType()}, {Name: "b", Type: intType()}},
						Return: intType(),
						Instructions: []ir.Instruction{
							{Op: ir.OpLoad, IntOperand: 0},
							{Op: ir.OpLoad, IntOperand: 1},
							{Op: ir.OpAdd},
							{Op: ir.OpReturn},
						},
					},
				},
			},
		},
	}

	nefFile, manif, err := Compile(mod, "test")
	require.NoError(t, err)
	require.NotEmpty(t, nefFile.Script)
	require.NotNil(t, manif.ABI.GetMethod("main", 0))
	require.Nil(t, manif.ABI.GetMethod("add", 2)) // not public, not exported
}

func TestCompileWithStaticFieldAndJump(t *testing.T) {
	mod := &ir.Module{
		Root: 0,
		Classes: []ir.Class{
			{
				Name: "Counter",
				Fields: []ir.Field{
					{Name: "count", Type: intType(), Static: true},
				},
				Methods: []ir.Method{
					{
						Name:   "increment",
						Public: true,
						Static: true,
						Return: ir.ValueType{Kind: ir.TVoid},
						Instructions: []ir.Instruction{
							{Op: ir.OpGetStatic, StrOperand: "Counter.count"},
							{Op: ir.OpPushInt, IntOperand: 0},
							{Op: ir.OpCmpEQ},
							{Op: ir.OpIfJmp, Target: "skip"},
							{Op: ir.OpGoto, Target: "done"},
							{Op: ir.OpPushInt, IntOperand: 1, Label: "skip"},
							{Op: ir.OpPutStatic, StrOperand: "Counter.count"},
							{Op: ir.OpReturn, Label: "done"},
						},
					},
				},
			},
		},
	}

	nefFile, manif, err := Compile(mod, "test")
	require.NoError(t, err)
	require.NotEmpty(t, nefFile.Script)
	require.NotNil(t, manif.ABI.GetMethod("increment", 0))
}

func TestCompileWithTryCatch(t *testing.T) {
	mod := &ir.Module{
		Root: 0,
		Classes: []ir.Class{
			{
				Name: "Vault",
				Methods: []ir.Method{
					{
						Name:   "guarded",
						Public: true,
						Static: true,
						Params: []ir.Param{{Name: "a", Type: intType()}},
						Return: intType(),
						Locals: []ir.LocalVar{{Name: "err", Type: intType()}},
						TryRegions: []ir.TryRegion{
							{StartIndex: 0, EndIndex: 2, HandlerLabel: "handler", CaughtVar: 1, HandlerEndIndex: 4},
						},
						Instructions: []ir.Instruction{
							{Op: ir.OpLoad, IntOperand: 0},
							{Op: ir.OpThrow},
							{Op: ir.OpLoad, IntOperand: 1, Label: "handler"},
							{Op: ir.OpReturn},
						},
					},
				},
			},
		},
	}

	nefFile, manif, err := Compile(mod, "test")
	require.NoError(t, err)
	require.NotEmpty(t, nefFile.Script)
	require.NotNil(t, manif.ABI.GetMethod("guarded", 1))
}

func TestCompileRejectsInstanceMethod(t *testing.T) {
	mod := &ir.Module{
		Root: 0,
		Classes: []ir.Class{
			{
				Name: "Bad",
				Methods: []ir.Method{
					{Name: "m", Public: true, Instructions: []ir.Instruction{{Op: ir.OpReturn}}},
				},
			},
		},
	}
	_, _, err := Compile(mod, "test")
	require.Error(t, err)
}
