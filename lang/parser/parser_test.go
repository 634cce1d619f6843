package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/lang/ast"
	"github.com/zinput/hub/lang/lexer"
	"github.com/zinput/hub/lang/parser"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, lexErrs := lexer.New(src).Tokenize()
	require.Empty(t, lexErrs)
	mod, err := parser.ParseModule(toks)
	require.NoError(t, err)
	require.NotNil(t, mod)
	return mod
}

func TestParseModule_BitfieldAssign(t *testing.T) {
	mod := mustParse(t, `device out; in { out.buttons.a = in.buttons.b; }`)

	assert.Equal(t, "out", mod.Output.Name)
	require.Len(t, mod.Inputs, 1)
	assert.Equal(t, "in", mod.Inputs[0].Device.Name)
	require.Len(t, mod.Inputs[0].Body.Stmts, 1)

	as, ok := mod.Inputs[0].Body.Stmts[0].Kind.(ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, ast.AssignNormal, as.Kind)

	lhs, ok := as.LVal.Kind.(ast.DotExpr)
	require.True(t, ok)
	assert.Equal(t, "a", lhs.Field.Name)
}

func TestParseModule_NativeMinusAndPrecedence(t *testing.T) {
	mod := mustParse(t, `device out; in { out.left_stick_x = 255 - in.left_stick_x; }`)
	as := mod.Inputs[0].Body.Stmts[0].Kind.(ast.AssignStmt)
	bin, ok := as.Expr.Kind.(ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinSub, bin.Op)
}

func TestParseModule_IfElse(t *testing.T) {
	mod := mustParse(t, `device out; in { if in.buttons.a { let x = 1; } else { let x = 2; } }`)
	ifs, ok := mod.Inputs[0].Body.Stmts[0].Kind.(ast.IfStmt)
	require.True(t, ok)
	assert.Len(t, ifs.Yes.Stmts, 1)
	require.NotNil(t, ifs.No)
	assert.Len(t, ifs.No.Stmts, 1)
}

func TestParseModule_Index(t *testing.T) {
	mod := mustParse(t, `device out; in { let x = in.analogs[3]; }`)
	let := mod.Inputs[0].Body.Stmts[0].Kind.(ast.LetStmt)
	idx, ok := let.Expr.Kind.(ast.IndexExpr)
	require.True(t, ok)
	_, isLit := idx.Index.Kind.(ast.LiteralExpr)
	assert.True(t, isLit)
}

func TestParseModule_CompoundAssign(t *testing.T) {
	mod := mustParse(t, `device out; in { out.left_trigger += 1; }`)
	as := mod.Inputs[0].Body.Stmts[0].Kind.(ast.AssignStmt)
	assert.Equal(t, ast.AssignAdd, as.Kind)
}

func TestParseModule_MultipleInputBlocks(t *testing.T) {
	mod := mustParse(t, `device out; left { out.left_stick_x = left.left_stick_x; } right { out.right_stick_x = right.right_stick_x; }`)
	require.Len(t, mod.Inputs, 2)
	assert.Equal(t, "left", mod.Inputs[0].Device.Name)
	assert.Equal(t, "right", mod.Inputs[1].Device.Name)
}

func TestParseModule_CollectsErrors(t *testing.T) {
	toks, _ := lexer.New(`device ; in { let = 1; }`).Tokenize()
	_, err := parser.ParseModule(toks)
	require.Error(t, err)
}
