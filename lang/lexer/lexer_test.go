package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinput/hub/lang/lexer"
	"github.com/zinput/hub/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenize_Assignment(t *testing.T) {
	toks, errs := lexer.New("out.left_stick_x = 255 - in.left_stick_x;").Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []token.Kind{
		token.Ident, token.Dot, token.Ident, token.Assign,
		token.Int, token.Minus, token.Ident, token.Dot, token.Ident,
		token.Semicolon, token.EOF,
	}, kinds(toks))
}

func TestTokenize_IntTypeKeyword(t *testing.T) {
	toks, errs := lexer.New("let x: u16 = 3;").Tokenize()
	require.Empty(t, errs)
	require.Len(t, toks, 8)
	assert.Equal(t, token.KLet, toks[0].Kind)
	assert.Equal(t, token.IntType, toks[3].Kind)
	assert.EqualValues(t, 16, toks[3].IntWidth)
	assert.False(t, toks[3].IntSigned)
}

func TestTokenize_FloatLiteral(t *testing.T) {
	toks, _ := lexer.New("1.5").Tokenize()
	require.Len(t, toks, 2)
	assert.Equal(t, token.Float, toks[0].Kind)
	assert.InDelta(t, 1.5, toks[0].FloatValue, 1e-9)
}

func TestTokenize_Operators(t *testing.T) {
	toks, errs := lexer.New("<< >> <= >= == != += -= *= /= |= &= ^= :: && ||").Tokenize()
	require.Empty(t, errs)
	want := []token.Kind{
		token.ShiftLeft, token.ShiftRight, token.LessEq, token.GreaterEq,
		token.Equals, token.NotEquals, token.AddAssign, token.SubAssign,
		token.MulAssign, token.DivAssign, token.BitOrAssign, token.BitAndAssign,
		token.XorAssign, token.DoubleColon, token.And, token.Or, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestTokenize_InvalidCharacterContinues(t *testing.T) {
	toks, errs := lexer.New("a $ b").Tokenize()
	require.Len(t, errs, 1)
	var ice *lexer.InvalidCharacterError
	require.ErrorAs(t, errs[0], &ice)
	assert.Equal(t, byte('$'), ice.Char)
	assert.Equal(t, []token.Kind{token.Ident, token.Ident, token.EOF}, kinds(toks))
}

func TestTokenize_Keywords(t *testing.T) {
	toks, _ := lexer.New("device if else true false").Tokenize()
	assert.Equal(t, []token.Kind{
		token.KDevice, token.KIf, token.KElse, token.KTrue, token.KFalse, token.EOF,
	}, kinds(toks))
}

func TestTokenize_IndexAndBrackets(t *testing.T) {
	toks, errs := lexer.New("in.analogs[3]").Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []token.Kind{
		token.Ident, token.Dot, token.Ident, token.LBrack, token.Int, token.RBrack, token.EOF,
	}, kinds(toks))
}
