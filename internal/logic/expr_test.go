package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleAtom(t *testing.T) {
	expr, err := Parse("CISC-203")
	require.NoError(t, err)
	assert.Equal(t, OpAtom, expr.Op)
	assert.Equal(t, []string{"CISC-203"}, expr.Atoms())
}

func TestParsePrecedence(t *testing.T) {
	// NOT binds tightest, then AND, then OR.
	expr, err := Parse("CISC-101 OR CISC-102 AND NOT CISC-103")
	require.NoError(t, err)
	require.Equal(t, OpOr, expr.Op)
	assert.Equal(t, OpAtom, expr.Left.Op)
	require.Equal(t, OpAnd, expr.Right.Op)
	assert.Equal(t, OpNot, expr.Right.Right.Op)
}

func TestParseParenthesesOverride(t *testing.T) {
	expr, err := Parse("(CISC-101 OR CISC-102) AND CISC-103")
	require.NoError(t, err)
	require.Equal(t, OpAnd, expr.Op)
	assert.Equal(t, OpOr, expr.Left.Op)
}

func TestEvaluate(t *testing.T) {
	expr, err := Parse("CISC-121 AND (MATH-110 OR MATH-111) AND NOT CISC-124")
	require.NoError(t, err)

	completed := map[string]bool{"CISC-121": true, "MATH-111": true}
	assert.True(t, expr.Evaluate(func(a string) bool { return completed[a] }))

	completed["CISC-124"] = true
	assert.False(t, expr.Evaluate(func(a string) bool { return completed[a] }))
}

func TestAtomsDeduplicated(t *testing.T) {
	expr, err := Parse("CISC-121 OR CISC-121 OR MATH-110")
	require.NoError(t, err)
	assert.Equal(t, []string{"CISC-121", "MATH-110"}, expr.Atoms())
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"AND CISC-101",
		"CISC-101 OR",
		"(CISC-101",
		"CISC-101 MATH-110",
		"cisc-101",
		"CISC-1010",
		"CISC-101 AND ()",
	}
	for _, input := range cases {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}
