package golden

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Binary expressions

## Test: plus
` + fence + `tiny-expr
1 + 2
` + fence + `
` + fence + `sexpr
(binary "PLUS" (const 1) (const 2))
` + fence + `

## Test: minus
` + fence + `cminus-expr
1 - 2
` + fence + `
` + fence + `ast
1:{MINUS
    1:{1}
    1:{2}
}
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "plus")
	be.Equal(t, tc1.Input, "1 + 2\n")
	be.Equal(t, tc1.InputType, InputTinyExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertSExpr)
	be.Equal(t, tc1.Assertions[0].Content, "(binary \"PLUS\" (const 1) (const 2))\n")

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "minus")
	be.Equal(t, tc2.InputType, InputCMinusExpr)
	be.Equal(t, tc2.Assertions[0].Type, AssertAST)
	be.Equal(t, tc2.Assertions[0].Content, "1:{MINUS\n    1:{1}\n    1:{2}\n}\n")
}

func TestExtractTestCases_InputData(t *testing.T) {
	markdown := `## Test: echo
` + fence + `tiny-program
read x; write x
` + fence + `
` + fence + `input
42
` + fence + `
` + fence + `execute
42
` + fence + `
` + fence + `code
.slots 1
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputData, "42\n")
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertExecute)
	be.Equal(t, tc.Assertions[1].Type, AssertCode)
}

func TestExtractTestCases_PlainBlocksAreDocumentation(t *testing.T) {
	markdown := "Some prose.\n\n" + fence + "\nnot a test\n" + fence + `

## Test: with docs
` + fence + `cminus-decl
int x;
` + fence + `

` + fence + `
explanation
` + fence + `

` + fence + `symbols
0 x: 1
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := `## Test: lines

` + fence + `tiny-expr
x
` + fence + `

` + fence + `sexpr
(ident "x")
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Assertions[0].Line, 8)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			"no input",
			"## Test: empty\n" + fence + "ast\n1:{1}\n" + fence,
			"test 'empty' has no input fence",
		},
		{
			"no assertions",
			"## Test: lonely\n" + fence + "tiny-expr\n1\n" + fence,
			"test 'lonely' has no assertion fences",
		},
		{
			"two inputs",
			"## Test: twice\n" + fence + "tiny-expr\n1\n" + fence + "\n" + fence + "tiny-expr\n2\n" + fence,
			"error walking markdown AST: line 6: multiple input fences found in test 'twice'",
		},
		{
			"unknown fence",
			"## Test: odd\n" + fence + "tiny-expr\n1\n" + fence + "\n" + fence + "python\nprint(1)\n" + fence,
			"error walking markdown AST: line 6: unknown fence language 'python' in test 'odd'",
		},
		{
			"fence outside test",
			fence + "ast\n1:{1}\n" + fence,
			"error walking markdown AST: line 2: ast fence found outside of test case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTestCases(tt.markdown)
			be.True(t, err != nil)
			be.Equal(t, err.Error(), tt.want)
		})
	}
}
