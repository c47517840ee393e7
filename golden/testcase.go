// Package golden extracts compiler test cases from Markdown documents.
//
// A test case starts at a heading "Test: <name>" and is followed by one
// input fence and one or more assertion fences:
//
//	## Test: left associative addition
//
//	```tiny-expr
//	2 + 3 + 4
//	```
//
//	```ast
//	1:{PLUS
//	...
//	```
package golden

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType names the language and entry point an input fence is parsed with.
type InputType string

const (
	InputTinyProgram   InputType = "tiny-program"
	InputTinyStmt      InputType = "tiny-stmt"
	InputTinyExpr      InputType = "tiny-expr"
	InputCMinusProgram InputType = "cminus-program"
	InputCMinusDecl    InputType = "cminus-decl"
	InputCMinusStmt    InputType = "cminus-stmt"
	InputCMinusExpr    InputType = "cminus-expr"
)

var inputTypes = []InputType{
	InputTinyProgram, InputTinyStmt, InputTinyExpr,
	InputCMinusProgram, InputCMinusDecl, InputCMinusStmt, InputCMinusExpr,
}

// AssertionType names what an assertion fence checks.
type AssertionType string

const (
	AssertAST          AssertionType = "ast"           // ast.Render output
	AssertSExpr        AssertionType = "sexpr"         // ast.ToSExpr output, after type checking
	AssertSymbols      AssertionType = "symbols"       // SymbolTable.String output
	AssertCode         AssertionType = "code"          // listing of the generated unit
	AssertExecute      AssertionType = "execute"       // output of running the program
	AssertCompileError AssertionType = "compile-error" // error text of a failing compile
	AssertInput        AssertionType = "input"         // stdin for execute; not an assertion
)

var assertionTypes = []AssertionType{
	AssertAST, AssertSExpr, AssertSymbols, AssertCode, AssertExecute, AssertCompileError, AssertInput,
}

// Assertion is one expected-output fence.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int // line of the fence in the Markdown source
}

// TestCase is one "Test:" section of a Markdown document.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	InputData  string // stdin from an input fence, if any
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and returns its test cases
// in document order.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var testCases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractTextFromNode(n, source)
			if !strings.HasPrefix(headingText, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validateTestCase(current); err != nil {
					return ast.WalkStop, err
				}
				testCases = append(testCases, *current)
			}
			current = &TestCase{Name: strings.TrimPrefix(headingText, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlockContent(n, source)
			lineNum := getLineNumber(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case isInputFence(language):
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, current.Name)
				}
				current.Input = content
				current.InputType = InputType(language)
			case language == string(AssertInput):
				if current.InputData != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple stdin fences found in test '%s'", lineNum, current.Name)
				}
				current.InputData = content
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: content,
					Line:    lineNum,
				})
			case language == "":
				// plain code blocks are documentation
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validateTestCase(current); err != nil {
			return nil, err
		}
		testCases = append(testCases, *current)
	}
	return testCases, nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// extractCodeBlockContent extracts the content from a fenced code block
func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isInputFence(language string) bool {
	for _, t := range inputTypes {
		if language == string(t) {
			return true
		}
	}
	return false
}

func isAssertionFence(language string) bool {
	for _, t := range assertionTypes {
		if language == string(t) {
			return true
		}
	}
	return false
}

// validateTestCase ensures a test case has both input and at least one assertion
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	return nil
}

// getLineNumber calculates the line number of a given AST node
func getLineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	startPos := node.Lines().At(0).Start
	return bytes.Count(source[:min(startPos, len(source))], []byte("\n")) + 1
}
