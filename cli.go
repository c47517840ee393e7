package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/strager/tinyc/ast"
	"github.com/strager/tinyc/compiler"
	"github.com/strager/tinyc/parser"
	"github.com/strager/tinyc/token"
	"github.com/strager/tinyc/vm"
)

// interner is shared by every compile in the process.
var interner = token.NewInterner()

func showUsage() {
	fmt.Fprintf(os.Stderr, `tinyc - a compiler for TINY and C-Minus

Usage:
    tinyc <command> [arguments]

Commands:
    run <file>        Compile and execute a .tny or .cm file
    build <file>      Compile a file to a stack machine listing
    check <file>...   Parse and type-check one or more files
    ast <file>        Print the syntax tree of a file
    symbols <file>    Print the symbol table of a file
    eval <code>       Compile and execute inline code
    help              Show this help message

Examples:
    tinyc run examples/factorial.tny
    tinyc build -o gcd.lst examples/gcd.cm
    tinyc eval 'read x; write x * x'
    tinyc check examples/*.tny examples/*.cm

Use "tinyc <command> -h" for more information about a command.
`)
}

func newFlagSet(name, usage, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tinyc %s\n", usage)
		fmt.Fprintf(os.Stderr, "%s\n\n", summary)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// sourceLanguage returns the -lang override, or the language implied by
// filename.
func sourceLanguage(langFlag, filename string) (token.Language, error) {
	if langFlag != "" {
		return token.ParseLanguage(langFlag)
	}
	return compiler.LanguageFor(filename)
}

func readSource(filename, langFlag string) ([]byte, token.Language, error) {
	lang, err := sourceLanguage(langFlag, filename)
	if err != nil {
		return nil, "", err
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("error reading file %s: %w", filename, err)
	}
	return src, lang, nil
}

func compileProgram(src []byte, lang token.Language, verbose bool) (*compiler.Result, error) {
	result, err := compiler.Compile(src, compiler.Options{Language: lang, Interner: interner})
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("AST: %s\n", ast.ToSExpr(result.AST))
		fmt.Printf("Slots: %d\n", result.Symbols.Len())
		for _, fn := range result.Unit.Functions {
			fmt.Printf("Function %s: %d instructions\n", fn.Name, len(fn.Code))
		}
	}
	return result, nil
}

func execute(result *compiler.Result, stdin io.Reader) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return vm.Run(ctx, result.Unit, stdin, os.Stdout)
}

func runCommand(args []string) {
	fs := newFlagSet("run", "run [-v] [-lang tiny|cminus] [-in file] <file>", "Compile and execute a program")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	lang := fs.String("lang", "", "Source language (default: from file extension)")
	inFile := fs.String("in", "", "Read program input from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	src, language, err := readSource(filename, *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Compiling %s as %s...\n", filename, language)
	}
	result, err := compileProgram(src, language, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	var stdin io.Reader = os.Stdin
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		stdin = f
	}
	if *verbose {
		fmt.Printf("Executing...\n")
	}
	if err := execute(result, stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
}

func buildCommand(args []string) {
	fs := newFlagSet("build", "build [-o output] [-v] [-lang tiny|cminus] <file>", "Compile a program to a stack machine listing")
	output := fs.String("o", "", "Output file path (default: <filename>.lst)")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	lang := fs.String("lang", "", "Source language (default: from file extension)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, fileExt(filename)) + ".lst"
	}
	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	src, language, err := readSource(filename, *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	result, err := compileProgram(src, language, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}

	listing := result.Unit.Listing()
	if err := os.WriteFile(outputFile, []byte(listing), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing listing %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d slots, %d functions)\n", outputFile, result.Unit.Slots, len(result.Unit.Functions))
}

// checkResult is the outcome of checking one file.
type checkResult struct {
	filename string
	err      error
	verbose  string
}

func checkCommand(args []string) {
	fs := newFlagSet("check", "check [-v] [-lang tiny|cminus] <file>...", "Parse and type-check files concurrently")
	verbose := fs.Bool("v", false, "Show verbose checking details")
	lang := fs.String("lang", "", "Source language (default: from file extension)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: expected at least one file argument\n")
		fs.Usage()
		os.Exit(1)
	}

	files := fs.Args()
	results := make([]checkResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, filename := range files {
		g.Go(func() error {
			results[i] = checkFile(filename, *lang, *verbose)
			return nil
		})
	}
	g.Wait()

	failed := false
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.filename, r.err)
			failed = true
			continue
		}
		fmt.Printf("%s: no errors found\n", r.filename)
		if r.verbose != "" {
			fmt.Print(r.verbose)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func checkFile(filename, langFlag string, verbose bool) checkResult {
	src, language, err := readSource(filename, langFlag)
	if err != nil {
		return checkResult{filename: filename, err: err}
	}
	opts := compiler.Options{Language: language, Interner: interner}
	root, err := compiler.Parse(src, opts, parser.ParseProgram)
	if err != nil {
		return checkResult{filename: filename, err: err}
	}
	symbols, err := compiler.Analyze(root)
	if err != nil {
		return checkResult{filename: filename, err: err}
	}
	r := checkResult{filename: filename}
	if verbose {
		r.verbose = fmt.Sprintf("AST: %s\nSymbols:\n%s", ast.ToSExpr(root), symbols)
	}
	return r
}

func astCommand(args []string) {
	fs := newFlagSet("ast", "ast [-lang tiny|cminus] <file>", "Print the syntax tree of a program")
	lang := fs.String("lang", "", "Source language (default: from file extension)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	src, language, err := readSource(fs.Arg(0), *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	root, err := compiler.Parse(src, compiler.Options{Language: language, Interner: interner}, parser.ParseProgram)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(ast.Render(root))
}

func symbolsCommand(args []string) {
	fs := newFlagSet("symbols", "symbols [-lang tiny|cminus] <file>", "Print the symbol table of a program")
	lang := fs.String("lang", "", "Source language (default: from file extension)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	src, language, err := readSource(fs.Arg(0), *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	result, err := compileProgram(src, language, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(result.Symbols)
}

func evalCommand(args []string) {
	fs := newFlagSet("eval", "eval [-v] [-lang tiny|cminus] <code>", "Compile and execute inline code")
	verbose := fs.Bool("v", false, "Show verbose compilation details")
	lang := fs.String("lang", string(token.Tiny), "Source language")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one code argument\n")
		fs.Usage()
		os.Exit(1)
	}
	language, err := token.ParseLanguage(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	code := fs.Arg(0)
	if *verbose {
		fmt.Printf("Evaluating: %s\n", code)
	}
	result, err := compileProgram([]byte(code), language, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compilation failed: %v\n", err)
		os.Exit(1)
	}
	if err := execute(result, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "Execution failed: %v\n", err)
		os.Exit(1)
	}
}

func fileExt(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > strings.LastIndexByte(filename, '/') {
		return filename[i:]
	}
	return ""
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		runCommand(args)
	case "build":
		buildCommand(args)
	case "check":
		checkCommand(args)
	case "ast":
		astCommand(args)
	case "symbols":
		symbolsCommand(args)
	case "eval":
		evalCommand(args)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
