// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/errors"
	"github.com/wisplang/wisp/internal/ir"
	"github.com/wisplang/wisp/internal/lower"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/semantic"
)

func main() {
	dumpIR := flag.Bool("ir", false, "lower every function to IR and print it instead of the AST")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: wisp [-ir] <file.ka>")
		os.Exit(1)
	}

	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	contract, parseErrs, scanErrs := parser.ParseSource(path, string(source))
	if len(parseErrs) > 0 || len(scanErrs) > 0 {
		reportErrors(path, string(source), parseErrs, scanErrs)
		os.Exit(1)
	}

	analyzer := semantic.NewAnalyzer()
	analyzer.Analyze(contract)
	if semErrs := analyzer.GetErrors(); len(semErrs) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		for _, e := range semErrs {
			fmt.Print(reporter.FormatError(e))
		}
		os.Exit(1)
	}

	if *dumpIR {
		dumpContractIR(contract)
		return
	}

	fmt.Println(contract.String())
	color.Green("✅ Successfully processed %s", path)
}

// reportErrors formats every scan and parse error Rust-style, caret and all,
// via internal/errors' ErrorReporter.
func reportErrors(path, source string, parseErrs []parser.ParseError, scanErrs []parser.ScanError) {
	reporter := errors.NewErrorReporter(path, source)

	for _, se := range scanErrs {
		fmt.Print(reporter.FormatError(errors.CompilerError{
			Level:   errors.Error,
			Code:    "E0001",
			Message: se.Message,
			Position: ast.Position{
				Filename: path,
				Offset:   se.Position.Offset,
				Line:     se.Position.Line,
				Column:   se.Position.Column,
			},
			Length: se.Length,
		}))
	}

	for _, pe := range parseErrs {
		fmt.Print(reporter.FormatError(errors.CompilerError{
			Level:   errors.Error,
			Code:    "E0002",
			Message: pe.Message,
			Position: ast.Position{
				Filename: path,
				Offset:   pe.Position.Offset,
				Line:     pe.Position.Line,
				Column:   pe.Position.Column,
			},
			Length: 1,
		}))
	}
}

// dumpContractIR lowers every function in the contract and prints its IR,
// simplified, one function at a time. Lowering errors are reported alongside
// whatever IR that function did produce rather than aborting the whole dump.
func dumpContractIR(contract *ast.Contract) {
	for _, item := range contract.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}

		result := lower.LowerFunction(fn, "")
		for _, e := range result.Errors {
			color.Yellow("warning: %s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
		}

		b := &ir.Builder{Func: result.Func}
		ir.Simplify(b)

		fmt.Println(ir.Print(result.Func))
	}
}
