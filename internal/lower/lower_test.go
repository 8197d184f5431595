package lower

import (
	"testing"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/ir"
	"github.com/wisplang/wisp/internal/parser"
)

func parseFunction(t *testing.T, source string) *ast.Function {
	t.Helper()
	contract, errs, scanErrs := parser.ParseSource("test.ka", source)
	if len(errs) != 0 || len(scanErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v %v", errs, scanErrs)
	}
	for _, item := range contract.Items {
		if fn, ok := item.(*ast.Function); ok {
			return fn
		}
	}
	t.Fatal("no function found in contract")
	return nil
}

func TestLowerSimpleReturn(t *testing.T) {
	fn := parseFunction(t, `contract Test {
		fn add(a: U256, b: U256) -> U256 {
			return a + b;
		}
	}`)

	result := LowerFunction(fn, "")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected lowering errors: %v", result.Errors)
	}

	f := result.Func
	entry := f.Entry()
	if f.BlockKind(entry) != ir.OpCallControlFlow {
		t.Fatalf("expected entry to end in call_control_flow, got %s", f.BlockKind(entry))
	}
	if got := len(f.BlockArgs(entry)); got != 3 {
		t.Fatalf("expected 3 entry args (return cont + 2 params), got %d", got)
	}
}

func TestLowerIfElseJoins(t *testing.T) {
	fn := parseFunction(t, `contract Test {
		fn test(value: U256) -> Bool {
			if value > 0 {
				return true;
			} else {
				return false;
			}
		}
	}`)

	result := LowerFunction(fn, "")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected lowering errors: %v", result.Errors)
	}

	f := result.Func
	if f.BlockKind(f.Entry()) != ir.OpIfBool {
		t.Fatalf("expected entry to end in if_bool, got %s", f.BlockKind(f.Entry()))
	}
}

func TestLowerRequireTrapsOnFailure(t *testing.T) {
	fn := parseFunction(t, `contract Test {
		fn test(amount: U256) {
			require!(amount > 0);
			return;
		}
	}`)

	result := LowerFunction(fn, "")
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected lowering errors: %v", result.Errors)
	}

	f := result.Func
	if f.BlockKind(f.Entry()) != ir.OpIfBool {
		t.Fatalf("expected require to lower to if_bool, got %s", f.BlockKind(f.Entry()))
	}

	reads := f.BlockReads(f.Entry())
	if len(reads) != 3 {
		t.Fatalf("expected if_bool reads [cond, thenCont, elseCont], got %d", len(reads))
	}
}

func TestLowerUnsupportedExprRecordsError(t *testing.T) {
	fn := &ast.Function{
		Name: ast.Ident{Value: "bogus"},
		Body: &ast.FunctionBlock{
			TailExpr: &ast.ExprStmt{Expr: &ast.BadExpr{}},
		},
	}

	result := LowerFunction(fn, "")
	if len(result.Errors) == 0 {
		t.Fatal("expected a lowering error for an unsupported expression")
	}
}
