// Package lower walks the contract AST (internal/ast, produced by
// internal/parser) and drives an internal/ir.Builder to build a Function for
// each contract function. It is the concrete demonstration of the "surface
// language" collaborator that spec.md places out of scope: returns,
// binary/unary ops, field access, and struct/tuple literals lower directly;
// a call lowers only to a value list of its arguments, with no callee and
// no call terminator;
// require!/assert! lower to an IfBool guard plus an Unreachable failure
// block (spec.md §4.7's canonical cycle-free shape for a guard clause).
// Message send/receive, spawn and full pattern matching are a future
// front end's job, not this one's (SPEC_FULL.md §4.12).
package lower

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/dialect"
	"github.com/wisplang/wisp/internal/ir"
)

// Error is a recoverable lowering diagnostic: a construct the demonstration
// subset doesn't cover, or an unresolved identifier. Lowering continues past
// an Error by substituting a placeholder value so the rest of the function
// still produces a well-formed graph.
type Error struct {
	Message  string
	Position ast.Position
}

// Result carries one function's lowered graph plus any errors encountered.
type Result struct {
	Func   *ir.Function
	Errors []Error
}

// LowerFunction builds fn's CPS graph. Block 0 (the entry) takes one
// argument per formal parameter plus a leading implicit "return
// continuation" argument: returning from fn means invoking that
// continuation with the returned value, the way a CPS-transformed function
// never actually returns to a caller frame (spec.md §1).
func LowerFunction(fn *ast.Function, dialectName string) *Result {
	if dialectName == "" {
		dialectName = dialect.Normal
	}

	ident := ir.FunctionIdent{Name: fn.Name.Value, Arity: len(fn.Params)}
	b := ir.NewBuilder(ident, dialectName, len(fn.Params)+1)
	entry := b.CurrentBlock()

	lw := &lowerer{b: b}
	retCont := b.ArgValue(entry, 0)
	scope := make(map[string]ir.Value, len(fn.Params))
	for i, p := range fn.Params {
		scope[p.Name.Value] = b.ArgValue(entry, i+1)
	}

	lw.lowerItems(fn.Body.Items, fn.Body.TailExpr, entry, scope, func(blk ir.Block, tailVal ir.Value) {
		b.SetCallControlFlow(blk, retCont, []ir.Value{tailVal}, b.Func.Locations.Empty())
	})

	return &Result{Func: b.Func, Errors: lw.errors}
}

// lowerer carries the mutable state threaded through one function's
// lowering: the builder and the errors accumulated along the way.
type lowerer struct {
	b      *ir.Builder
	errors []Error
}

func (lw *lowerer) errorf(pos ast.Position, message string) {
	lw.errors = append(lw.errors, Error{Message: message, Position: pos})
}

// fallthroughFn is invoked when control reaches the end of a statement list
// without an explicit return: it receives the block to terminate and the
// value produced by the list's trailing expression (the unit constant if
// there was none).
type fallthroughFn func(blk ir.Block, tailVal ir.Value)

// lowerItems lowers a straight-line statement list into cur, branching into
// fresh blocks for if/require/assert and resuming in a join block
// afterwards. scope is mutated in place for let/assign bindings visible to
// the remainder of this same list.
func (lw *lowerer) lowerItems(items []ast.FunctionBlockItem, tail *ast.ExprStmt, cur ir.Block, scope map[string]ir.Value, done fallthroughFn) {
	b := lw.b

	for i := 0; i < len(items); i++ {
		switch item := items[i].(type) {
		case *ast.LetStmt:
			if item.Expr != nil {
				scope[item.Name.Value] = lw.lowerExpr(item.Expr, scope)
			} else {
				scope[item.Name.Value] = b.ConstValue(b.Func.Consts.Atom("undefined"))
			}

		case *ast.AssignStmt:
			if name, ok := item.Target.(*ast.IdentExpr); ok {
				scope[name.Name] = lw.lowerExpr(item.Value, scope)
			} else {
				lw.lowerExpr(item.Target, scope)
				lw.lowerExpr(item.Value, scope)
			}

		case *ast.ExprStmt:
			lw.lowerExpr(item.Expr, scope)

		case *ast.Comment:
			// no graph effect

		case *ast.ReturnStmt:
			var val ir.Value
			if item.Value != nil {
				val = lw.lowerExpr(item.Value, scope)
			} else {
				val = b.ConstValue(b.Func.Consts.Atom("ok"))
			}
			done(cur, val)
			return

		case *ast.IfStmt:
			cond := lw.lowerExpr(item.Condition, scope)
			joinBlk := b.CreateBlock(0)
			thenBlk := b.CreateBlock(0)
			elseBlk := joinBlk
			if item.ElseBlock != nil {
				elseBlk = b.CreateBlock(0)
			}

			b.SetIfBool(cur, cond, b.BlockValue(thenBlk), b.BlockValue(elseBlk), b.Func.Locations.Empty())

			joinTo := func(blk ir.Block, _ ir.Value) {
				b.SetCallControlFlow(blk, b.BlockValue(joinBlk), nil, b.Func.Locations.Empty())
			}

			thenScope := cloneScope(scope)
			lw.lowerItems(item.ThenBlock.Items, item.ThenBlock.TailExpr, thenBlk, thenScope, joinTo)

			if item.ElseBlock != nil {
				elseScope := cloneScope(scope)
				lw.lowerItems(item.ElseBlock.Items, item.ElseBlock.TailExpr, elseBlk, elseScope, joinTo)
			}

			cur = joinBlk

		case *ast.RequireStmt:
			cur = lw.lowerGuard(item.Args, item.Pos, cur, scope)

		case *ast.AssertStmt:
			cur = lw.lowerGuard(item.Args, item.Pos, cur, scope)

		default:
			lw.errorf(items[i].NodePos(), "lower: unsupported statement in this demonstration subset")
		}
	}

	var tailVal ir.Value
	if tail != nil {
		tailVal = lw.lowerExpr(tail.Expr, scope)
	} else {
		tailVal = b.ConstValue(b.Func.Consts.Atom("ok"))
	}
	done(cur, tailVal)
}

// lowerGuard lowers a require!/assert! statement to an IfBool terminator
// that falls through on success and traps into an Unreachable block on
// failure, and returns the block the caller should keep lowering into.
func (lw *lowerer) lowerGuard(args []ast.Expr, pos ast.Position, cur ir.Block, scope map[string]ir.Value) ir.Block {
	b := lw.b
	if len(args) == 0 {
		lw.errorf(pos, "lower: require/assert with no condition")
		return cur
	}

	cond := lw.lowerExpr(args[0], scope)
	okBlk := b.CreateBlock(0)
	failBlk := b.CreateBlock(0)

	b.SetIfBool(cur, cond, b.BlockValue(okBlk), b.BlockValue(failBlk), b.Func.Locations.Empty())
	b.SetUnreachable(failBlk, b.Func.Locations.Empty())

	return okBlk
}

func cloneScope(scope map[string]ir.Value) map[string]ir.Value {
	out := make(map[string]ir.Value, len(scope))
	for k, v := range scope {
		out[k] = v
	}
	return out
}

// lowerExpr lowers a single expression to a Value, recording an Error and
// substituting a placeholder constant for constructs outside the
// demonstration subset rather than aborting the whole function.
func (lw *lowerer) lowerExpr(expr ast.Expr, scope map[string]ir.Value) ir.Value {
	b := lw.b

	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return b.ConstValue(literalConst(b, e.Value))

	case *ast.IdentExpr:
		if v, ok := scope[e.Name]; ok {
			return v
		}
		lw.errorf(e.Pos, "lower: undefined identifier "+e.Name)
		return b.ConstValue(b.Func.Consts.Atom("undefined"))

	case *ast.ParenExpr:
		return lw.lowerExpr(e.Value, scope)

	case *ast.BinaryExpr:
		lhs := lw.lowerExpr(e.Left, scope)
		rhs := lw.lowerExpr(e.Right, scope)
		return b.BinaryOp(e.Op, lhs, rhs)

	case *ast.UnaryExpr:
		val := lw.lowerExpr(e.Value, scope)
		return b.BinaryOp("unary"+e.Op, val, val)

	case *ast.FieldAccessExpr:
		target := lw.lowerExpr(e.Target, scope)
		field := b.ConstValue(b.Func.Consts.Atom(e.Field))
		return b.BinaryOp("field_get", target, field)

	case *ast.IndexExpr:
		target := lw.lowerExpr(e.Target, scope)
		index := lw.lowerExpr(e.Index, scope)
		return b.BinaryOp("index_get", target, index)

	case *ast.CallExpr:
		args := make([]ir.Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = lw.lowerExpr(a, scope)
		}
		return b.ValueList(args)

	case *ast.TupleExpr:
		elems := make([]ir.Value, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = lw.lowerExpr(el, scope)
		}
		return b.Tuple(elems)

	case *ast.StructLiteralExpr:
		elems := make([]ir.Value, 0, len(e.Fields)*2)
		for _, f := range e.Fields {
			elems = append(elems, b.ConstValue(b.Func.Consts.Atom(f.Name.Value)))
			elems = append(elems, lw.lowerExpr(f.Value, scope))
		}
		return b.Map(elems)

	default:
		lw.errorf(expr.NodePos(), "lower: unsupported expression in this demonstration subset")
		return b.ConstValue(b.Func.Consts.Atom("undefined"))
	}
}

// literalConst interprets a scanned literal's lexeme as an int, hex int, or
// atom (identifiers like "true"/"false" and quoted strings all fall back to
// Atom, since this demonstration subset has no separate string Const kind
// beyond Atom/Binary).
func literalConst(b *ir.Builder, lexeme string) ir.Const {
	if n, ok := parseDecimal(lexeme); ok {
		return b.Func.Consts.Int(n)
	}
	if n, ok := parseHex(lexeme); ok {
		return b.Func.Consts.Int(n)
	}
	return b.Func.Consts.Atom(lexeme)
}

func parseDecimal(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}

func parseHex(s string) (int64, bool) {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return 0, false
	}
	var n int64
	for _, c := range s[2:] {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		default:
			return 0, false
		}
		n = n*16 + d
	}
	return n, true
}
