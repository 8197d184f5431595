package lsp

import (
	"github.com/wisplang/wisp/internal/ast"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

func collectSemanticTokens(contract *ast.Contract) []SemanticToken {
	var tokens []SemanticToken

	if contract == nil {
		return tokens
	}

	for _, item := range contract.Items {
		tokens = append(tokens, walkContractItem(item)...)
	}

	return tokens
}

func walkContractItem(item ast.ContractItem) []SemanticToken {
	switch it := item.(type) {
	case *ast.Attribute:
		return []SemanticToken{makeToken(it.Pos, it.EndPos, it.Name, "modifier", 0)}
	case *ast.Use:
		return walkUse(it)
	case *ast.Struct:
		return walkStruct(it)
	case *ast.Function:
		return walkFunction(it)
	default:
		return nil
	}
}

func walkUse(u *ast.Use) []SemanticToken {
	var tokens []SemanticToken
	for _, ns := range u.Namespaces {
		tokens = append(tokens, makeToken(ns.Name.Pos, ns.Name.EndPos, ns.Name.Value, "namespace", 0))
	}
	for _, imp := range u.Imports {
		tokens = append(tokens, makeToken(imp.Name.Pos, imp.Name.EndPos, imp.Name.Value, "type", 0))
	}
	return tokens
}

func walkStruct(s *ast.Struct) []SemanticToken {
	var tokens []SemanticToken

	if s.Attribute != nil {
		tokens = append(tokens, makeToken(s.Attribute.Pos, s.Attribute.EndPos, s.Attribute.Name, "modifier", 0))
	}
	if s.Name.Value != "" {
		tokens = append(tokens, makeToken(s.Name.Pos, s.Name.EndPos, s.Name.Value, "type", 1))
	}
	for _, item := range s.Items {
		field, ok := item.(*ast.StructField)
		if !ok {
			continue
		}
		tokens = append(tokens, makeToken(field.Name.Pos, field.Name.EndPos, field.Name.Value, "property", 1))
		tokens = append(tokens, typeReferenceToken(field.VariableType)...)
	}

	return tokens
}

func walkFunction(f *ast.Function) []SemanticToken {
	var tokens []SemanticToken

	if f.Attribute != nil {
		tokens = append(tokens, makeToken(f.Attribute.Pos, f.Attribute.EndPos, f.Attribute.Name, "modifier", 0))
	}
	if f.Name.Value != "" {
		tokens = append(tokens, makeToken(f.Name.Pos, f.Name.EndPos, f.Name.Value, "function", 1))
	}

	for _, p := range f.Params {
		tokens = append(tokens, makeToken(p.Name.Pos, p.Name.EndPos, p.Name.Value, "parameter", 0))
		tokens = append(tokens, typeReferenceToken(p.Type)...)
	}
	if f.Return != nil {
		tokens = append(tokens, typeReferenceToken(f.Return)...)
	}
	for _, r := range f.Reads {
		tokens = append(tokens, makeToken(r.Pos, r.EndPos, r.Value, "type", 0))
	}
	for _, w := range f.Writes {
		tokens = append(tokens, makeToken(w.Pos, w.EndPos, w.Value, "type", 0))
	}
	tokens = append(tokens, walkFunctionBlock(f.Body)...)

	return tokens
}

func walkFunctionBlock(fb *ast.FunctionBlock) []SemanticToken {
	var tokens []SemanticToken

	if fb == nil {
		return tokens
	}

	for _, item := range fb.Items {
		tokens = append(tokens, walkBlockItem(item)...)
	}

	if fb.TailExpr != nil && fb.TailExpr.Expr != nil {
		tokens = append(tokens, walkExpr(fb.TailExpr.Expr)...)
	}

	return tokens
}

func walkBlockItem(item ast.FunctionBlockItem) []SemanticToken {
	switch it := item.(type) {
	case *ast.LetStmt:
		tokens := []SemanticToken{makeToken(it.Name.Pos, it.Name.EndPos, it.Name.Value, "variable", 1)}
		if it.Expr != nil {
			tokens = append(tokens, walkExpr(it.Expr)...)
		}
		return tokens
	case *ast.AssignStmt:
		var tokens []SemanticToken
		if it.Target != nil {
			tokens = append(tokens, walkExpr(it.Target)...)
		}
		if it.Value != nil {
			tokens = append(tokens, walkExpr(it.Value)...)
		}
		return tokens
	case *ast.RequireStmt:
		return walkExprList(it.Args)
	case *ast.AssertStmt:
		return walkExprList(it.Args)
	case *ast.IfStmt:
		var tokens []SemanticToken
		if it.Condition != nil {
			tokens = append(tokens, walkExpr(it.Condition)...)
		}
		tokens = append(tokens, walkFunctionBlock(&it.ThenBlock)...)
		if it.ElseBlock != nil {
			tokens = append(tokens, walkFunctionBlock(it.ElseBlock)...)
		}
		return tokens
	case *ast.ReturnStmt:
		if it.Value != nil {
			return walkExpr(it.Value)
		}
		return nil
	case *ast.ExprStmt:
		if it.Expr != nil {
			return walkExpr(it.Expr)
		}
		return nil
	default:
		return nil
	}
}

func walkExprList(exprs []ast.Expr) []SemanticToken {
	var tokens []SemanticToken
	for _, e := range exprs {
		tokens = append(tokens, walkExpr(e)...)
	}
	return tokens
}

func walkExpr(expr ast.Expr) []SemanticToken {
	if expr == nil {
		return nil
	}

	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return append(walkExpr(e.Left), walkExpr(e.Right)...)
	case *ast.UnaryExpr:
		return walkExpr(e.Value)
	case *ast.ParenExpr:
		return walkExpr(e.Value)
	case *ast.TupleExpr:
		return walkExprList(e.Elements)
	case *ast.CallExpr:
		return walkCallExpr(e)
	case *ast.FieldAccessExpr:
		return walkExpr(e.Target)
	case *ast.IndexExpr:
		return append(walkExpr(e.Target), walkExpr(e.Index)...)
	case *ast.StructLiteralExpr:
		var tokens []SemanticToken
		if e.Type != nil {
			tokens = append(tokens, makeToken(e.Type.Pos, e.Type.EndPos, e.Type.String(), "type", 0))
		}
		for _, f := range e.Fields {
			tokens = append(tokens, makeToken(f.Name.Pos, f.Name.EndPos, f.Name.Value, "property", 0))
			if f.Value != nil {
				tokens = append(tokens, walkExpr(f.Value)...)
			}
		}
		return tokens
	case *ast.IdentExpr:
		return []SemanticToken{makeToken(e.Pos, e.EndPos, e.Name, "variable", 0)}
	case *ast.CalleePath:
		var tokens []SemanticToken
		for _, p := range e.Parts {
			tokens = append(tokens, makeToken(p.Pos, p.EndPos, p.Value, "function", 0))
		}
		return tokens
	default:
		return nil
	}
}

func walkCallExpr(call *ast.CallExpr) []SemanticToken {
	var tokens []SemanticToken

	if call == nil {
		return tokens
	}

	tokens = append(tokens, walkExpr(call.Callee)...)

	for _, g := range call.Generic {
		tokens = append(tokens, typeReferenceToken(&g)...)
	}

	for _, arg := range call.Args {
		tokens = append(tokens, walkExpr(arg)...)
	}

	return tokens
}

func makeToken(pos, endPos ast.Position, value, tokenType string, decl int) SemanticToken {
	length := endPos.Column - pos.Column
	if length <= 0 {
		length = len(value)
	}

	return SemanticToken{
		Line:           uint32(pos.Line - 1),
		StartChar:      uint32(pos.Column - 1),
		Length:         uint32(length),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: decl << indexOf("declaration", SemanticTokenModifiers),
	}
}

// typeReferenceToken collects tokens for type references
// (e.g., parameter types, return types, generic types)
func typeReferenceToken(t *ast.VariableType) []SemanticToken {
	if t == nil || t.Name.Value == "" {
		return nil
	}
	return []SemanticToken{
		makeToken(t.Name.Pos, t.Name.Pos, t.Name.Value, "type", 0),
	}
}

// indexOf returns the index of a string in a list, or -1 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
