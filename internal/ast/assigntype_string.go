package ast

var assignTypeNames = map[AssignType]string{
	ILLEGAL_ASSIGN: "ILLEGAL_ASSIGN",
	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
}

// String renders an AssignType as its source-level operator spelling.
// Hand-written rather than stringer-generated since the operator set is
// edited directly in assign_types.go.
func (a AssignType) String() string {
	if name, ok := assignTypeNames[a]; ok {
		return name
	}
	return "ILLEGAL_ASSIGN"
}
