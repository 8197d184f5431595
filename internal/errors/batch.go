package errors

import "github.com/google/uuid"

// Kind classifies where a fatal IR error originates (spec.md §7): a builder
// contract violation, a graph-invariant failure caught by
// ir.GraphValidateGlobal, or a pass invariant broken by the CFG-simplify
// pass or the mangler. Those three are programmer bugs, reported by
// panicking with the offending ids; KindLoweringError marks a recoverable
// lowering error instead.
type Kind string

const (
	KindBuilderContractViolation Kind = "builder_contract_violation"
	KindGraphInvariantFailure    Kind = "graph_invariant_failure"
	KindPassInvariantViolation   Kind = "pass_invariant_violation"
	KindLoweringError            Kind = "lowering_error"
)

// FatalIRError is panicked by internal/ir and internal/lower when a
// builder-contract or graph-invariant check fails: these are bugs in the
// caller, not recoverable diagnostics (spec.md §7, "Builder contract
// violations... must be reported as fatal... with the offending IDs").
type FatalIRError struct {
	Kind      Kind
	Message   string
	Offending []int // the ids (Block/Value/PrimOp handles) implicated
}

func (e *FatalIRError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Fatal panics with a FatalIRError. Callers recover at a compilation-unit
// boundary (a single function/module build), never inside the IR package
// itself.
func Fatal(kind Kind, message string, offending ...int) {
	panic(&FatalIRError{Kind: kind, Message: message, Offending: offending})
}

// Batch groups the recoverable diagnostics produced by one lowering run
// (spec.md §7, "Lowering errors... recoverable; collected in a diagnostics
// sink with a severity, a primary span, and optional secondary spans") under
// a single correlation id, so a driver invoking the compiler many times over
// a build can group and report a run's errors together. Grounded on
// funvibe-funxy's use of github.com/google/uuid for call-scoped identifiers.
type Batch struct {
	ID     uuid.UUID
	Errors []CompilerError
}

// NewBatch starts a fresh, empty diagnostics batch with a random correlation
// id.
func NewBatch() *Batch {
	return &Batch{ID: uuid.New()}
}

// Add appends a recoverable diagnostic to the batch.
func (b *Batch) Add(err CompilerError) {
	b.Errors = append(b.Errors, err)
}

// HasErrors reports whether the batch contains at least one diagnostic at
// the Error level; Warning, Note and Help diagnostics are not counted.
func (b *Batch) HasErrors() bool {
	for _, e := range b.Errors {
		if e.Level == Error {
			return true
		}
	}
	return false
}
