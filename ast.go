package graft

// Stmt is a single executable statement. The executor accepts any
// well-formed statement sequence regardless of how it was produced;
// the bundled lexer and parser are one producer, embedders building
// statement slices directly are another.
type Stmt interface {
	stmtNode()
}

// LetStmt binds a literal value to a name
type LetStmt struct {
	Name  string
	Value Value
}

// BranchStmt opens a speculative branch watching Variable and
// executes Body inside it
type BranchStmt struct {
	Variable string
	Body     []Stmt
}

// MergeStmt commits the most recently opened branch registered under
// Variable, subject to the staleness check
type MergeStmt struct {
	Variable string
}

// PrintStmt writes a variable's current value or a literal to output
type PrintStmt struct {
	Target PrintTarget
}

// InputStmt reads one line of input and binds it to Variable as a Str
type InputStmt struct {
	Prompt    string
	HasPrompt bool
	Variable  string
}

// ListPushStmt appends a value to a List-bound variable (copy-on-write)
type ListPushStmt struct {
	Variable string
	Value    Value
}

// SetInsertStmt inserts a value into a Set-bound variable (copy-on-write)
type SetInsertStmt struct {
	Variable string
	Value    Value
}

func (*LetStmt) stmtNode()       {}
func (*BranchStmt) stmtNode()    {}
func (*MergeStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()     {}
func (*InputStmt) stmtNode()     {}
func (*ListPushStmt) stmtNode()  {}
func (*SetInsertStmt) stmtNode() {}

// PrintTarget is either a variable reference or a literal value
type PrintTarget interface {
	printTarget()
}

// PrintVariable prints the named variable's current binding
type PrintVariable string

// PrintValue prints a literal value directly
type PrintValue struct {
	Value Value
}

func (PrintVariable) printTarget() {}
func (PrintValue) printTarget()    {}
